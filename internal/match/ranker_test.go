package match

import (
	"math"
	"reflect"
	"testing"

	"orbit-server/internal/domain"
)

func TestRankProfilesFiltersAndSorts(t *testing.T) {
	ranker := NewRanker()
	requester := testProfile("me")

	self := testProfile("me")
	nameless := testProfile("x1")
	nameless.DisplayName = ""
	identical := testProfile("twin")
	distant := testProfile("far")
	distant.Interests = []string{"Opera"}
	distant.FriendshipGoals = []string{"Pen pals"}
	distant.Personality = domain.Personality{IntrovertExtrovert: 1, SpontaneousPlanner: 1, ActiveRelaxed: 1}

	matches, skipped := ranker.RankProfiles(requester, []domain.Profile{self, nameless, distant, identical}, 0)
	if len(skipped) != 0 {
		t.Fatalf("unexpected diagnostics: %v", skipped)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].CandidateID != "twin" || matches[1].CandidateID != "far" {
		t.Fatalf("unexpected order: %v, %v", matches[0].CandidateID, matches[1].CandidateID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("expected descending scores: %v then %v", matches[0].Score, matches[1].Score)
	}
	if matches[0].Score != 1.0 {
		t.Fatalf("expected perfect score for identical profile, got %v", matches[0].Score)
	}
	if len(matches[0].SharedInterests) == 0 {
		t.Fatalf("expected shared interests in output")
	}
}

func TestRankProfilesMalformedCandidateDiagnostics(t *testing.T) {
	ranker := NewRanker()
	requester := testProfile("me")

	broken := testProfile("broken")
	broken.Personality.ActiveRelaxed = math.NaN()
	noInterests := testProfile("nilints")
	noInterests.Interests = nil
	healthy := testProfile("ok")

	matches, skipped := ranker.RankProfiles(requester, []domain.Profile{broken, noInterests, healthy}, 0)
	if len(matches) != 1 || matches[0].CandidateID != "ok" {
		t.Fatalf("expected only the healthy candidate, got %v", matches)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", skipped)
	}
	for _, s := range skipped {
		if s.Reason == "" {
			t.Fatalf("diagnostic without reason for %s", s.CandidateID)
		}
	}
}

func TestRankProfilesTieBreakAndCap(t *testing.T) {
	ranker := NewRanker()
	requester := testProfile("me")

	// Cinco candidatos identicos entre si: todos empatan; el desempate es
	// por ID ascendente y el resultado es reproducible.
	pool := []domain.Profile{
		testProfile("e"), testProfile("c"), testProfile("a"),
		testProfile("d"), testProfile("b"),
	}

	first, _ := ranker.RankProfiles(requester, pool, 0)
	second, _ := ranker.RankProfiles(requester, pool, 0)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking is not reproducible")
	}

	ids := make([]string, len(first))
	seen := make(map[string]int)
	for i, m := range first {
		ids[i] = m.CandidateID
		seen[m.CandidateID]++
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("expected id-ascending tie-break, got %v", ids)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("candidate %s appears %d times", id, n)
		}
	}

	capped, _ := ranker.RankProfiles(requester, pool, 3)
	if len(capped) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(capped))
	}
}

func TestRankProfilesEmptyPool(t *testing.T) {
	ranker := NewRanker()
	requester := testProfile("me")

	matches, skipped := ranker.RankProfiles(requester, nil, 0)
	if len(matches) != 0 || len(skipped) != 0 {
		t.Fatalf("expected empty output for empty pool, got %v / %v", matches, skipped)
	}

	// Pool donde todos quedan filtrados tampoco es error.
	nameless := testProfile("x")
	nameless.DisplayName = ""
	matches, _ = ranker.RankProfiles(requester, []domain.Profile{nameless}, 0)
	if len(matches) != 0 {
		t.Fatalf("expected empty list, got %v", matches)
	}
}

func TestRankTags(t *testing.T) {
	ranker := NewRanker()

	entities := []TagEntity{
		{ID: "crew-b", Tags: []string{"Hiking", "Coffee", "Gaming"}},
		{ID: "crew-a", Tags: []string{"Hiking"}},
		{ID: "crew-c", Tags: []string{"Knitting"}},
	}
	ranked := ranker.RankTags([]string{"Hiking", "Coffee", "Gaming"}, entities, 0)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranked))
	}
	if ranked[0].EntityID != "crew-b" || ranked[0].Score != 1.0 {
		t.Fatalf("unexpected top entry: %+v", ranked[0])
	}
	if ranked[2].EntityID != "crew-c" || ranked[2].Score != 0.0 {
		t.Fatalf("unexpected bottom entry: %+v", ranked[2])
	}

	capped := ranker.RankTags([]string{"Hiking"}, entities, 1)
	if len(capped) != 1 {
		t.Fatalf("expected cap of 1, got %d", len(capped))
	}
}
