package domain

import "time"

const (
	SignalStatusPending  = "pending"
	SignalStatusAccepted = "accepted"
	SignalStatusExpired  = "expired"
)

const (
	SignalTTL = 7 * 24 * time.Hour
	PodTTL    = 7 * 24 * time.Hour
)

// Signal es una invitacion de grupo pendiente generada por cluster discovery.
// Expira a los 7 dias si no todos aceptan.
type Signal struct {
	ID              string    `json:"id"`
	CreatorID       string    `json:"creator_id"`
	TargetUserIDs   []string  `json:"target_user_ids"`
	AcceptedUserIDs []string  `json:"accepted_user_ids"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// AllAccepted indica si todos los invitados ya aceptaron.
func (s Signal) AllAccepted() bool {
	if len(s.TargetUserIDs) == 0 {
		return false
	}
	accepted := make(map[string]struct{}, len(s.AcceptedUserIDs))
	for _, id := range s.AcceptedUserIDs {
		accepted[id] = struct{}{}
	}
	for _, id := range s.TargetUserIDs {
		if _, ok := accepted[id]; !ok {
			return false
		}
	}
	return true
}

// Pod es un grupo aceptado, vivo por 7 dias.
type Pod struct {
	ID        string    `json:"id"`
	SignalID  string    `json:"signal_id"`
	MemberIDs []string  `json:"member_ids"`
	Revealed  bool      `json:"revealed"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ContactInfo es la informacion de contacto revelable de un usuario.
type ContactInfo struct {
	UserID    string    `json:"user_id"`
	Instagram string    `json:"instagram,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
