package domain

import "time"

// Identity is the authenticated caller attached to a request by the auth
// middleware. It is passed explicitly to every use case that needs it.
type Identity struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanModify reports whether the caller may mutate a record owned by ownerID.
func (i Identity) CanModify(ownerID string) bool {
	return i.IsAdmin() || (i.UserID != "" && i.UserID == ownerID)
}
