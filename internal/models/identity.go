package models

// Identity is the authenticated caller. It is passed explicitly into every
// service call instead of being read back from request context.
type Identity struct {
	UserID uint `json:"user_id"`
}
