package domain

// User is the identity the provider hands back after sign-up or login.
// The core only relies on UserID being stable and unique; everything
// else is display data.
type User struct {
	UserID      string `json:"userID"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// AuthEvent is one entry in the (user | none) authentication stream the
// session gate consumes. A nil User means signed out; UserID names the
// affected session in both directions.
type AuthEvent struct {
	User   *User
	UserID string
}

// SignedIn reports whether the event carries an authenticated user.
func (e AuthEvent) SignedIn() bool {
	return e.User != nil
}
