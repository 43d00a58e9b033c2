package domain

// Session is the authenticated identity carried in the client cookie.
// Stateless on the server: valid means "present, parses, has both fields".
type Session struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}
