package domain

// User is an account record. Created at registration, immutable after.
// Username is stored lowercased; uniqueness is case-insensitive.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}
