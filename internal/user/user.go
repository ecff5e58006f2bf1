package user

// User represents a registered account. Timestamps are stored as RFC3339
// strings, matching the rest of the schema.
type User struct {
	ID        int    `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Admin     bool   `json:"admin"`
	CreatedAt string `json:"createdAt,omitempty"`
}
