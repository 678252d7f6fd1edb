package users

// User represents an account managed by the administration API.
// The password hash never leaves the service as JSON.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Roles        []RoleRef `json:"roles"`
}

// RoleRef is the role view embedded in user payloads. Permission sets
// are managed on the role endpoints and not expanded here.
type RoleRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
