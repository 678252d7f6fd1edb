package auth

// User is the credential view of an account used by authentication.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Enabled      bool
}

// LoginResult is returned to a successfully authenticated caller.
type LoginResult struct {
	Token     string   `json:"token"`
	Username  string   `json:"username"`
	RoleNames []string `json:"roleNames"`
}
