package permissions

// Permission represents an atomic capability that can be attached to roles.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
