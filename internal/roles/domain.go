package roles

import "github.com/aegis-iam/aegis/internal/permissions"

// Role represents a named grouping of permissions.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Permissions is the role's attached permission set. Membership is
	// keyed by permission identity; ordering in responses is by id.
	Permissions []permissions.Permission `json:"permissions"`
}
