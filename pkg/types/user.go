package types

import "time"

type Role string

const (
	RoleMigrant   Role = "migrant"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMigrant, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	Languages      []string   `json:"languages"`
	HelpCategories []Category `json:"help_categories"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Viewer is the per-request identity handed to the matching engine.
type Viewer struct {
	ID             string
	Role           Role
	HelpCategories []Category
}

func (u *User) Viewer() Viewer {
	return Viewer{
		ID:             u.ID,
		Role:           u.Role,
		HelpCategories: u.HelpCategories,
	}
}
