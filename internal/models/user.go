package models

import "time"

type UserRole string
type Role = UserRole

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleLearner UserRole = "learner"
)

// IsValid reports whether r is one of the three known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleLearner:
		return true
	}
	return false
}

type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	PhotoURL string   `json:"photo_url"`

	// Contact
	Phone   string `json:"phone"`
	Address string `json:"address"`

	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preference is one category a learner asked to see more of
type Preference struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}
