package models

// User represents an authentication principal. The table is created by
// internal/schema, not by AutoMigrate; tags only describe the existing shape.
type User struct {
	UserID   uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username string `gorm:"column:username;not null" json:"username"`
	Password string `gorm:"column:password;not null" json:"-"`
	Role     string `gorm:"column:role;not null" json:"role"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants. The set is closed and case-sensitive; the schema enforces
// it with a CHECK constraint.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// Roles lists every valid role.
func Roles() []string {
	return []string{RoleAdmin, RoleDoctor, RoleReceptionist}
}

// ValidRole reports whether role belongs to the closed set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDoctor returns true if user has doctor role
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Role:     u.Role,
	}
}
