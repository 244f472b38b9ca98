package models

// Role distinguishes primary accounts from sub-users attached to them.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// User is a stored credential plus optional profile fields.
type User struct {
	Base
	Username       string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash   string `gorm:"not null" json:"-"`
	Name           string `json:"name,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           Role   `gorm:"not null;default:owner" json:"role"`
	ParentUsername string `gorm:"index" json:"parent_username,omitempty"`
}

// CanView reports whether u may read the ledger of owner: their own, or
// that of a sub-user whose parent is u.
func (u *User) CanView(owner *User) bool {
	if owner == nil {
		return false
	}
	if owner.Username == u.Username {
		return true
	}
	return u.Role == RoleOwner && owner.ParentUsername == u.Username
}
