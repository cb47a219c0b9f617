package domain

import (
	"strings"
	"time"
)

// Role is the closed set of privilege levels.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCenterAdmin Role = "center_admin"
	RoleTrainer     Role = "trainer"
	RoleCleaner     Role = "cleaner"
	RoleMember      Role = "member"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleCenterAdmin, RoleTrainer, RoleCleaner, RoleMember}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCenterAdmin, RoleTrainer, RoleCleaner, RoleMember:
		return true
	}
	return false
}

// ParseRole converts s into a Role, rejecting anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Staff reports whether r belongs to center personnel.
func (r Role) Staff() bool {
	return r == RoleCenterAdmin || r == RoleTrainer || r == RoleCleaner
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// ParseUserStatus converts s into a UserStatus.
func ParseUserStatus(s string) (UserStatus, error) {
	switch st := UserStatus(strings.TrimSpace(s)); st {
	case StatusPending, StatusActive, StatusInactive:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// User is an account. CurrentCenterID is physical presence and is only
// written by the access engine; FavoriteCenterID is a preference and
// AssignedCenterID is the staff assignment used for ownership checks.
type User struct {
	ID               string     `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"size:255;uniqueIndex;not null"`
	Name             string     `gorm:"size:120;not null"`
	PasswordHash     string     `gorm:"size:255;not null"`
	Role             Role       `gorm:"size:20;not null;default:member"`
	Status           UserStatus `gorm:"size:20;not null;default:pending"`
	CurrentCenterID  *string    `gorm:"type:uuid;index"`
	FavoriteCenterID *string    `gorm:"type:uuid"`
	AssignedCenterID *string    `gorm:"type:uuid;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	CurrentCenter  *Center `gorm:"foreignKey:CurrentCenterID;constraint:OnDelete:SET NULL"`
	FavoriteCenter *Center `gorm:"foreignKey:FavoriteCenterID;constraint:OnDelete:SET NULL"`
	AssignedCenter *Center `gorm:"foreignKey:AssignedCenterID;constraint:OnDelete:SET NULL"`
}

// PresentAt reports whether the user is physically at centerID.
func (u *User) PresentAt(centerID string) bool {
	return u.CurrentCenterID != nil && *u.CurrentCenterID == centerID
}

// Identity returns the identity a token issued for u would carry.
func (u *User) Identity() Identity {
	id := Identity{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	switch {
	case u.AssignedCenterID != nil:
		id.CenterID = *u.AssignedCenterID
	case u.CurrentCenterID != nil:
		id.CenterID = *u.CurrentCenterID
	}
	return id
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	CenterID         *string    `json:"centerId"`
	FavoriteCenterID *string    `json:"favoriteCenterId"`
	AssignedCenterID *string    `json:"assignedCenterId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Public projects u without credentials.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		Status:           u.Status,
		CenterID:         u.CurrentCenterID,
		FavoriteCenterID: u.FavoriteCenterID,
		AssignedCenterID: u.AssignedCenterID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
