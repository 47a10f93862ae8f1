package model

import (
	"strings"
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts both "USER" and the "ROLE_USER" authority form.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimPrefix(s, "ROLE_")); r {
	case RoleUser, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Authority returns the role in its "ROLE_" prefixed form.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User is an account. Users created through OAuth2 login have an empty
// Nickname until they complete the join.
type User struct {
	ID            int64
	Email         string
	Username      string
	PasswordHash  string
	Nickname      string
	DateOfBirth   *time.Time
	Gender        string
	Role          Role
	ProfileImgURL string
	Bio           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// JoinCompleted reports whether the user has finished registration.
func (u *User) JoinCompleted() bool {
	return u.Nickname != ""
}

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// UserDto is the public representation of a user.
type UserDto struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Nickname      string     `json:"nickname"`
	ProfileImgURL string     `json:"profileImgUrl"`
	Role          Role       `json:"role"`
	CreatedAt     time.Time  `json:"createdAt"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Gender        string     `json:"gender,omitempty"`
}

// NewUserDto maps a user to its public representation.
func NewUserDto(u *User) UserDto {
	return UserDto{
		ID:            u.ID,
		Username:      u.Username,
		Nickname:      u.Nickname,
		ProfileImgURL: u.ProfileImgURL,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		DateOfBirth:   u.DateOfBirth,
		Gender:        u.Gender,
	}
}

// UserListItem is a compact entry used by user lists and search results.
type UserListItem struct {
	ID            int64  `json:"id"`
	Nickname      string `json:"nickname"`
	ProfileImgURL string `json:"profileImgUrl"`
	Bio           string `json:"bio"`
}

// Profile is what other users see when opening a profile.
type Profile struct {
	ID            int64     `json:"id"`
	Nickname      string    `json:"nickname"`
	ProfileImgURL string    `json:"profileImgUrl"`
	Bio           string    `json:"bio"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MyProfile extends Profile with fields only the owner may see.
type MyProfile struct {
	Profile
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender"`
	Role        Role       `json:"role"`
}
