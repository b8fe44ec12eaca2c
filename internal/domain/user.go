package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"user_id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         string     `json:"role" db:"role"`
	Carrier      *string    `json:"carrier,omitempty" db:"carrier"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

type CreateUserInput struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required,min=2"`
	Role     string  `json:"role" validate:"required,oneof=requester approver admin"`
	Carrier  *string `json:"carrier,omitempty" validate:"omitempty,max=120"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleApprover  UserRole = "approver"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleRequester, RoleApprover, RoleAdmin:
		return true
	default:
		return false
	}
}

// HasRole reports whether the user's role grants requiredRole. Roles are
// ordered requester < approver < admin.
func (u *User) HasRole(requiredRole UserRole) bool {
	switch requiredRole {
	case RoleAdmin:
		return u.Role == string(RoleAdmin)
	case RoleApprover:
		return u.Role == string(RoleApprover) || u.Role == string(RoleAdmin)
	case RoleRequester:
		return UserRole(u.Role).IsValid()
	default:
		return false
	}
}

// CanResolve reports whether the user may approve or reject cost requests.
func (u *User) CanResolve() bool {
	return u.HasRole(RoleApprover)
}
