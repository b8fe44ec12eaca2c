package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID               uuid.UUID        `json:"id" db:"notification_id"`
	Kind             NotificationKind `json:"kind" db:"kind"`
	Title            string           `json:"title" db:"title"`
	Message          string           `json:"message" db:"message"`
	RelatedRequestID *uuid.UUID       `json:"related_request_id,omitempty" db:"related_request_id"`
	RecipientID      *uuid.UUID       `json:"recipient_id,omitempty" db:"recipient_id"`
	RecipientRole    *string          `json:"recipient_role,omitempty" db:"recipient_role"`
	IsRead           bool             `json:"is_read" db:"is_read"`
	ReadAt           *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

type NotificationKind string

const (
	NotifInfo    NotificationKind = "info"
	NotifSuccess NotificationKind = "success"
	NotifWarning NotificationKind = "warning"
	NotifError   NotificationKind = "error"
)

// Audience selects the notifications a user can see: those addressed to the
// user directly and those addressed to any role the user holds.
type Audience struct {
	UserID uuid.UUID
	Roles  []string
}

func AudienceFor(u *User) Audience {
	roles := []string{u.Role}
	if u.Role == string(RoleAdmin) {
		roles = append(roles, string(RoleApprover))
	}
	return Audience{UserID: u.ID, Roles: roles}
}
