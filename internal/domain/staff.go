package domain

import "time"

type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleAgent StaffRole = "AGENT"
)

type Staff struct {
	ID        int32      `json:"id"`
	UserID    *string    `json:"user_id,omitempty"` // Set once the invitee signs up
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      StaffRole  `json:"role"`
	InvitedBy string     `json:"invited_by"`
	CreatedOn time.Time  `json:"created_on"`
	JoinedOn  *time.Time `json:"joined_on,omitempty"`
}
