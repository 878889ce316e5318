package user

import "time"

// User is an employee account. Only active users appear in monthly
// aggregates; deactivated users keep their historical cache payloads.
type User struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
