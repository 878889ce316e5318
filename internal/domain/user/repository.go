package user

import "context"

type UserRepository interface {
	// GetActive returns active users ordered by name, id.
	GetActive(ctx context.Context) ([]User, error)
}
