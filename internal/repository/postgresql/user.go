package postgresql

import (
	"context"
	"fmt"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/user"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetActive(ctx context.Context) ([]user.User, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM users
		WHERE is_active = true
		ORDER BY name, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
