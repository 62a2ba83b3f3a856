package postgres

import (
	"context"
	"database/sql"

	"chatwire/internal/core/domain"
)

// UserRepo reads the users projection maintained by the account
// service. This service never writes it.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) ListContacts(ctx context.Context, selfID string) ([]domain.User, error) {
	exec := getExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, display_name, created_at
		FROM users
		WHERE id <> $1
		ORDER BY display_name ASC
	`, selfID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
