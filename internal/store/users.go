package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/sparkify/internal/domain"
)

// UpsertUser inserts a user or overwrites the stored one; the last write wins.
func (db *DB) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (user_id, first_name, last_name, gender, level)
		VALUES (:user_id, :first_name, :last_name, :gender, :level)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			gender = excluded.gender,
			level = excluded.level`

	if _, err := db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}
	return nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := db.GetContext(ctx, &user, db.Rebind(`SELECT user_id, first_name, last_name, gender, level FROM users WHERE user_id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
