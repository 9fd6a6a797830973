package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a profile lookup finds no matching record.
var ErrNotFound = errors.New("user not found")

// ProfileRepository reads the profiles table.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Profile implements Directory.
func (r *ProfileRepository) Profile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx,
		`SELECT id::text, username, COALESCE(display_name, ''), created_at FROM profiles WHERE id::text = $1`, id,
	).Scan(&p.ID, &p.Username, &p.DisplayName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return &p, nil
}
