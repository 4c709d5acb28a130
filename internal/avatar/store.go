package avatar

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vitalog/internal/models"
)

// Store is the persistence contract for the per-user vitals record.
type Store interface {
	// GetState returns the current state, or nil if none exists yet.
	GetState(ctx context.Context, userID int) (*models.AvatarState, error)
	// UpsertState overwrites the user's single state row.
	UpsertState(ctx context.Context, state models.AvatarState) error
}

// PostgresStore keeps avatar states in the avatar_states table.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) GetState(ctx context.Context, userID int) (*models.AvatarState, error) {
	var st models.AvatarState
	err := s.db.GetContext(ctx, &st,
		`SELECT user_id, current_hp, current_sp, last_update FROM avatar_states WHERE user_id=$1`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get avatar state: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) UpsertState(ctx context.Context, state models.AvatarState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO avatar_states (user_id, current_hp, current_sp, last_update)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id)
		 DO UPDATE SET current_hp = EXCLUDED.current_hp,
		               current_sp = EXCLUDED.current_sp,
		               last_update = EXCLUDED.last_update`,
		state.UserID, state.CurrentHp, state.CurrentSp, state.LastUpdate)
	if err != nil {
		return fmt.Errorf("upsert avatar state: %w", err)
	}
	return nil
}
