package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email TEXT NOT NULL,
    email_blind_index TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    local_date DATE NOT NULL DEFAULT CURRENT_DATE,
    category TEXT NOT NULL,
    subcategory TEXT,
    sport_duration_minutes INTEGER,
    sport_intensity INTEGER,
    meal_calories DOUBLE PRECISION,
    meal_protein DOUBLE PRECISION,
    meal_carbs DOUBLE PRECISION,
    meal_lipids DOUBLE PRECISION,
    meal_quality INTEGER,
    meal_sugar DOUBLE PRECISION,
    meal_saturated_fat DOUBLE PRECISION,
    meal_sodium DOUBLE PRECISION,
    sleep_duration_minutes INTEGER,
    sleep_quality INTEGER,
    sleep_alarm BOOLEAN,
    sleep_bed_time TEXT,
    sleep_wake_time TEXT,
    productive_duration_minutes INTEGER,
    productive_focus INTEGER,
    screen_duration_minutes INTEGER,
    steps_count INTEGER,
    mood_score INTEGER,
    expense_amount DOUBLE PRECISION,
    income_amount DOUBLE PRECISION,
    challenge_title TEXT,
    challenge_duration_minutes INTEGER,
    challenge_quantity INTEGER,
    challenge_success BOOLEAN,
    challenge_difficulty INTEGER,
    challenge_state TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_user_date ON journal_entries (user_id, local_date);

CREATE TABLE IF NOT EXISTS avatar_states (
    user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    current_hp DOUBLE PRECISION NOT NULL DEFAULT 100,
    current_sp DOUBLE PRECISION NOT NULL DEFAULT 100,
    last_update TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := db.ExecContext(context.Background(), schema)
	if err != nil {
		return err
	}

	alters := `
DO $$ BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='users' AND column_name='first_name'
    ) THEN
        ALTER TABLE users ADD COLUMN first_name TEXT;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='users' AND column_name='last_name'
    ) THEN
        ALTER TABLE users ADD COLUMN last_name TEXT;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='users' AND column_name='timezone'
    ) THEN
        ALTER TABLE users ADD COLUMN timezone TEXT;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='users' AND column_name='is_admin'
    ) THEN
        ALTER TABLE users ADD COLUMN is_admin BOOLEAN NOT NULL DEFAULT false;
    END IF;
END $$;`
	_, err = db.ExecContext(context.Background(), alters)
	return err
}
