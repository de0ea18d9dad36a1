package repository

// Schema is the PostgreSQL DDL of the club hub store. Every statement is
// idempotent so it can run against an existing database.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        user_id BIGSERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        email TEXT NOT NULL UNIQUE,
        role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'admin')),
        total_points INTEGER NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS clubs (
        club_id BIGSERIAL PRIMARY KEY,
        club_name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        category TEXT NOT NULL DEFAULT '',
        capacity INTEGER NOT NULL DEFAULT 30,
        current_members INTEGER NOT NULL DEFAULT 0,
        total_points INTEGER NOT NULL DEFAULT 0,
        badge TEXT NOT NULL DEFAULT 'none',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS club_members (
        membership_id BIGSERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users (user_id),
        club_id BIGINT NOT NULL REFERENCES clubs (club_id),
        points_earned INTEGER NOT NULL DEFAULT 0,
        joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (user_id, club_id)
    )`,
	`CREATE TABLE IF NOT EXISTS badges (
        badge_id BIGSERIAL PRIMARY KEY,
        badge_name TEXT NOT NULL,
        badge_type TEXT NOT NULL CHECK (badge_type IN ('club', 'student')),
        description TEXT NOT NULL DEFAULT '',
        points_required INTEGER NOT NULL DEFAULT 0,
        UNIQUE (badge_type, badge_name)
    )`,
	`CREATE TABLE IF NOT EXISTS user_badges (
        user_badge_id BIGSERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL REFERENCES users (user_id),
        badge_id BIGINT NOT NULL REFERENCES badges (badge_id),
        awarded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (user_id, badge_id)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_club_members_club ON club_members (club_id)`,
}
