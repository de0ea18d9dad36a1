package models

import "time"

// Assignment is the set of clubs one student joins in a seeding run.
type Assignment struct {
	StudentID int64
	ClubIDs   []int64
}

// SeedReport summarises the writes of one batch run.
type SeedReport struct {
	StudentsProcessed    int       `json:"students_processed"`
	StudentsWithoutClubs int       `json:"students_without_clubs"`
	MembershipsCreated   int       `json:"memberships_created"`
	ClubsRecomputed      int       `json:"clubs_recomputed"`
	ClubBadgesChanged    int       `json:"club_badges_changed"`
	StudentBadgesAwarded int       `json:"student_badges_awarded"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
}

// FixtureSet is the starting data written by the fixtures command.
type FixtureSet struct {
	Users  []User
	Clubs  []Club
	Badges []Badge
}
