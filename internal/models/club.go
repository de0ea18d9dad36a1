package models

import "time"

// Club is a student club. TotalPoints and Badge are derived by the seeding batch.
type Club struct {
	ClubID         int64     `db:"club_id" json:"club_id"`
	Name           string    `db:"club_name" json:"club_name"`
	Description    string    `db:"description" json:"description"`
	Category       string    `db:"category" json:"category"`
	Capacity       int       `db:"capacity" json:"capacity"`
	CurrentMembers int       `db:"current_members" json:"current_members"`
	TotalPoints    int       `db:"total_points" json:"total_points"`
	Badge          string    `db:"badge" json:"badge"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClubFilter captures filtering criteria for listing clubs.
type ClubFilter struct {
	Category  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ClubDetail bundles a club with its member roster.
type ClubDetail struct {
	Club
	Members []ClubMember `json:"members"`
}

// ClubPoints is the recomputed point total of one club.
type ClubPoints struct {
	ClubID      int64 `db:"club_id"`
	TotalPoints int   `db:"total_points"`
}
