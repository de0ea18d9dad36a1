package models

import "time"

// Membership links a student to a club. Rows are immutable once created.
type Membership struct {
	MembershipID int64     `db:"membership_id" json:"membership_id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ClubID       int64     `db:"club_id" json:"club_id"`
	PointsEarned int       `db:"points_earned" json:"points_earned"`
	JoinedAt     time.Time `db:"joined_at" json:"joined_at"`
}

// MembershipFilter narrows membership listings.
type MembershipFilter struct {
	UserID   int64
	ClubID   int64
	Page     int
	PageSize int
}

// ClubMember is a membership joined with the member's name and points.
type ClubMember struct {
	Membership
	UserName        string `db:"user_name" json:"user_name"`
	UserTotalPoints int    `db:"user_total_points" json:"user_total_points"`
}

// UserClub is a membership joined with the club's name.
type UserClub struct {
	Membership
	ClubName string `db:"club_name" json:"club_name"`
}
