package dto

import "github.com/noah-isme/club-hub-api/internal/models"

// StudentProfile is the user detail view consumed by the profile page.
type StudentProfile struct {
	models.User
	Level       int                      `json:"level"`
	Tier        string                   `json:"tier"`
	JoinedClubs []models.UserClub        `json:"joinedClubs"`
	Badges      []models.UserBadgeDetail `json:"badges"`
}
