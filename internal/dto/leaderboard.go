package dto

// ClubLeaderboardEntry ranks a club by total points.
type ClubLeaderboardEntry struct {
	Rank           int    `json:"rank"`
	ClubID         int64  `json:"clubId"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	TotalPoints    int    `json:"totalPoints"`
	CurrentMembers int    `json:"currentMembers"`
	Capacity       int    `json:"capacity"`
	Badge          string `json:"badge"`
}

// StudentLeaderboardEntry ranks a student by total points.
type StudentLeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"userId"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
	Level       int    `json:"level"`
	Tier        string `json:"tier"`
}

// ClubLeaderboardResponse wraps the club ranking with its filter.
type ClubLeaderboardResponse struct {
	Category   string                 `json:"category,omitempty"`
	Categories []string               `json:"categories"`
	Entries    []ClubLeaderboardEntry `json:"entries"`
}

// StudentLeaderboardResponse wraps the student ranking.
type StudentLeaderboardResponse struct {
	Entries []StudentLeaderboardEntry `json:"entries"`
}
