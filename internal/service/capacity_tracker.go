package service

import "github.com/noah-isme/club-hub-api/internal/models"

// CapacityTracker mirrors club head counts in memory during a seeding run so the
// generator never offers a full club. It does not persist anything.
type CapacityTracker struct {
	capacity int
	counts   map[int64]int
}

// NewCapacityTracker seeds the counts from the persisted clubs.
func NewCapacityTracker(clubs []models.Club, capacity int) *CapacityTracker {
	counts := make(map[int64]int, len(clubs))
	for _, club := range clubs {
		counts[club.ClubID] = club.CurrentMembers
	}
	return &CapacityTracker{capacity: capacity, counts: counts}
}

// Available reports whether the club can take one more member.
func (t *CapacityTracker) Available(clubID int64) bool {
	return t.counts[clubID] < t.capacity
}

// RecordJoin counts one more member for the club.
func (t *CapacityTracker) RecordJoin(clubID int64) {
	t.counts[clubID]++
}

// Count returns the tracked head count.
func (t *CapacityTracker) Count(clubID int64) int {
	return t.counts[clubID]
}
