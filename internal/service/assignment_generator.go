package service

import "github.com/noah-isme/club-hub-api/internal/models"

// Club count policy: 20% join none, 70% join 1-4, 10% join 5-6.
const (
	noClubsCutoff   = 0.2
	fewClubsCutoff  = 0.9
	fewClubsMin     = 1
	fewClubsSpread  = 4
	manyClubsMin    = 5
	manyClubsSpread = 2
)

type capacityView interface {
	Available(clubID int64) bool
}

// AssignmentGenerator decides which clubs a student joins.
type AssignmentGenerator struct {
	rng     RandomSource
	clubIDs []int64
}

// NewAssignmentGenerator builds a generator over the candidate club ids.
func NewAssignmentGenerator(rng RandomSource, clubIDs []int64) *AssignmentGenerator {
	ids := make([]int64, len(clubIDs))
	copy(ids, clubIDs)
	return &AssignmentGenerator{rng: rng, clubIDs: ids}
}

// ClubCount draws how many clubs the next student should join.
func (g *AssignmentGenerator) ClubCount() int {
	r := g.rng.Float64()
	switch {
	case r < noClubsCutoff:
		return 0
	case r < fewClubsCutoff:
		return fewClubsMin + randomIndex(g.rng, fewClubsSpread)
	default:
		return manyClubsMin + randomIndex(g.rng, manyClubsSpread)
	}
}

// Shuffle returns a Fisher-Yates permutation of the candidate club ids.
func (g *AssignmentGenerator) Shuffle() []int64 {
	ids := make([]int64, len(g.clubIDs))
	copy(ids, g.clubIDs)
	for i := len(ids) - 1; i > 0; i-- {
		j := randomIndex(g.rng, i+1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// Next picks the clubs for one student. When fewer clubs have room than were
// drawn, the student simply joins fewer.
func (g *AssignmentGenerator) Next(studentID int64, capacity capacityView) models.Assignment {
	assignment := models.Assignment{StudentID: studentID}
	want := g.ClubCount()
	if want == 0 {
		return assignment
	}
	for _, clubID := range g.Shuffle() {
		if len(assignment.ClubIDs) == want {
			break
		}
		if capacity.Available(clubID) {
			assignment.ClubIDs = append(assignment.ClubIDs, clubID)
		}
	}
	return assignment
}
