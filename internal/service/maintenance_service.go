package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/dto"
	"github.com/noah-isme/club-hub-api/internal/models"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
	"github.com/noah-isme/club-hub-api/pkg/jobs"
)

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type recomputer interface {
	Recompute(ctx context.Context) (*models.SeedReport, error)
}

// MaintenanceJobStore keeps maintenance job records in memory. Records do not
// survive a restart.
type MaintenanceJobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.MaintenanceJob
}

// NewMaintenanceJobStore constructs an empty store.
func NewMaintenanceJobStore() *MaintenanceJobStore {
	return &MaintenanceJobStore{jobs: make(map[string]models.MaintenanceJob)}
}

// Put inserts or replaces a record.
func (s *MaintenanceJobStore) Put(job models.MaintenanceJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a copy of the record.
func (s *MaintenanceJobStore) Get(id string) (models.MaintenanceJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Update applies fn to the stored record.
func (s *MaintenanceJobStore) Update(id string, fn func(*models.MaintenanceJob)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(&job)
	s.jobs[id] = job
	return true
}

// MaintenanceService accepts recompute requests and reports their progress.
type MaintenanceService struct {
	store  *MaintenanceJobStore
	queue  jobDispatcher
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewMaintenanceService constructs the service.
func NewMaintenanceService(store *MaintenanceJobStore, queue jobDispatcher, logger *zap.Logger) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceService{
		store:  store,
		queue:  queue,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

// EnqueueRecompute records a queued job and dispatches it.
func (s *MaintenanceService) EnqueueRecompute(ctx context.Context) (*dto.RecomputeJobResponse, error) {
	job := models.MaintenanceJob{
		ID:         s.newID(),
		Type:       models.MaintenanceJobTypeRecompute,
		Status:     models.MaintenanceJobQueued,
		EnqueuedAt: s.now().UTC(),
	}
	s.store.Put(job)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: job.Type, Enqueued: job.EnqueuedAt}); err != nil {
		finished := s.now().UTC()
		s.store.Update(job.ID, func(j *models.MaintenanceJob) {
			j.Status = models.MaintenanceJobFailed
			j.Error = "failed to enqueue job"
			j.FinishedAt = &finished
		})
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue recompute job")
	}
	s.logger.Info("recompute job queued", zap.String("job_id", job.ID))
	return &dto.RecomputeJobResponse{JobID: job.ID, Status: string(job.Status), EnqueuedAt: job.EnqueuedAt}, nil
}

// Get returns the job record.
func (s *MaintenanceService) Get(ctx context.Context, id string) (*models.MaintenanceJob, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "maintenance job not found")
	}
	return &job, nil
}

// RecomputeWorker runs queued recompute jobs.
type RecomputeWorker struct {
	store      *MaintenanceJobStore
	seeder     recomputer
	cache      leaderboardInvalidator
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
	now        func() time.Time
}

// NewRecomputeWorker constructs a worker.
func NewRecomputeWorker(store *MaintenanceJobStore, seeder recomputer, cache leaderboardInvalidator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *RecomputeWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RecomputeWorker{
		store:      store,
		seeder:     seeder,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// Handle processes a queue job.
func (w *RecomputeWorker) Handle(ctx context.Context, job jobs.Job) error {
	started := w.now().UTC()
	w.store.Update(job.ID, func(j *models.MaintenanceJob) {
		j.Status = models.MaintenanceJobRunning
		j.Attempts = job.Attempt + 1
		j.StartedAt = &started
	})

	report, err := w.recompute(ctx)
	w.metrics.ObserveSeedRun(SeedModeRecompute, report, err, w.now().Sub(started))
	if err != nil {
		msg := err.Error()
		final := job.Attempt >= w.maxRetries
		w.store.Update(job.ID, func(j *models.MaintenanceJob) {
			j.Error = msg
			j.Report = report
			if final {
				finished := w.now().UTC()
				j.Status = models.MaintenanceJobFailed
				j.FinishedAt = &finished
			} else {
				j.Status = models.MaintenanceJobQueued
			}
		})
		w.logger.Warn("recompute job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt+1), zap.Error(err))
		return err
	}

	if w.cache != nil {
		if err := w.cache.InvalidateLeaderboards(ctx); err != nil {
			w.logger.Warn("leaderboard cache not invalidated", zap.String("job_id", job.ID), zap.Error(err))
		}
	}

	finished := w.now().UTC()
	w.store.Update(job.ID, func(j *models.MaintenanceJob) {
		j.Status = models.MaintenanceJobSucceeded
		j.Report = report
		j.Error = ""
		j.FinishedAt = &finished
	})
	w.logger.Info("recompute job finished",
		zap.String("job_id", job.ID),
		zap.Int("clubs_recomputed", report.ClubsRecomputed),
		zap.Int("club_badges_changed", report.ClubBadgesChanged),
		zap.Int("student_badges_awarded", report.StudentBadgesAwarded),
	)
	return nil
}

// Drop marks a job failed when the queue gives up on it between attempts.
func (w *RecomputeWorker) Drop(job jobs.Job, err error) {
	finished := w.now().UTC()
	w.store.Update(job.ID, func(j *models.MaintenanceJob) {
		j.Status = models.MaintenanceJobFailed
		j.Error = fmt.Sprintf("retry not scheduled: %v", err)
		j.FinishedAt = &finished
	})
	w.logger.Warn("recompute job dropped", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt+1), zap.Error(err))
}

func (w *RecomputeWorker) recompute(ctx context.Context) (report *models.SeedReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			report, err = nil, fmt.Errorf("recompute panicked: %v", r)
		}
	}()
	return w.seeder.Recompute(ctx)
}
