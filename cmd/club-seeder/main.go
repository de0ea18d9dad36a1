package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/club-hub-api/internal/models"
	"github.com/noah-isme/club-hub-api/internal/repository"
	"github.com/noah-isme/club-hub-api/internal/service"
	"github.com/noah-isme/club-hub-api/pkg/config"
	"github.com/noah-isme/club-hub-api/pkg/database"
	appErrors "github.com/noah-isme/club-hub-api/pkg/errors"
	"github.com/noah-isme/club-hub-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "club-seeder",
		Usage: "assign students to clubs, then derive club points and badges",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 draws one (overrides SEED_RANDOM_SEED)"},
			&cli.BoolFlag{Name: "with-fixtures", Usage: "load starting data into an empty database first"},
		},
		Action: runFull,
		Commands: []*cli.Command{
			{
				Name:   "recompute",
				Usage:  "recompute club totals, club badges and student badges only",
				Action: runRecompute,
			},
			{
				Name:   "fixtures",
				Usage:  "create the schema and starting data when the database is empty",
				Action: runFixtures,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type seeder struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	metrics *service.MetricsService
}

func setup(c *cli.Context) (*seeder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to load config")
	}
	if c.IsSet("seed") {
		cfg.Seed.RandomSeed = c.Uint64("seed")
	}

	logr, err := logger.New(cfg, "club-seeder")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to init logger")
	}

	db, err := database.NewPostgres(c.Context, cfg.Database)
	if err != nil {
		_ = logr.Sync()
		return nil, appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to connect database")
	}

	return &seeder{cfg: cfg, logger: logr, db: db, metrics: service.NewMetricsService()}, nil
}

func (s *seeder) close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("database close failed", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func (s *seeder) seedConfig() service.SeedServiceConfig {
	return service.SeedServiceConfig{
		MinStudentID:  s.cfg.Seed.MinStudentID,
		MaxStudentID:  s.cfg.Seed.MaxStudentID,
		NumClubs:      s.cfg.Seed.NumClubs,
		ClubCapacity:  s.cfg.Seed.ClubCapacity,
		PointsPerClub: s.cfg.Seed.PointsPerClub,
	}
}

func (s *seeder) seedService() *service.SeedService {
	clubRepo := repository.NewClubRepository(s.db)
	userRepo := repository.NewUserRepository(s.db)
	badgeRepo := repository.NewBadgeRepository(s.db)

	return service.NewSeedService(service.SeedServiceParams{
		Clubs:       clubRepo,
		Memberships: repository.NewMembershipRepository(s.db),
		Aggregator:  service.NewPointsAggregator(clubRepo, s.logger),
		Badges:      service.NewBadgeAssigner(clubRepo, userRepo, badgeRepo, s.logger),
		Random:      service.NewRandomSource(s.cfg.Seed.RandomSeed),
		Logger:      s.logger,
		Config:      s.seedConfig(),
	})
}

func (s *seeder) loadFixtures(c *cli.Context) error {
	fixtures := service.NewFixtureService(repository.NewFixtureRepository(s.db), s.cfg.Seed.RandomSeed, s.seedConfig(), s.logger)
	if _, err := fixtures.Apply(c.Context); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSeedSetup.Code, appErrors.ErrSeedSetup.Status, "failed to load fixtures")
	}
	return nil
}

func (s *seeder) finish(mode string, report *models.SeedReport, err error, started time.Time) error {
	s.metrics.ObserveSeedRun(mode, report, err, time.Since(started))
	if err != nil {
		s.logger.Error("seed run failed", zap.String("mode", mode), zap.Error(err))
		return cli.Exit(fmt.Sprintf("club-seeder %s: %v", mode, err), 1)
	}
	s.logger.Info("seed run succeeded",
		zap.String("mode", mode),
		zap.Any("report", report),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func runFull(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}
	defer s.close()

	if c.Bool("with-fixtures") {
		if err := s.loadFixtures(c); err != nil {
			return s.finish(service.SeedModeFull, nil, err, time.Now())
		}
	}

	started := time.Now()
	report, err := s.seedService().Run(c.Context)
	return s.finish(service.SeedModeFull, report, err, started)
}

func runRecompute(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}
	defer s.close()

	started := time.Now()
	report, err := s.seedService().Recompute(c.Context)
	return s.finish(service.SeedModeRecompute, report, err, started)
}

func runFixtures(c *cli.Context) error {
	s, err := setup(c)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.loadFixtures(c); err != nil {
		s.logger.Error("fixtures failed", zap.Error(err))
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
