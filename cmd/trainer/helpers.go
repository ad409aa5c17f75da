package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/config"
	"github.com/mmiprep/trainer/internal/database"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
	"github.com/mmiprep/trainer/internal/srs"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// services bundles the repositories and domain services every command wires
// on top of one database connection.
type services struct {
	db        *sqlx.DB
	catalog   archetype.Catalog
	questions question.Repository
	records   srs.Repository
	skills    skill.Repository
	attempts  attempt.Repository
	estimator *skill.Estimator
	scheduler *srs.Scheduler
	selector  *srs.Selector
	stats     *srs.StatsCollector
}

func newServices(cfg *config.Config) (*services, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}

	catalog := archetype.Default()
	questions := question.NewDBQuestionRepository(db)
	records := srs.NewDBSRSRepository(db)
	skills := skill.NewDBSkillRepository(db)
	attempts := attempt.NewDBAttemptRepository(db)
	estimator := skill.NewEstimator(skills)

	return &services{
		db:        db,
		catalog:   catalog,
		questions: questions,
		records:   records,
		skills:    skills,
		attempts:  attempts,
		estimator: estimator,
		scheduler: srs.NewScheduler(records),
		selector:  srs.NewSelector(records, questions, estimator, catalog),
		stats:     srs.NewStatsCollector(records, questions, skills, estimator),
	}, nil
}

func (s *services) Close() error {
	return s.db.Close()
}
