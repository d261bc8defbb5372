// Package scheduler runs the maintenance jobs on cron schedules when the
// server is in long-running mode.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/RC170373/bookie-melissa-sub001/internal/config"
	"github.com/RC170373/bookie-melissa-sub001/internal/maintenance"
)

// MaintenanceScheduler manages periodic dedup and enrichment runs.
type MaintenanceScheduler struct {
	service *maintenance.Service
	cfg     *config.Config

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewMaintenanceScheduler creates a new scheduler instance.
func NewMaintenanceScheduler(service *maintenance.Service, cfg *config.Config) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		service: service,
		cfg:     cfg,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the enabled schedules and starts the cron loop.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	scheduled := 0
	if s.cfg.Dedup.ScheduleEnabled {
		if _, err := s.cron.AddFunc(s.cfg.Dedup.Schedule, func() {
			s.runDedup(ctx)
		}); err != nil {
			return fmt.Errorf("invalid dedup schedule %q: %w", s.cfg.Dedup.Schedule, err)
		}
		log.Printf("Scheduler: dedup scheduled at %q", s.cfg.Dedup.Schedule)
		scheduled++
	}
	if s.cfg.Enrichment.ScheduleEnabled {
		if _, err := s.cron.AddFunc(s.cfg.Enrichment.Schedule, func() {
			s.runEnrichment(ctx)
		}); err != nil {
			return fmt.Errorf("invalid enrichment schedule %q: %w", s.cfg.Enrichment.Schedule, err)
		}
		log.Printf("Scheduler: enrichment scheduled at %q", s.cfg.Enrichment.Schedule)
		scheduled++
	}

	if scheduled == 0 {
		log.Printf("Scheduler: no maintenance schedules enabled")
		return nil
	}

	s.cron.Start()
	s.isRunning = true
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Printf("Scheduler: stopped")
}

func (s *MaintenanceScheduler) runDedup(ctx context.Context) {
	summary, err := s.service.RunDedup(ctx)
	if errors.Is(err, maintenance.ErrJobRunning) {
		log.Printf("Scheduler: skipping dedup, %v", err)
		return
	}
	if err != nil {
		log.Printf("Scheduler: dedup failed: %v", err)
		return
	}
	log.Printf("Scheduler: dedup merged %d groups, deleted %d books", summary.Groups, summary.BooksDeleted)
}

func (s *MaintenanceScheduler) runEnrichment(ctx context.Context) {
	summary, err := s.service.RunEnrichment(ctx, s.cfg.Enrichment.BatchSize)
	if errors.Is(err, maintenance.ErrJobRunning) {
		log.Printf("Scheduler: skipping enrichment, %v", err)
		return
	}
	if err != nil {
		log.Printf("Scheduler: enrichment failed: %v", err)
		return
	}
	log.Printf("Scheduler: enrichment updated %d of %d books", summary.Updated, summary.Total)
}
