package monitor

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/dkovalev/mediapi-hub-go/internal/config"
	"github.com/dkovalev/mediapi-hub-go/internal/devices"
)

// Service runs the periodic staleness sweep: devices that have not reported
// within the configured window are flipped offline and the change is broadcast.
type Service struct {
	cfg    config.Config
	repo   *devices.Repository
	hub    *Hub
	logger *log.Logger
	cron   *cron.Cron
}

// NewService creates the monitor service.
func NewService(cfg config.Config, repo *devices.Repository, hub *Hub, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		cfg:    cfg,
		repo:   repo,
		hub:    hub,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start schedules the sweep job.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.StatusSweepSpec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Printf("status sweep scheduled: %s (stale after %ds)", s.cfg.StatusSweepSpec, s.cfg.StatusStaleAfterSec)
	return nil
}

// Stop halts the sweep job and waits for an in-flight run.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep marks stale devices offline and broadcasts each transition.
func (s *Service) Sweep() {
	stale, err := s.repo.MarkStaleOffline(s.cfg.StatusStaleAfterSec)
	if err != nil {
		s.logger.Printf("status sweep error: %v", err)
		return
	}
	for i := range stale {
		s.logger.Printf("device %d (%s) went offline", stale[i].ID, stale[i].Name)
		s.hub.Broadcast(StatusEvent{
			Type:     "device_status",
			DeviceID: stale[i].ID,
			Name:     stale[i].Name,
			Online:   false,
		})
	}
}

// Summary reports fleet-wide counts.
func (s *Service) Summary() (total, online int, err error) {
	return s.repo.CountByState()
}
