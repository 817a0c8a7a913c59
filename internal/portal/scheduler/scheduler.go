package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	authdomain "campusmate-backend/internal/auth/domain"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/internal/portal/usecase"
	"campusmate-backend/pkg/logger"
)

// ConnectedUserLister finds the users with a linked portal account.
type ConnectedUserLister interface {
	FindPortalConnected() ([]*authdomain.User, error)
}

// SyncScheduler fires a portal sync for every connected user on a cron
// schedule. Users run one after another; a failed or busy run is logged
// and left for the next tick, there is no retry.
type SyncScheduler struct {
	coordinator *usecase.SyncCoordinator
	users       ConnectedUserLister
	spec        string
	cron        *cron.Cron
	log         zerolog.Logger
}

func NewSyncScheduler(coordinator *usecase.SyncCoordinator, users ConnectedUserLister, spec string) *SyncScheduler {
	return &SyncScheduler{
		coordinator: coordinator,
		users:       users,
		spec:        spec,
		cron:        cron.New(),
		log:         logger.Component("sync-scheduler"),
	}
}

func (s *SyncScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runAll); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.spec).Msg("Portal sync scheduler started")
	return nil
}

func (s *SyncScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SyncScheduler) runAll() {
	users, err := s.users.FindPortalConnected()
	if err != nil {
		s.log.Error().Err(err).Msg("Could not list portal-connected users")
		return
	}
	if len(users) == 0 {
		return
	}

	s.log.Info().Int("user_count", len(users)).Msg("Scheduled portal sync tick")
	for _, user := range users {
		_, err := s.coordinator.RunSync(context.Background(), user.ID)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrRobotBusy):
			// a manual sync is running; skip the whole tick
			s.log.Warn().Msg("Sync slot busy, skipping scheduled tick")
			return
		default:
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("Scheduled sync failed")
		}
	}
}
