package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	authdomain "campusmate-backend/internal/auth/domain"
	"campusmate-backend/internal/portal/browser"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/internal/portal/login"
	"campusmate-backend/internal/portal/repository"
	"campusmate-backend/internal/portal/scrape"
	"campusmate-backend/pkg/config"
	"campusmate-backend/pkg/logger"
)

// UserSource provides the user record holding portal credentials.
type UserSource interface {
	FindByID(id string) (*authdomain.User, error)
}

// Decrypter recovers the portal password from its stored ciphertext.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Authenticator runs the SSO login sequence until the dashboard is
// reached or fails with domain.ErrLoginFailed.
type Authenticator interface {
	EnsureLoggedIn(page browser.Pager, creds login.Credentials) error
}

// GradeSource extracts course grade records from a live dashboard page,
// returning the records and the number of courses skipped on error.
type GradeSource interface {
	Extract(ctx context.Context, page browser.Pager) ([]*domain.CourseGradeRecord, int, error)
}

// HistorySource extracts transcript semesters from the live session.
type HistorySource interface {
	Extract(ctx context.Context, page browser.Pager) ([]*domain.ResultHistoryRecord, error)
}

// Notifier is told about completed syncs, e.g. to push a notification.
type Notifier interface {
	SyncCompleted(user *authdomain.User, outcome *domain.SyncOutcome)
}

// SyncCoordinator runs the whole portal sync for one user. At most one
// sync runs process-wide at any instant: the browser is a single shared
// resource, so concurrent calls for any user are rejected with
// domain.ErrRobotBusy rather than queued.
type SyncCoordinator struct {
	users       UserSource
	sessions    browser.Opener
	auth        Authenticator
	grades      GradeSource
	history     HistorySource
	gradeRepo   repository.GradeRepository
	historyRepo repository.HistoryRepository
	statsRepo   repository.StatsRepository
	box         Decrypter
	cfg         *config.Config
	notifier    Notifier

	// single-flight slot; TryLock via non-blocking send
	slot chan struct{}
	log  zerolog.Logger
}

func NewSyncCoordinator(
	users UserSource,
	sessions browser.Opener,
	auth Authenticator,
	grades GradeSource,
	history HistorySource,
	gradeRepo repository.GradeRepository,
	historyRepo repository.HistoryRepository,
	statsRepo repository.StatsRepository,
	box Decrypter,
	cfg *config.Config,
) *SyncCoordinator {
	return &SyncCoordinator{
		users:       users,
		sessions:    sessions,
		auth:        auth,
		grades:      grades,
		history:     history,
		gradeRepo:   gradeRepo,
		historyRepo: historyRepo,
		statsRepo:   statsRepo,
		box:         box,
		cfg:         cfg,
		slot:        make(chan struct{}, 1),
		log:         logger.Component("sync"),
	}
}

// SetNotifier attaches an optional completion notifier.
func (c *SyncCoordinator) SetNotifier(n Notifier) {
	c.notifier = n
}

// RunSync executes one full sync for the user. Fatal outcomes are
// domain.ErrRobotBusy, domain.ErrNoCredentials and domain.ErrLoginFailed;
// per-course and history failures are absorbed and surfaced through the
// outcome's skip counts instead.
func (c *SyncCoordinator) RunSync(ctx context.Context, userID string) (*domain.SyncOutcome, error) {
	select {
	case c.slot <- struct{}{}:
	default:
		return nil, domain.ErrRobotBusy
	}
	defer func() { <-c.slot }()

	user, err := c.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsPortalConnected || user.PortalID == "" || user.PortalPassword == "" {
		// Fail before any browser cost is paid for unlinked accounts.
		return nil, domain.ErrNoCredentials
	}

	password, err := c.box.Decrypt(user.PortalPassword)
	if err != nil {
		return nil, fmt.Errorf("decrypt portal password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SyncDeadline)
	defer cancel()

	c.log.Info().Str("user_id", userID).Msg("Starting portal sync")

	sess, err := c.sessions.Open(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("Error closing browser session")
		}
	}()

	page := sess.Page()
	dashboardURL := c.cfg.PortalBaseURL + c.cfg.PortalDashboardPath
	if err := page.Navigate(dashboardURL, 20*time.Second); err != nil {
		return nil, err
	}

	if !strings.Contains(page.URL(), c.cfg.PortalDashboardPath) {
		c.log.Info().Str("url", page.URL()).Msg("Redirected to SSO, running login sequence")
		creds := login.Credentials{PortalID: user.PortalID, Password: password}
		if err := c.auth.EnsureLoggedIn(page, creds); err != nil {
			return nil, err
		}
	}

	records, skipped, err := c.grades.Extract(ctx, page)
	if err != nil {
		return nil, err
	}

	// Full replace: stale records for dropped courses must not survive,
	// even when nothing was discovered this run.
	if err := c.gradeRepo.ReplaceForUser(userID, records); err != nil {
		return nil, err
	}

	outcome := &domain.SyncOutcome{
		UserID:         userID,
		CoursesFound:   len(records) + skipped,
		CoursesSynced:  len(records),
		CoursesSkipped: skipped,
	}

	c.syncHistory(ctx, page, userID, outcome)

	outcome.FinishedAt = time.Now()
	c.log.Info().
		Str("user_id", userID).
		Int("courses_synced", outcome.CoursesSynced).
		Int("courses_skipped", outcome.CoursesSkipped).
		Bool("history_synced", outcome.HistorySynced).
		Msg("Portal sync finished")

	if c.notifier != nil {
		c.notifier.SyncCompleted(user, outcome)
	}
	return outcome, nil
}

// syncHistory is best effort: a failed transcript never rolls back the
// grade sync that already happened.
func (c *SyncCoordinator) syncHistory(ctx context.Context, page browser.Pager, userID string, outcome *domain.SyncOutcome) {
	semesters, err := c.history.Extract(ctx, page)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("History extraction failed, keeping grade results")
		return
	}
	if len(semesters) == 0 {
		c.log.Info().Str("user_id", userID).Msg("No transcript rows found, skipping history write")
		return
	}

	if err := c.historyRepo.ReplaceForUser(userID, semesters); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("Could not store result history")
		return
	}

	stats := scrape.DeriveStats(userID, semesters, outcome.CoursesFound)
	if err := c.statsRepo.Upsert(stats); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("Could not store student stats")
		return
	}

	outcome.HistorySynced = true
	outcome.SemesterCount = len(semesters)
}

// MachineAuthenticator is the production Authenticator: a fresh login
// state machine per page.
type MachineAuthenticator struct {
	cfg login.Config
}

func NewMachineAuthenticator(cfg *config.Config) *MachineAuthenticator {
	return &MachineAuthenticator{
		cfg: login.Config{DashboardPath: cfg.PortalDashboardPath},
	}
}

func (a *MachineAuthenticator) EnsureLoggedIn(page browser.Pager, creds login.Credentials) error {
	return login.NewMachine(page, a.cfg).Run(creds)
}
