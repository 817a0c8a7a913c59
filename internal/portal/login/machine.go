package login

import (
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campusmate-backend/internal/portal/browser"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/pkg/logger"
)

// State names one step of the SSO login sequence.
type State string

const (
	StateStart        State = "start"
	StateGlitch       State = "glitch"
	StateEmail        State = "email"
	StatePassword     State = "password"
	StateStaySignedIn State = "stay_signed_in"
	StateFinalWait    State = "final_wait"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Identity provider selectors. The portal delegates login to a Microsoft
// SSO tenant; these ids have been stable across its deployments.
const (
	selEmailInput       = `input[name="loginfmt"]`
	selPasswordInput    = `input[name="passwd"]`
	selSubmitButton     = `input[id="idSIButton9"]`
	selOtherAccountTile = `div[id="otherTile"]`
	selAccountTile      = `div.table[role="button"], div[role="listitem"]`
	selStaySignedIn     = `input[id="KmsiCheckboxField"], div[data-testid="kmsiTitle"]`
)

// Config bounds each step of the machine. Every wait is a presence check
// with its own timeout; a missing prompt means the step is skipped, not
// that login failed.
type Config struct {
	DashboardPath string
	StepTimeout   time.Duration
	FinalTimeout  time.Duration
	PollInterval  time.Duration
}

// Credentials are the decrypted portal login values for one run.
type Credentials struct {
	PortalID string
	Password string
}

// Machine drives the SSO sequence as an explicit state machine:
// start -> glitch* -> email -> password -> glitch* -> stay-signed-in ->
// final wait -> done | failed. The glitch state is re-entrant: the
// provider sometimes shows a "use another account" screen both after the
// initial redirect and again after password submission.
type Machine struct {
	page browser.Pager
	cfg  Config
	log  zerolog.Logger

	passwordDone bool
}

func NewMachine(page browser.Pager, cfg Config) *Machine {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 8 * time.Second
	}
	if cfg.FinalTimeout <= 0 {
		cfg.FinalTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &Machine{
		page: page,
		cfg:  cfg,
		log:  logger.Component("login"),
	}
}

// Run executes the machine until StateDone or StateFailed. It returns
// domain.ErrLoginFailed when the dashboard is not reached within the
// final bounded wait.
func (m *Machine) Run(creds Credentials) error {
	state := StateStart
	for state != StateDone && state != StateFailed {
		m.log.Debug().Str("state", string(state)).Str("url", m.page.URL()).Msg("Login step")

		switch state {
		case StateStart:
			state = m.stepStart()
		case StateGlitch:
			state = m.stepGlitch(creds)
		case StateEmail:
			state = m.stepEmail(creds)
		case StatePassword:
			state = m.stepPassword(creds)
		case StateStaySignedIn:
			state = m.stepStaySignedIn()
		case StateFinalWait:
			state = m.stepFinalWait()
		}
	}

	if state == StateFailed {
		m.log.Warn().Str("url", m.page.URL()).Msg("Login sequence exhausted without reaching dashboard")
		return domain.ErrLoginFailed
	}

	m.log.Info().Msg("Login reached dashboard")
	return nil
}

func (m *Machine) stepStart() State {
	if m.atDashboard() {
		// Cached session, nothing to do.
		return StateDone
	}
	return StateGlitch
}

// stepGlitch handles the provider quirk screen: an account picker offering
// "use another account". When present it is clicked and the tile matching
// the stored portal id is re-selected, then the normal flow resumes.
func (m *Machine) stepGlitch(creds Credentials) State {
	next := StateEmail
	if m.passwordDone {
		next = StateStaySignedIn
	}

	if err := m.page.WaitVisible(selOtherAccountTile, m.cfg.StepTimeout); err != nil {
		m.log.Debug().Msg("No account-picker glitch screen, continuing")
		return next
	}

	m.log.Info().Msg("Glitch screen detected, re-selecting account")
	if err := m.page.Click(selOtherAccountTile, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not click glitch tile")
		return next
	}

	pattern := regexp.QuoteMeta(creds.PortalID)
	if err := m.page.ClickByText(selAccountTile, pattern, m.cfg.StepTimeout); err != nil {
		m.log.Debug().Err(err).Msg("No matching account tile, entering credentials fresh")
	}
	return next
}

func (m *Machine) stepEmail(creds Credentials) State {
	if err := m.page.WaitVisible(selEmailInput, m.cfg.StepTimeout); err != nil {
		m.log.Debug().Msg("Email prompt not shown, skipping")
		return StatePassword
	}

	if err := m.page.Input(selEmailInput, creds.PortalID, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not enter portal id")
		return StateFailed
	}
	if err := m.page.Click(selSubmitButton, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not submit portal id")
		return StateFailed
	}
	return StatePassword
}

func (m *Machine) stepPassword(creds Credentials) State {
	if err := m.page.WaitVisible(selPasswordInput, m.cfg.StepTimeout); err != nil {
		m.log.Debug().Msg("Password prompt not shown, skipping")
		m.passwordDone = true
		return StateGlitch
	}

	if err := m.page.Input(selPasswordInput, creds.Password, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not enter password")
		return StateFailed
	}
	if err := m.page.Click(selSubmitButton, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not submit password")
		return StateFailed
	}

	m.passwordDone = true
	return StateGlitch
}

// stepStaySignedIn answers the "stay signed in" prompt with Yes so the
// persistent profile keeps its cookies and later runs skip the full flow.
func (m *Machine) stepStaySignedIn() State {
	if err := m.page.WaitVisible(selStaySignedIn, m.cfg.StepTimeout); err != nil {
		m.log.Debug().Msg("Stay-signed-in prompt not shown, skipping")
		return StateFinalWait
	}

	if err := m.page.Click(selSubmitButton, m.cfg.StepTimeout); err != nil {
		m.log.Warn().Err(err).Msg("Could not confirm stay-signed-in prompt")
	}
	return StateFinalWait
}

func (m *Machine) stepFinalWait() State {
	deadline := time.Now().Add(m.cfg.FinalTimeout)
	for time.Now().Before(deadline) {
		if m.atDashboard() {
			return StateDone
		}
		time.Sleep(m.cfg.PollInterval)
	}
	return StateFailed
}

func (m *Machine) atDashboard() bool {
	return strings.Contains(m.page.URL(), m.cfg.DashboardPath)
}
