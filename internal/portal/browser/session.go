package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"campusmate-backend/pkg/config"
	"campusmate-backend/pkg/logger"
)

// Session is one open browser session. The coordinator owns it for the
// duration of a run and must close it on every exit path.
type Session interface {
	Page() Pager
	Close() error
}

// Opener produces a session for a sync run.
type Opener interface {
	Open(ctx context.Context, userID string) (Session, error)
}

// Manager opens browser sessions in one of two modes: "managed" attaches
// to a remote rod launcher service, "local" launches a visible browser
// with a per-user persistent profile so SSO cookies survive across runs.
type Manager struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg: cfg,
		log: logger.Component("browser"),
	}
}

func (m *Manager) Open(ctx context.Context, userID string) (Session, error) {
	var browser *rod.Browser

	switch m.cfg.BrowserMode {
	case "managed":
		m.log.Info().Str("mode", "managed").Msg("Attaching to managed browser service")
		b, err := m.openManaged()
		if err != nil {
			return nil, err
		}
		browser = b
	default:
		m.log.Info().Str("mode", "local").Str("user_id", userID).Msg("Launching local browser")
		b, err := m.openLocal(userID)
		if err != nil {
			return nil, err
		}
		browser = b
	}

	browser = browser.Context(ctx)

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("error creating page: %w", err)
	}

	return &rodSession{browser: browser, page: page}, nil
}

func (m *Manager) openManaged() (*rod.Browser, error) {
	if m.cfg.BrowserWSURL == "" {
		return nil, fmt.Errorf("managed browser mode requires BROWSER_WS_URL")
	}

	l, err := launcher.NewManaged(m.cfg.BrowserWSURL)
	if err != nil {
		return nil, fmt.Errorf("error initializing managed launcher: %w", err)
	}

	client, err := l.Client()
	if err != nil {
		return nil, fmt.Errorf("error getting launcher client: %w", err)
	}

	browser := rod.New().Client(client)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("error connecting to managed browser: %w", err)
	}
	return browser, nil
}

func (m *Manager) openLocal(userID string) (*rod.Browser, error) {
	profileDir := filepath.Join(m.cfg.ProfileDir, userID)
	if err := os.MkdirAll(profileDir, 0o750); err != nil {
		return nil, fmt.Errorf("error creating profile dir: %w", err)
	}

	// Visible browser with a persistent profile: cached SSO cookies let
	// the login machine skip most steps on repeat runs.
	controlURL, err := launcher.New().
		UserDataDir(profileDir).
		Headless(false).
		Launch()
	if err != nil {
		return nil, fmt.Errorf("error launching local browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("error connecting to local browser: %w", err)
	}
	return browser, nil
}

type rodSession struct {
	browser *rod.Browser
	page    *rod.Page
}

func (s *rodSession) Page() Pager {
	return NewPager(s.page)
}

func (s *rodSession) Close() error {
	return s.browser.Close()
}
