package login

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmate-backend/internal/portal/domain"
)

// fakePage scripts which prompts are present and lets a test react to
// clicks, e.g. by moving the URL to the dashboard after password submit.
type fakePage struct {
	url     string
	visible map[string]bool
	inputs  map[string]string
	clicks  []string
	onClick func(selector string)
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:     url,
		visible: map[string]bool{},
		inputs:  map[string]string{},
	}
}

func (f *fakePage) Navigate(url string, _ time.Duration) error {
	f.url = url
	return nil
}

func (f *fakePage) WaitVisible(selector string, _ time.Duration) error {
	if f.visible[selector] {
		return nil
	}
	return errors.New("element not found: " + selector)
}

func (f *fakePage) Click(selector string, _ time.Duration) error {
	f.clicks = append(f.clicks, selector)
	if f.onClick != nil {
		f.onClick(selector)
	}
	return nil
}

func (f *fakePage) ClickByText(selector, pattern string, _ time.Duration) error {
	f.clicks = append(f.clicks, selector+"|"+pattern)
	if f.onClick != nil {
		f.onClick(selector)
	}
	return nil
}

func (f *fakePage) Input(selector, text string, _ time.Duration) error {
	f.inputs[selector] = text
	return nil
}

func (f *fakePage) HTML() (string, error) { return "", nil }

func (f *fakePage) URL() string { return f.url }

func testConfig() Config {
	return Config{
		DashboardPath: "/Student/Dashboard",
		StepTimeout:   time.Millisecond,
		FinalTimeout:  5 * time.Millisecond,
		PollInterval:  time.Millisecond,
	}
}

func TestAlreadyAtDashboardSkipsEverything(t *testing.T) {
	page := newFakePage("https://portal.example.edu/Student/Dashboard")

	err := NewMachine(page, testConfig()).Run(Credentials{PortalID: "s123", Password: "pw"})

	require.NoError(t, err)
	assert.Empty(t, page.clicks)
	assert.Empty(t, page.inputs)
}

func TestFullLoginFlowReachesDashboard(t *testing.T) {
	page := newFakePage("https://login.example.com/oauth2/authorize")
	page.visible[selEmailInput] = true
	page.visible[selPasswordInput] = true
	page.visible[selStaySignedIn] = true

	submits := 0
	page.onClick = func(selector string) {
		if selector != selSubmitButton {
			return
		}
		submits++
		// email, password, then the stay-signed-in confirmation lands
		// on the dashboard
		if submits == 3 {
			page.url = "https://portal.example.edu/Student/Dashboard"
		}
	}

	err := NewMachine(page, testConfig()).Run(Credentials{PortalID: "s123@uni.edu", Password: "hunter2"})

	require.NoError(t, err)
	assert.Equal(t, "s123@uni.edu", page.inputs[selEmailInput])
	assert.Equal(t, "hunter2", page.inputs[selPasswordInput])
	assert.Equal(t, 3, submits)
}

func TestCachedSessionSkipsAbsentPrompts(t *testing.T) {
	// Only the password prompt shows up; the provider skipped email entry
	// because of a cached account.
	page := newFakePage("https://login.example.com/oauth2/authorize")
	page.visible[selPasswordInput] = true
	page.onClick = func(selector string) {
		if selector == selSubmitButton {
			page.url = "https://portal.example.edu/Student/Dashboard"
		}
	}

	err := NewMachine(page, testConfig()).Run(Credentials{PortalID: "s123", Password: "pw"})

	require.NoError(t, err)
	_, emailEntered := page.inputs[selEmailInput]
	assert.False(t, emailEntered)
	assert.Equal(t, "pw", page.inputs[selPasswordInput])
}

func TestGlitchScreenReselectsAccount(t *testing.T) {
	page := newFakePage("https://login.example.com/oauth2/authorize")
	page.visible[selOtherAccountTile] = true
	page.visible[selPasswordInput] = true
	page.onClick = func(selector string) {
		if selector == selOtherAccountTile {
			// picking an account dismisses the glitch screen
			page.visible[selOtherAccountTile] = false
		}
		if selector == selSubmitButton {
			page.url = "https://portal.example.edu/Student/Dashboard"
		}
	}

	err := NewMachine(page, testConfig()).Run(Credentials{PortalID: "s123@uni.edu", Password: "pw"})

	require.NoError(t, err)
	assert.Contains(t, page.clicks, selOtherAccountTile)
	assert.Contains(t, page.clicks, selAccountTile+"|"+`s123@uni\.edu`)
}

func TestLoginFailsWhenDashboardNeverReached(t *testing.T) {
	page := newFakePage("https://login.example.com/oauth2/authorize")
	page.visible[selEmailInput] = true
	page.visible[selPasswordInput] = true

	err := NewMachine(page, testConfig()).Run(Credentials{PortalID: "s123", Password: "pw"})

	assert.ErrorIs(t, err, domain.ErrLoginFailed)
}

func TestZeroConfigGetsTimingDefaults(t *testing.T) {
	m := NewMachine(newFakePage("about:blank"), Config{DashboardPath: "/Student/Dashboard"})

	assert.Equal(t, 8*time.Second, m.cfg.StepTimeout)
	assert.Equal(t, 30*time.Second, m.cfg.FinalTimeout)
	assert.Equal(t, 500*time.Millisecond, m.cfg.PollInterval)
}
