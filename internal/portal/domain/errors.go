package domain

import "errors"

// Fatal sync errors. Callers map these to distinct responses; everything
// else inside a run is absorbed with a skip-and-continue policy.
var (
	// ErrRobotBusy means another sync is in flight. Calls are rejected,
	// never queued.
	ErrRobotBusy = errors.New("a sync is already in progress")

	// ErrNoCredentials means the user has no linked portal account. No
	// browser session is opened in this case.
	ErrNoCredentials = errors.New("user has no linked portal credentials")

	// ErrLoginFailed means the SSO sequence finished without reaching
	// the dashboard.
	ErrLoginFailed = errors.New("portal login failed")
)
