package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "campusmate-backend/internal/auth/domain"
	"campusmate-backend/internal/portal/browser"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/internal/portal/login"
	"campusmate-backend/pkg/config"
)

type fakeUsers struct {
	user *authdomain.User
}

func (f *fakeUsers) FindByID(string) (*authdomain.User, error) { return f.user, nil }

type fakeDecrypter struct{}

func (fakeDecrypter) Decrypt(string) (string, error) { return "plain-password", nil }

type fakePage struct {
	url string
}

func (f *fakePage) Navigate(url string, _ time.Duration) error            { f.url = url; return nil }
func (f *fakePage) WaitVisible(string, time.Duration) error               { return nil }
func (f *fakePage) Click(string, time.Duration) error                     { return nil }
func (f *fakePage) ClickByText(string, string, time.Duration) error       { return nil }
func (f *fakePage) Input(string, string, time.Duration) error             { return nil }
func (f *fakePage) HTML() (string, error)                                 { return "<html></html>", nil }
func (f *fakePage) URL() string                                           { return f.url }

type fakeSession struct {
	pager  browser.Pager
	mu     sync.Mutex
	closed bool
}

func (s *fakeSession) Page() browser.Pager { return s.pager }
func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeOpener struct {
	mu      sync.Mutex
	opens   int
	err     error
	session *fakeSession
}

func (f *fakeOpener) Open(context.Context, string) (browser.Session, error) {
	f.mu.Lock()
	f.opens++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeOpener) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

type fakeAuth struct {
	called bool
	err    error
}

func (f *fakeAuth) EnsureLoggedIn(page browser.Pager, _ login.Credentials) error {
	f.called = true
	if f.err == nil {
		_ = page.Navigate("https://portal.example.edu/Student/Dashboard", time.Second)
	}
	return f.err
}

type fakeGrades struct {
	records   []*domain.CourseGradeRecord
	skipped   int
	err       error
	block     chan struct{} // when set, Extract waits until closed
	started   chan struct{} // closed on first Extract call
	startOnce sync.Once
	calls     int32
}

func (f *fakeGrades) Extract(context.Context, browser.Pager) ([]*domain.CourseGradeRecord, int, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	return f.records, f.skipped, f.err
}

func (f *fakeGrades) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

type fakeHistory struct {
	semesters []*domain.ResultHistoryRecord
	err       error
}

func (f *fakeHistory) Extract(context.Context, browser.Pager) ([]*domain.ResultHistoryRecord, error) {
	return f.semesters, f.err
}

type memGradeRepo struct {
	mu       sync.Mutex
	replaces int
	byUser   map[string][]*domain.CourseGradeRecord
}

func newMemGradeRepo() *memGradeRepo {
	return &memGradeRepo{byUser: map[string][]*domain.CourseGradeRecord{}}
}

func (r *memGradeRepo) ReplaceForUser(userID string, records []*domain.CourseGradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	r.byUser[userID] = records
	return nil
}

func (r *memGradeRepo) FindByUserID(userID string) ([]*domain.CourseGradeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUser[userID], nil
}

type memHistoryRepo struct {
	mu     sync.Mutex
	byUser map[string][]*domain.ResultHistoryRecord
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{byUser: map[string][]*domain.ResultHistoryRecord{}}
}

func (r *memHistoryRepo) ReplaceForUser(userID string, records []*domain.ResultHistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = records
	return nil
}

func (r *memHistoryRepo) FindByUserID(userID string) ([]*domain.ResultHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUser[userID], nil
}

type memStatsRepo struct {
	mu    sync.Mutex
	stats *domain.StudentStatsRecord
}

func (r *memStatsRepo) Upsert(stats *domain.StudentStatsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = stats
	return nil
}

func (r *memStatsRepo) FindByUserID(string) (*domain.StudentStatsRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats, nil
}

type harness struct {
	coord   *SyncCoordinator
	opener  *fakeOpener
	session *fakeSession
	auth    *fakeAuth
	grades  *fakeGrades
	history *fakeHistory
	gradeDB *memGradeRepo
	histDB  *memHistoryRepo
	statsDB *memStatsRepo
}

func newHarness(user *authdomain.User) *harness {
	h := &harness{
		session: &fakeSession{pager: &fakePage{}},
		auth:    &fakeAuth{},
		grades:  &fakeGrades{},
		history: &fakeHistory{},
		gradeDB: newMemGradeRepo(),
		histDB:  newMemHistoryRepo(),
		statsDB: &memStatsRepo{},
	}
	h.opener = &fakeOpener{session: h.session}
	cfg := &config.Config{
		PortalBaseURL:       "https://portal.example.edu",
		PortalDashboardPath: "/Student/Dashboard",
		SyncDeadline:        time.Minute,
	}
	h.coord = NewSyncCoordinator(
		&fakeUsers{user: user}, h.opener, h.auth, h.grades, h.history,
		h.gradeDB, h.histDB, h.statsDB, fakeDecrypter{}, cfg,
	)
	return h
}

func connectedUser() *authdomain.User {
	return &authdomain.User{
		ID:                "user-1",
		PortalID:          "s123@uni.edu",
		PortalPassword:    "aabb:ccdd",
		IsPortalConnected: true,
	}
}

func TestRunSyncSingleFlight(t *testing.T) {
	h := newHarness(connectedUser())
	h.grades.block = make(chan struct{})
	h.grades.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.coord.RunSync(context.Background(), "user-1")
		done <- err
	}()

	<-h.grades.started

	// second caller is rejected immediately, no queueing
	_, err := h.coord.RunSync(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrRobotBusy)
	assert.Equal(t, 1, h.opener.openCount())

	close(h.grades.block)
	require.NoError(t, <-done)

	// slot is free again after the run finished; extraction runs anew
	_, err = h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, h.grades.callCount())
}

func TestRunSyncNoCredentials(t *testing.T) {
	cases := []*authdomain.User{
		nil,
		{ID: "user-1", IsPortalConnected: false, PortalID: "x", PortalPassword: "y"},
		{ID: "user-1", IsPortalConnected: true, PortalID: "", PortalPassword: "y"},
		{ID: "user-1", IsPortalConnected: true, PortalID: "x", PortalPassword: ""},
	}
	for _, user := range cases {
		h := newHarness(user)
		_, err := h.coord.RunSync(context.Background(), "user-1")
		assert.ErrorIs(t, err, domain.ErrNoCredentials)
		// no browser cost is paid for unlinked accounts
		assert.Zero(t, h.opener.openCount())
	}
}

func TestRunSyncLoginSkippedWhenAlreadyAtDashboard(t *testing.T) {
	h := newHarness(connectedUser())

	_, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	// Navigate lands directly on the dashboard URL, so the login
	// machine never runs.
	assert.False(t, h.auth.called)
	assert.True(t, h.session.isClosed())
}

// redirectPage simulates the portal bouncing every navigation to the SSO
// login URL.
type redirectPage struct {
	fakePage
}

func (r *redirectPage) Navigate(string, time.Duration) error {
	r.url = "https://login.example.com/oauth2/authorize"
	return nil
}

func TestRunSyncLoginFailure(t *testing.T) {
	h := newHarness(connectedUser())
	h.coord.auth = &fakeAuth{err: domain.ErrLoginFailed}
	h.session.pager = &redirectPage{}

	_, err := h.coord.RunSync(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
	assert.True(t, h.session.isClosed())

	// lock was released despite the failure
	h.session.pager = &fakePage{}
	h.coord.auth = &fakeAuth{}
	_, err = h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)
}

func TestRunSyncReplacesGradesEvenWhenEmpty(t *testing.T) {
	h := newHarness(connectedUser())
	h.gradeDB.byUser["user-1"] = []*domain.CourseGradeRecord{{ID: "stale"}}

	out, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, out.CoursesFound)
	got, _ := h.gradeDB.FindByUserID("user-1")
	assert.Empty(t, got)
	assert.Equal(t, 1, h.gradeDB.replaces)
}

func TestRunSyncOutcomeCountsSkips(t *testing.T) {
	h := newHarness(connectedUser())
	h.grades.records = []*domain.CourseGradeRecord{
		{CourseName: "Data Structures"},
		{CourseName: "Databases"},
	}
	h.grades.skipped = 1

	out, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, out.CoursesFound)
	assert.Equal(t, 2, out.CoursesSynced)
	assert.Equal(t, 1, out.CoursesSkipped)
}

func TestRunSyncHistoryIsBestEffort(t *testing.T) {
	h := newHarness(connectedUser())
	h.grades.records = []*domain.CourseGradeRecord{{CourseName: "OOP"}}
	h.history.err = errors.New("selector timeout")

	out, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.False(t, out.HistorySynced)
	assert.Equal(t, 1, out.CoursesSynced)
	got, _ := h.histDB.FindByUserID("user-1")
	assert.Empty(t, got)
}

func TestRunSyncEmptyHistorySkipsWrite(t *testing.T) {
	h := newHarness(connectedUser())
	h.histDB.byUser["user-1"] = []*domain.ResultHistoryRecord{{ID: "old", Term: "Fall 2021"}}
	h.history.semesters = nil

	out, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.False(t, out.HistorySynced)
	// distinct from grades: an empty transcript leaves old history alone
	got, _ := h.histDB.FindByUserID("user-1")
	require.Len(t, got, 1)
	assert.Equal(t, "Fall 2021", got[0].Term)
}

func TestRunSyncHistoryAndStats(t *testing.T) {
	h := newHarness(connectedUser())
	h.grades.records = []*domain.CourseGradeRecord{{CourseName: "OOP"}, {CourseName: "DB"}}
	h.history.semesters = []*domain.ResultHistoryRecord{
		{Term: "Fall 2022", EarnedCH: "15", CGPA: "3.20"},
		{Term: "Spring 2023", EarnedCH: "16", CGPA: "3.31"},
	}

	out, err := h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, out.HistorySynced)
	assert.Equal(t, 2, out.SemesterCount)

	stats, _ := h.statsDB.FindByUserID("user-1")
	require.NotNil(t, stats)
	assert.Equal(t, "3.31", stats.CGPA)
	assert.Equal(t, 31.0, stats.Credits)
	assert.Equal(t, 6, stats.InProgressCr) // 2 active courses x 3
}

func TestRunSyncSessionOpenErrorReleasesLock(t *testing.T) {
	h := newHarness(connectedUser())
	h.opener.err = errors.New("browser service unreachable")

	_, err := h.coord.RunSync(context.Background(), "user-1")
	require.Error(t, err)

	h.opener.err = nil
	_, err = h.coord.RunSync(context.Background(), "user-1")
	require.NoError(t, err)
}
