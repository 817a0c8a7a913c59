package scrape

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"campusmate-backend/internal/portal/browser"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/pkg/logger"
)

const (
	transcriptPath            = "/Student/Transcript"
	previousCoursesTabPattern = "Previous Courses"
)

// creditWeight is the fixed credit-hour weight assumed for each actively
// running course when deriving in-progress credits.
const creditWeight = 3

// HistoryExtractor navigates to the transcript page and parses the
// nested semester table.
type HistoryExtractor struct {
	baseURL string
	log     zerolog.Logger
}

func NewHistoryExtractor(baseURL string) *HistoryExtractor {
	return &HistoryExtractor{
		baseURL: baseURL,
		log:     logger.Component("history-extractor"),
	}
}

func (e *HistoryExtractor) Extract(ctx context.Context, page browser.Pager) ([]*domain.ResultHistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := page.Navigate(e.baseURL+transcriptPath, navTimeout); err != nil {
		return nil, err
	}

	// Some transcript layouts hide older semesters behind a tab. Its
	// absence is tolerated.
	if err := page.ClickByText("a", previousCoursesTabPattern, stepTimeout); err != nil {
		e.log.Debug().Msg("No previous-courses tab, parsing current view")
	}
	if err := page.WaitVisible("table tr", stepTimeout); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	semesters, err := ParseTranscriptHTML(html)
	if err != nil {
		return nil, err
	}

	e.log.Info().Int("semester_count", len(semesters)).Msg("Parsed transcript")
	return semesters, nil
}

// DeriveStats aggregates the parsed transcript into the per-user stats
// record: CGPA from the last semester in parse order (chronologically
// latest), total credits as the sum of earned credit hours, and
// in-progress credits from the count of actively discovered courses.
func DeriveStats(userID string, semesters []*domain.ResultHistoryRecord, activeCourses int) *domain.StudentStatsRecord {
	stats := &domain.StudentStatsRecord{
		UserID:       userID,
		InProgressCr: activeCourses * creditWeight,
	}

	for _, sem := range semesters {
		if ch, err := strconv.ParseFloat(sem.EarnedCH, 64); err == nil {
			stats.Credits += ch
		}
	}
	if len(semesters) > 0 {
		stats.CGPA = semesters[len(semesters)-1].CGPA
	}
	return stats
}
