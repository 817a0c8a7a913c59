package scrape

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"campusmate-backend/internal/portal/browser"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/pkg/logger"
)

const (
	// The grade-book tab is found by visible text; its element ids change
	// between portal deployments.
	gradeBookTabPattern = "Grade Book"
	selGradeRow         = "table tr"

	navTimeout  = 20 * time.Second
	stepTimeout = 10 * time.Second
)

// GradeExtractor visits every discovered course page over one shared
// browser session and parses its grade book. Courses are processed
// strictly one at a time; a failing course is logged and skipped, never
// fatal for the run.
type GradeExtractor struct {
	baseURL string
	log     zerolog.Logger
}

func NewGradeExtractor(baseURL string) *GradeExtractor {
	return &GradeExtractor{
		baseURL: baseURL,
		log:     logger.Component("grade-extractor"),
	}
}

// Extract discovers course links from the current dashboard page, then
// extracts each course sequentially. It returns the parsed records and
// how many discovered courses were skipped because of extraction errors.
func (e *GradeExtractor) Extract(ctx context.Context, page browser.Pager) ([]*domain.CourseGradeRecord, int, error) {
	html, err := page.HTML()
	if err != nil {
		return nil, 0, err
	}

	urls := DiscoverCourseLinks(html, e.baseURL)
	e.log.Info().Int("course_count", len(urls)).Msg("Discovered active courses")

	var records []*domain.CourseGradeRecord
	skipped := 0
	for _, courseURL := range urls {
		if err := ctx.Err(); err != nil {
			return records, skipped, err
		}

		rec, err := e.extractCourse(page, courseURL)
		if err != nil {
			e.log.Warn().Err(err).Str("course_url", courseURL).Msg("Skipping course")
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func (e *GradeExtractor) extractCourse(page browser.Pager, courseURL string) (*domain.CourseGradeRecord, error) {
	if err := page.Navigate(courseURL, navTimeout); err != nil {
		return nil, err
	}
	if err := page.ClickByText("a", gradeBookTabPattern, stepTimeout); err != nil {
		return nil, err
	}
	if err := page.WaitVisible(selGradeRow, stepTimeout); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	rec, err := ParseGradeHTML(html)
	if err != nil {
		return nil, err
	}
	rec.CourseURL = courseURL
	e.log.Debug().Str("course", rec.CourseName).Int("assessments", len(rec.Assessments)).Msg("Parsed grade book")
	return rec, nil
}
