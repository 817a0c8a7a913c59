package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"campusmate-backend/internal/portal/domain"
)

var termRe = regexp.MustCompile(`^(Spring|Summer|Fall|Winter)\s+\d{4}$`)

// ParseTranscriptHTML walks the transcript table in document order,
// keeping a pointer to the semester opened by the most recent summary
// row. Course rows attach to that semester until the next summary row
// moves the pointer; rows with too few columns are skipped. Returns nil
// when no semester rows exist at all.
func ParseTranscriptHTML(html string) ([]*domain.ResultHistoryRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var semesters []*domain.ResultHistoryRecord
	var current *domain.ResultHistoryRecord

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		first := cellText(cells, 0)
		if termRe.MatchString(first) {
			current = &domain.ResultHistoryRecord{
				Term:     first,
				EarnedCH: cellText(cells, 1),
				SGPA:     cellText(cells, 2),
				CGPA:     cellText(cells, 3),
			}
			semesters = append(semesters, current)
			return
		}

		if current == nil {
			return
		}
		current.Courses = append(current.Courses, domain.SemesterCourse{
			Name:        first,
			CreditHours: cellText(cells, 1),
			GradePoints: cellText(cells, 2),
			FinalGrade:  cellText(cells, 3),
		})
	})

	return semesters, nil
}
