package scrape

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"campusmate-backend/internal/portal/domain"
)

var totalBadgeRe = regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*/\s*100\s*$`)

// ParseGradeHTML turns a grade-book page snapshot into a course record.
// It fills CourseName, TotalPercentage and Assessments; identity fields
// are the caller's job.
//
// The grade table has no parent/child keys. A row carrying a weight badge
// starts a new assessment and every following plain row belongs to it
// until the next badge row. That adjacency rule is the whole contract of
// this parser.
func ParseGradeHTML(html string) (*domain.CourseGradeRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	rec := &domain.CourseGradeRecord{
		CourseName: parseCourseName(doc),
	}

	var current *domain.Assessment
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		badge := row.Find("span.badge").First()
		if badge.Length() > 0 && !totalBadgeRe.MatchString(badge.Text()) {
			if current != nil {
				rec.Assessments = append(rec.Assessments, *current)
			}
			cells := row.Find("td")
			current = &domain.Assessment{
				Name:       cellText(cells, 0),
				Weight:     strings.TrimSpace(badge.Text()),
				Percentage: strings.TrimSpace(cells.Last().Text()),
			}
			return
		}

		if current == nil {
			// Orphan rows before the first assessment header are noise.
			return
		}

		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		current.Details = append(current.Details, domain.Detail{
			Name:          cellText(cells, 0),
			MaxMarks:      cellText(cells, 1),
			ObtainedMarks: cellText(cells, 2),
			ClassAverage:  cellText(cells, 3),
			Percentage:    cellText(cells, 4),
		})
	})
	if current != nil {
		rec.Assessments = append(rec.Assessments, *current)
	}

	if len(rec.Assessments) == 0 {
		return nil, errors.New("no assessment rows found in grade book")
	}

	rec.TotalPercentage = parseTotalPercentage(doc)
	return rec, nil
}

func parseCourseName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("ol.breadcrumb li.active").First().Text())
	if name == "" {
		return "Unknown Course"
	}
	return name
}

// parseTotalPercentage finds the overall course badge, e.g. "87.5 / 100".
func parseTotalPercentage(doc *goquery.Document) string {
	var total string
	doc.Find("span.badge").EachWithBreak(func(_ int, badge *goquery.Selection) bool {
		text := strings.TrimSpace(badge.Text())
		if totalBadgeRe.MatchString(text) {
			total = text
			return false
		}
		return true
	})
	return total
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
