package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// courseInfoPath marks the anchors on the dashboard that lead to one
// active course's detail page.
const courseInfoPath = "/Student/CourseInfo"

// DiscoverCourseLinks extracts every course-info link from a dashboard
// snapshot. Relative hrefs are resolved against baseURL and duplicates
// (relative and absolute forms of the same course) collapse to one entry.
// Order of first appearance is preserved.
func DiscoverCourseLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, courseInfoPath) {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()

		if !seen[abs] {
			seen[abs] = true
			links = append(links, abs)
		}
	})

	return links
}
