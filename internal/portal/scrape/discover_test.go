package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverCourseLinks(t *testing.T) {
	html := `
	<html><body>
	  <a href="/Student/CourseInfo?id=101">Data Structures</a>
	  <a href="https://portal.example.edu/Student/CourseInfo?id=202">Databases</a>
	  <a href="/Student/CourseInfo?id=101">Data Structures (again)</a>
	  <a href="https://portal.example.edu/Student/CourseInfo?id=101">Data Structures (absolute)</a>
	  <a href="/Student/Attendance?id=101">Attendance</a>
	  <a href="#">noop</a>
	</body></html>`

	links := DiscoverCourseLinks(html, "https://portal.example.edu")

	assert.Equal(t, []string{
		"https://portal.example.edu/Student/CourseInfo?id=101",
		"https://portal.example.edu/Student/CourseInfo?id=202",
	}, links)
}

func TestDiscoverCourseLinksNoneFound(t *testing.T) {
	links := DiscoverCourseLinks(`<html><body><a href="/home">home</a></body></html>`, "https://portal.example.edu")
	assert.Empty(t, links)
}
