package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcriptFixture = `
<html><body><table>
  <tr><td>Fall 2022</td><td>15</td><td>3.20</td><td>3.20</td></tr>
  <tr><td>CS-1001 Intro to Programming</td><td>3</td><td>9.99</td><td>A-</td></tr>
  <tr><td>MT-1003 Calculus I</td><td>3</td><td>8.01</td><td>B+</td></tr>
  <tr><td>broken row</td></tr>
  <tr><td>Spring 2023</td><td>16</td><td>3.45</td><td>3.31</td></tr>
  <tr><td>CS-1004 OOP</td><td>4</td><td>13.32</td><td>A</td></tr>
  <tr><td>Fall 2023</td><td>withdrawn</td><td>0.00</td><td>3.31</td></tr>
</table></body></html>`

func TestParseTranscriptHTMLSemesterGrouping(t *testing.T) {
	semesters, err := ParseTranscriptHTML(transcriptFixture)
	require.NoError(t, err)
	require.Len(t, semesters, 3)

	assert.Equal(t, "Fall 2022", semesters[0].Term)
	assert.Equal(t, "15", semesters[0].EarnedCH)
	assert.Equal(t, "3.20", semesters[0].SGPA)
	require.Len(t, semesters[0].Courses, 2)
	assert.Equal(t, "CS-1001 Intro to Programming", semesters[0].Courses[0].Name)
	assert.Equal(t, "A-", semesters[0].Courses[0].FinalGrade)

	assert.Equal(t, "Spring 2023", semesters[1].Term)
	require.Len(t, semesters[1].Courses, 1)
	assert.Equal(t, "CS-1004 OOP", semesters[1].Courses[0].Name)

	assert.Equal(t, "Fall 2023", semesters[2].Term)
	assert.Empty(t, semesters[2].Courses)
}

func TestParseTranscriptHTMLEmptyPage(t *testing.T) {
	semesters, err := ParseTranscriptHTML(`<html><body><p>no results yet</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, semesters)
}

func TestParseTranscriptHTMLIsDeterministic(t *testing.T) {
	a, err := ParseTranscriptHTML(transcriptFixture)
	require.NoError(t, err)
	b, err := ParseTranscriptHTML(transcriptFixture)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveStats(t *testing.T) {
	semesters, err := ParseTranscriptHTML(transcriptFixture)
	require.NoError(t, err)

	stats := DeriveStats("user-1", semesters, 5)

	// "withdrawn" fails float parsing and counts as 0
	assert.Equal(t, 31.0, stats.Credits)
	// CGPA comes from the last semester in parse order
	assert.Equal(t, "3.31", stats.CGPA)
	assert.Equal(t, 15, stats.InProgressCr)
	assert.Equal(t, "user-1", stats.UserID)
}

func TestDeriveStatsNoSemesters(t *testing.T) {
	stats := DeriveStats("user-1", nil, 0)
	assert.Equal(t, 0.0, stats.Credits)
	assert.Empty(t, stats.CGPA)
	assert.Equal(t, 0, stats.InProgressCr)
}
