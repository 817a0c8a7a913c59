package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gradeBookFixture = `
<html><body>
<ol class="breadcrumb">
  <li>Home</li>
  <li class="active">CS-2001 Data Structures</li>
</ol>
<div class="grand-total">Overall: <span class="badge">87.5 / 100</span></div>
<table>
  <tr>
    <td>Assignments</td>
    <td><span class="badge">10%</span></td>
    <td>8.2</td>
  </tr>
  <tr><td>Assignment 1</td><td>10</td><td>9</td><td>7.4</td><td>90.0</td></tr>
  <tr><td>Assignment 2</td><td>10</td><td>8</td><td>6.9</td><td>80.0</td></tr>
  <tr><td>Assignment 3</td><td>10</td><td>7.5</td><td>7.1</td><td>75.0</td></tr>
  <tr>
    <td>Quizzes</td>
    <td><span class="badge">15%</span></td>
    <td>12.1</td>
  </tr>
  <tr><td>Quiz 1</td><td>15</td><td>13</td><td>10.2</td><td>86.7</td></tr>
</table>
</body></html>`

func TestParseGradeHTMLAdjacencyGrouping(t *testing.T) {
	rec, err := ParseGradeHTML(gradeBookFixture)
	require.NoError(t, err)

	require.Len(t, rec.Assessments, 2)

	first := rec.Assessments[0]
	assert.Equal(t, "Assignments", first.Name)
	assert.Equal(t, "10%", first.Weight)
	assert.Equal(t, "8.2", first.Percentage)
	require.Len(t, first.Details, 3)
	assert.Equal(t, "Assignment 1", first.Details[0].Name)
	assert.Equal(t, "10", first.Details[0].MaxMarks)
	assert.Equal(t, "9", first.Details[0].ObtainedMarks)
	assert.Equal(t, "7.4", first.Details[0].ClassAverage)
	assert.Equal(t, "90.0", first.Details[0].Percentage)

	second := rec.Assessments[1]
	assert.Equal(t, "Quizzes", second.Name)
	require.Len(t, second.Details, 1)
	assert.Equal(t, "Quiz 1", second.Details[0].Name)
}

func TestParseGradeHTMLCourseNameAndTotal(t *testing.T) {
	rec, err := ParseGradeHTML(gradeBookFixture)
	require.NoError(t, err)

	assert.Equal(t, "CS-2001 Data Structures", rec.CourseName)
	assert.Equal(t, "87.5 / 100", rec.TotalPercentage)
}

func TestParseGradeHTMLFallbackCourseName(t *testing.T) {
	html := `<html><body><table>
	  <tr><td>Final</td><td><span class="badge">50%</span></td><td>41</td></tr>
	</table></body></html>`

	rec, err := ParseGradeHTML(html)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Course", rec.CourseName)
	assert.Empty(t, rec.TotalPercentage)
}

func TestParseGradeHTMLSkipsOrphanAndShortRows(t *testing.T) {
	html := `<html><body><table>
	  <tr><td>header noise</td><td>x</td><td>y</td><td>z</td><td>w</td></tr>
	  <tr><td>Labs</td><td><span class="badge">20%</span></td><td>17</td></tr>
	  <tr><td>Lab 1</td><td>20</td></tr>
	  <tr><td>Lab 2</td><td>20</td><td>18</td><td>15.5</td><td>90.0</td></tr>
	</table></body></html>`

	rec, err := ParseGradeHTML(html)
	require.NoError(t, err)
	require.Len(t, rec.Assessments, 1)
	// the orphan row before the first header and the two-cell row are ignored
	require.Len(t, rec.Assessments[0].Details, 1)
	assert.Equal(t, "Lab 2", rec.Assessments[0].Details[0].Name)
}

func TestParseGradeHTMLNoRowsIsError(t *testing.T) {
	_, err := ParseGradeHTML(`<html><body><p>maintenance page</p></body></html>`)
	assert.Error(t, err)
}
