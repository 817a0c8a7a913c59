package domain

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueIndexName(t *testing.T, model any, field string) string {
	t.Helper()
	f, ok := reflect.TypeOf(model).FieldByName(field)
	require.True(t, ok, "field %s", field)
	for _, part := range strings.Split(f.Tag.Get("gorm"), ";") {
		if name, found := strings.CutPrefix(part, "uniqueIndex:"); found {
			return name
		}
	}
	return ""
}

// The natural keys are enforced by the schema, not just by the
// delete-then-insert replace transaction.
func TestNaturalKeysAreUniqueIndexes(t *testing.T) {
	gradeIdx := uniqueIndexName(t, CourseGradeRecord{}, "UserID")
	assert.NotEmpty(t, gradeIdx)
	assert.Equal(t, gradeIdx, uniqueIndexName(t, CourseGradeRecord{}, "CourseURL"))

	historyIdx := uniqueIndexName(t, ResultHistoryRecord{}, "UserID")
	assert.NotEmpty(t, historyIdx)
	assert.Equal(t, historyIdx, uniqueIndexName(t, ResultHistoryRecord{}, "Term"))
}
