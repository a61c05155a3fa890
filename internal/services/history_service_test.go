package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var historyRows = [][]string{
	{"Timestamp", "User", "Task"},
	{"2024-01-01 08:00:00", "alice@example.com", "Write an email"},
	{"2024-01-02 08:00:00", "bob@example.com", "Summarize a REPORT"},
	{"2024-01-03 08:00:00", "carol@example.com"},
}

func TestBuildHistoryEmpty(t *testing.T) {
	h := BuildHistory(nil, "anything")
	assert.Empty(t, h.Columns)
	assert.Empty(t, h.Rows)
	assert.NotNil(t, h.Rows)
	assert.Equal(t, 0, h.Total)
}

func TestBuildHistoryHeaderOnly(t *testing.T) {
	h := BuildHistory(historyRows[:1], "")
	assert.Equal(t, []string{"Timestamp", "User", "Task"}, h.Columns)
	assert.Empty(t, h.Rows)
}

func TestBuildHistoryNoSearchKeepsAllReversed(t *testing.T) {
	h := BuildHistory(historyRows, "")
	assert.Equal(t, 3, h.Total)
	assert.Len(t, h.Rows, 3)
	assert.Equal(t, "carol@example.com", h.Rows[0].Fields["User"])
	assert.Equal(t, "bob@example.com", h.Rows[1].Fields["User"])
	assert.Equal(t, "alice@example.com", h.Rows[2].Fields["User"])
}

func TestBuildHistoryPadsShortRows(t *testing.T) {
	h := BuildHistory(historyRows, "")
	assert.Equal(t, []string{"2024-01-03 08:00:00", "carol@example.com", ""}, h.Rows[0].Values)
	assert.Equal(t, "", h.Rows[0].Fields["Task"])
}

func TestBuildHistorySearchIsCaseInsensitive(t *testing.T) {
	for _, search := range []string{"report", "REPORT", "Report", "bob@"} {
		h := BuildHistory(historyRows, search)
		assert.Len(t, h.Rows, 1, search)
		assert.Equal(t, "bob@example.com", h.Rows[0].Fields["User"])
		assert.Equal(t, 3, h.Total)
	}
}

func TestBuildHistoryEveryShownRowMatches(t *testing.T) {
	for _, search := range []string{"example", "2024-01-0", "o", "e@", "nothing-matches"} {
		h := BuildHistory(historyRows, search)
		for _, row := range h.Rows {
			matched := false
			for _, v := range row.Values {
				if strings.Contains(strings.ToLower(v), strings.ToLower(search)) {
					matched = true
				}
			}
			assert.True(t, matched, "row %v should contain %q", row.Values, search)
		}
	}

	assert.Empty(t, BuildHistory(historyRows, "nothing-matches").Rows)
}

func TestBuildHistoryDoesNotMatchHeaders(t *testing.T) {
	h := BuildHistory(historyRows, "timestamp")
	assert.Empty(t, h.Rows)
}
