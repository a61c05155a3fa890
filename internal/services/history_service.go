package services

import (
	"strings"

	"promptgen-backend/internal/models"
)

// BuildHistory turns raw rows (header first) into the rendered history: most
// recent row first, keeping only rows with a field containing search,
// case-insensitively. Short rows are padded to the header width.
func BuildHistory(rows [][]string, search string) *models.History {
	h := &models.History{Rows: []models.HistoryRow{}, Search: search}
	if len(rows) == 0 {
		return h
	}

	h.Columns = append([]string(nil), rows[0]...)
	h.Total = len(rows) - 1
	needle := strings.ToLower(search)

	for i := len(rows) - 1; i >= 1; i-- {
		values := padRow(rows[i], len(h.Columns))
		if needle != "" && !rowContains(values, needle) {
			continue
		}

		fields := make(map[string]string, len(h.Columns))
		for j, col := range h.Columns {
			fields[col] = values[j]
		}
		h.Rows = append(h.Rows, models.HistoryRow{Values: values, Fields: fields})
	}
	return h
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return append([]string(nil), row...)
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func rowContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
