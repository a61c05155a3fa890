package models

// HistoryRow is one data row of the log keyed by header.
type HistoryRow struct {
	Values []string          `json:"values"`
	Fields map[string]string `json:"fields"`
}

// History is the log as rendered: header row plus rows, most recent first.
type History struct {
	Columns []string     `json:"columns"`
	Rows    []HistoryRow `json:"rows"`
	Total   int          `json:"total"`
	Search  string       `json:"search,omitempty"`
}
