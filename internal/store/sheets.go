package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"promptgen-backend/internal/models"
)

// SheetsStore keeps the log in one tab of a Google spreadsheet.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsStore calls the Sheets API as the owner of ts. base, when set, is
// the transport the OAuth client wraps.
func NewSheetsStore(ctx context.Context, ts oauth2.TokenSource, base *http.Client, spreadsheetID, sheetName string, opts ...option.ClientOption) (*SheetsStore, error) {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	client := oauth2.NewClient(ctx, ts)

	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// SheetsFactory opens a SheetsStore per authenticated user.
func SheetsFactory(base *http.Client, spreadsheetID, sheetName string, opts ...option.ClientOption) Factory {
	return func(ctx context.Context, ts oauth2.TokenSource) (Store, error) {
		return NewSheetsStore(ctx, ts, base, spreadsheetID, sheetName, opts...)
	}
}

// Append writes rec after the last row. A blank sheet gets the header row first.
func (s *SheetsStore) Append(ctx context.Context, rec models.PromptRecord) error {
	hasHeader, err := s.hasHeader(ctx)
	if err != nil {
		return err
	}

	var values [][]interface{}
	if !hasHeader {
		values = append(values, toCells(models.Columns))
	}
	values = append(values, toCells(rec.Row()))

	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.tabRange(""), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", s.sheetName, err)
	}
	return nil
}

func (s *SheetsStore) ReadAll(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.tabRange("")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SheetsStore) hasHeader(ctx context.Context) (bool, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.tabRange("1:1")).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read header of %s: %w", s.sheetName, err)
	}
	return len(resp.Values) > 0 && len(resp.Values[0]) > 0, nil
}

// tabRange builds an A1 range on the tab; blank cells selects the whole tab.
func (s *SheetsStore) tabRange(cells string) string {
	name := "'" + strings.ReplaceAll(s.sheetName, "'", "''") + "'"
	if cells == "" {
		return name
	}
	return name + "!" + cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
