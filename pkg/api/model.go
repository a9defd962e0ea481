package api

import (
	"context"

	"ranking/pkg/ranking"
	"ranking/pkg/sheets"
	"ranking/pkg/workbook"
)

// Conn is a connection to the spreadsheet held for the length of one run.
type Conn interface {
	ranking.Source
	ranking.Publisher
	Close() error
}

// saver is implemented by connections that buffer writes until told to
// persist them.
type saver interface {
	Save() error
}

// Connector opens a fresh Conn for each run.
type Connector func(ctx context.Context) (Conn, error)

// SheetsConnector authenticates against Google Sheets on every run.
func SheetsConnector(opts sheets.Options) Connector {
	return func(ctx context.Context) (Conn, error) {
		client, err := sheets.NewSheetClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// WorkbookConnector opens the local workbook on every run.
func WorkbookConnector(path string) Connector {
	return func(ctx context.Context) (Conn, error) {
		wb, err := workbook.Open(path)
		if err != nil {
			return nil, err
		}
		return wb, nil
	}
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}
