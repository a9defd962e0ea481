package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ranking/pkg/ranking"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetClient struct {
	service       *sheets.Service
	spreadsheetID string
	limiter       *rate.Limiter
	maxRetries    int
	baseBackoff   time.Duration
	maxBackoff    time.Duration
}

// NewSheetClient authenticates against the Sheets API. The returned client
// is meant to live for a single ranking run.
func NewSheetClient(ctx context.Context, opts Options, extra ...option.ClientOption) (*SheetClient, error) {
	if opts.SpreadsheetID == "" {
		return nil, errors.New("no spreadsheet id")
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.CredentialsJSON != "":
		creds, err := google.CredentialsFromJSON(ctx, []byte(opts.CredentialsJSON), sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parsing service account credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	clientOpts = append(clientOpts, extra...)

	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SheetClient{
		service:       srv,
		spreadsheetID: opts.SpreadsheetID,
		limiter:       rate.NewLimiter(limit, 1),
		maxRetries:    opts.MaxRetries,
		baseBackoff:   time.Second,
		maxBackoff:    60 * time.Second,
	}, nil
}

// Close ends the run's use of the client. It holds no connections, so
// there is nothing to release.
func (s *SheetClient) Close() error {
	return nil
}

// do runs call, retrying while Google reports a quota error. Backoff doubles
// per attempt up to maxBackoff and never outlives ctx.
func (s *SheetClient) do(ctx context.Context, what string, call func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		if err = call(); err == nil {
			return nil
		}
		if !rateLimited(err) {
			return fmt.Errorf("%s: %w", what, err)
		}
		if attempt == s.maxRetries {
			break
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * s.baseBackoff
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
		log.Warnf("Rate limited by Google Sheets API during %s, retrying in %v...", what, backoff)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%s: still rate limited after %d retries: %w", what, s.maxRetries, err)
}

func rateLimited(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	if gErr.Code == http.StatusTooManyRequests {
		return true
	}
	if gErr.Code == http.StatusForbidden {
		for _, item := range gErr.Errors {
			if strings.Contains(strings.ToLower(item.Reason), "ratelimitexceeded") {
				return true
			}
		}
	}
	return false
}

// Read returns every row of the named sheet, header first.
func (s *SheetClient) Read(ctx context.Context, sheet string) (ranking.Input, error) {
	var resp *sheets.ValueRange
	err := s.do(ctx, "reading "+sheet, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, a1(sheet)).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return ranking.Input{}, err
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = make([]string, len(row))
		for j, cell := range row {
			values[i][j] = fmt.Sprint(cell)
		}
	}
	return ranking.NewInput(values), nil
}

// Publish replaces the content of a single sheet.
func (s *SheetClient) Publish(ctx context.Context, table ranking.Table) error {
	return s.PublishAll(ctx, []ranking.Table{table})
}

// PublishAll replaces the content of every table's sheet. Missing sheets are
// added and undersized ones grown in one request, then all sheets are
// cleared in one request and written in one request.
func (s *SheetClient) PublishAll(ctx context.Context, tables []ranking.Table) error {
	if err := s.ensureSheets(ctx, tables); err != nil {
		return err
	}

	ranges := make([]string, len(tables))
	data := make([]*sheets.ValueRange, len(tables))
	for i, t := range tables {
		ranges[i] = a1(t.Name)
		data[i] = &sheets.ValueRange{
			Range:  a1(t.Name) + "!A1",
			Values: toValues(t),
		}
	}

	err := s.do(ctx, "clearing output sheets", func() error {
		_, err := s.service.Spreadsheets.Values.BatchClear(s.spreadsheetID, &sheets.BatchClearValuesRequest{
			Ranges: ranges,
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	err = s.do(ctx, "writing output sheets", func() error {
		_, err := s.service.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             data,
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	for _, t := range tables {
		log.WithFields(log.Fields{"sheet": t.Name, "rows": len(t.Rows)}).Info("Updated sheet")
	}
	return nil
}

func (s *SheetClient) ensureSheets(ctx context.Context, tables []ranking.Table) error {
	var ss *sheets.Spreadsheet
	err := s.do(ctx, "fetching spreadsheet", func() error {
		var err error
		ss, err = s.service.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	existing := map[string]*sheets.SheetProperties{}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = sh.Properties
		}
	}

	var requests []*sheets.Request
	for _, t := range tables {
		rows := int64(len(t.Rows) + 1 + extraRows)
		cols := int64(t.Width() + extraColumns)

		props, ok := existing[t.Name]
		if !ok {
			log.Infof("Creating sheet %s", t.Name)
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: t.Name,
						GridProperties: &sheets.GridProperties{
							RowCount:    rows,
							ColumnCount: cols,
						},
					},
				},
			})
			continue
		}

		grid := props.GridProperties
		if grid == nil {
			continue
		}
		if grid.RowCount >= int64(len(t.Rows)+1) && grid.ColumnCount >= int64(t.Width()) {
			continue
		}
		log.Debugf("Growing sheet %s to %dx%d", t.Name, rows, cols)
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: props.SheetId,
					GridProperties: &sheets.GridProperties{
						RowCount:    max(rows, grid.RowCount),
						ColumnCount: max(cols, grid.ColumnCount),
					},
					// the first sheet has id 0, which would otherwise be dropped
					ForceSendFields: []string{"SheetId"},
				},
				Fields: "gridProperties.rowCount,gridProperties.columnCount",
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	return s.do(ctx, "preparing output sheets", func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		return err
	})
}

// a1 quotes a sheet title for use in A1 notation.
func a1(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// toValues converts table cells for a RAW write: cells holding a number in
// canonical form are sent as numbers, everything else verbatim as text, so
// ids such as "007" keep their leading zeros.
func toValues(t ranking.Table) [][]interface{} {
	values := t.Values()
	for _, row := range values {
		for i, cell := range row {
			s := cell.(string)
			f, err := strconv.ParseFloat(s, 64)
			if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && ranking.FormatScore(f) == s {
				row[i] = f
			}
		}
	}
	return values
}
