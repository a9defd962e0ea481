package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ranking/pkg/config"
	"ranking/pkg/lock"
	"ranking/pkg/metrics"
	"ranking/pkg/ranking"
	"ranking/pkg/sheets"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Runner executes one ranking run at a time.
type Runner struct {
	Pipeline *ranking.Pipeline
	Connect  Connector
	Lock     lock.RunLock
	Timeout  time.Duration
}

// NewRunner wires a Runner from configuration. The returned cleanup closes
// the distributed lock connection, if any.
func NewRunner(ctx context.Context, cfg *config.Config) (*Runner, func(), error) {
	p := &ranking.Pipeline{
		Columns: cfg.Columns,
		Weights: cfg.Weights,
		Sheets:  cfg.Sheets,
	}

	var connect Connector
	if cfg.UsesWorkbook() {
		connect = WorkbookConnector(cfg.Workbook.Path)
	} else {
		connect = SheetsConnector(sheets.Options{
			CredentialsFile:   cfg.Google.CredentialsFile,
			CredentialsJSON:   cfg.Google.CredentialsJSON,
			SpreadsheetID:     cfg.Google.SpreadsheetID,
			RequestsPerSecond: cfg.Google.RequestsPerSecond,
			MaxRetries:        cfg.Google.MaxRetries,
		})
	}

	var runLock lock.RunLock = lock.NewLocal()
	cleanup := func() {}
	if cfg.Lock.RedisAddr != "" {
		r, err := lock.Dial(ctx, cfg.Lock.RedisAddr, cfg.Lock.RedisKey, cfg.Lock.TTL.Duration)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using redis run lock %s at %s", cfg.Lock.RedisKey, cfg.Lock.RedisAddr)
		runLock = r
		cleanup = func() { _ = r.Close() }
	}

	return &Runner{
		Pipeline: p,
		Connect:  connect,
		Lock:     runLock,
		Timeout:  cfg.Run.Timeout.Duration,
	}, cleanup, nil
}

// Run performs a full ranking run under the run lock and the run timeout.
func (rn *Runner) Run(ctx context.Context, runID string) (result ranking.Result, err error) {
	start := time.Now()
	logger := log.WithField("run_id", runID)
	defer func() {
		if err != nil {
			metrics.RecordFailure(time.Since(start), string(ranking.KindOf(err)))
			logger.WithField("kind", ranking.KindOf(err)).Errorf("Ranking run failed: %v", err)
			return
		}
		metrics.RecordSuccess(time.Since(start), result.Students, result.Groups)
		logger.WithFields(log.Fields{
			"students": result.Students,
			"groups":   result.Groups,
			"duration": time.Since(start).Round(time.Millisecond),
		}).Info("Ranking updated")
	}()

	release, err := rn.Lock.TryLock(ctx, runID)
	if err != nil {
		return ranking.Result{}, err
	}
	defer release()

	if rn.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rn.Timeout)
		defer cancel()
	}

	conn, err := rn.Connect(ctx)
	if err != nil {
		return ranking.Result{}, ranking.Classify(ranking.SourceUnavailable, err, "connecting to spreadsheet")
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Warnf("Failed to close spreadsheet connection: %v", cerr)
		}
	}()

	result, err = rn.Pipeline.Run(ctx, conn, conn)
	if err != nil {
		return ranking.Result{}, err
	}

	if s, ok := conn.(saver); ok {
		if err := s.Save(); err != nil {
			return ranking.Result{}, ranking.NewError(ranking.SinkUnavailable, err, "saving output")
		}
	}
	return result, nil
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// errorStatus is the HTTP status reported for a failed run.
func errorStatus(err error) int {
	switch ranking.KindOf(err) {
	case ranking.MalformedRecord:
		return http.StatusUnprocessableEntity
	case ranking.SourceUnavailable, ranking.SinkUnavailable:
		return http.StatusBadGateway
	case ranking.ConcurrentRunConflict:
		return http.StatusConflict
	case ranking.RunTimeout:
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func errorKind(err error) string {
	if k := ranking.KindOf(err); k != "" {
		return string(k)
	}
	return "Internal"
}

func errorMessage(err error) string {
	var re *ranking.Error
	if errors.As(err, &re) && re.Err != nil {
		return fmt.Sprintf("%s: %v", re.Message, re.Err)
	}
	if re != nil {
		return re.Message
	}
	return err.Error()
}
