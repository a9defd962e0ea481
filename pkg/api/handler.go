package api

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"
)

const successMessage = "Ranking updated successfully"

type handler struct {
	runner *Runner
}

// getRunRanking runs the ranking synchronously and reports the outcome.
func (h *handler) getRunRanking(w http.ResponseWriter, r *http.Request) {
	runID := NewRunID()
	log.WithFields(log.Fields{"run_id": runID, "remote": r.RemoteAddr}).Info("Ranking run requested")

	// a caller hanging up must not abort a run halfway through publishing
	ctx := context.WithoutCancel(r.Context())

	if _, err := h.runner.Run(ctx, runID); err != nil {
		render.Status(r, errorStatus(err))
		render.JSON(w, r, errorResponse{
			Status:  "error",
			Error:   errorKind(err),
			Message: errorMessage(err),
			RunID:   runID,
		})
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	render.JSON(w, r, statusResponse{
		Status:  "success",
		Message: successMessage,
	})
}

func getHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
