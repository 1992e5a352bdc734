package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kkusima/commitpulse/internal/pipeline"
	"github.com/kkusima/commitpulse/internal/snapshot"
	"github.com/kkusima/commitpulse/pkg/logger"
)

const defaultHistoryLimit = 20

// BadgeHandler serves the rendered badge and its underlying summary.
type BadgeHandler struct {
	service  *pipeline.Service
	repo     *snapshot.Repository // nil when no database is configured
	username string
	year     int
	logger   *logger.Logger
}

// NewBadgeHandler creates a new badge handler.
func NewBadgeHandler(service *pipeline.Service, repo *snapshot.Repository, username string, year int, log *logger.Logger) *BadgeHandler {
	return &BadgeHandler{
		service:  service,
		repo:     repo,
		username: username,
		year:     year,
		logger:   log,
	}
}

// GetBadge serves the latest badge SVG. With a database configured it
// serves the stored snapshot; otherwise it generates on demand.
func (h *BadgeHandler) GetBadge(w http.ResponseWriter, r *http.Request) {
	svg, err := h.latestSVG(r)
	if err != nil {
		h.logger.WithError(err).Error("Failed to produce badge")
		writeError(w, http.StatusBadGateway, "badge generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache, max-age=0")
	w.Write(svg)
}

// GetSummary serves the latest activity summary as JSON.
func (h *BadgeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.repo != nil {
		snap, err := h.repo.Latest(r.Context(), h.username, h.year)
		if err == nil {
			writeJSON(w, http.StatusOK, snap)
			return
		}
		if !errors.Is(err, snapshot.ErrNotFound) {
			h.logger.WithError(err).Error("Failed to load latest snapshot")
			writeError(w, http.StatusInternalServerError, "snapshot lookup failed")
			return
		}
	}

	result, err := h.service.Generate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate summary")
		writeError(w, http.StatusBadGateway, "summary generation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetHistory serves recent generation runs, newest first.
func (h *BadgeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotImplemented, "history requires a configured database")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be an integer in [1,500]")
			return
		}
		limit = n
	}

	history, err := h.repo.History(r.Context(), h.username, h.year, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load history")
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": h.username,
		"year":     h.year,
		"runs":     history,
	})
}

// Refresh triggers a generation run immediately.
func (h *BadgeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Generate(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Manual refresh failed")
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *BadgeHandler) latestSVG(r *http.Request) ([]byte, error) {
	if h.repo != nil {
		snap, err := h.repo.Latest(r.Context(), h.username, h.year)
		if err == nil {
			return snap.SVG, nil
		}
		if !errors.Is(err, snapshot.ErrNotFound) {
			return nil, err
		}
	}

	result, err := h.service.Generate(r.Context())
	if err != nil {
		return nil, err
	}
	return result.SVG, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
