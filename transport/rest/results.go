package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

const defaultResultsLimit = 20

type resultSource interface {
	Recent(ctx context.Context, limit int64) ([]*entity.GameResult, error)
}

// ResultsHandler serves the recent finished-game summaries.
type ResultsHandler struct {
	logger  *slog.Logger
	results resultSource
}

func NewResultsHandler(logger *slog.Logger, results resultSource) *ResultsHandler {
	return &ResultsHandler{
		logger:  logger.With("component", "rest-results"),
		results: results,
	}
}

func (that *ResultsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := int64(defaultResultsLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	results, err := that.results.Recent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to load recent results", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(results); err != nil {
		that.logger.Error("failed to encode results", "error", err)
	}
}
