package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
	Recent(ctx context.Context, limit int64) ([]*entity.GameResult, error)
}

// ResultRecorder persists finished-game summaries. Recording failures are
// logged, never surfaced to players: losing the game must not also lose the
// connection.
type ResultRecorder struct {
	logger     *slog.Logger
	resultRepo resultRepo
}

func NewResultRecorder(logger *slog.Logger, resultRepo resultRepo) *ResultRecorder {
	return &ResultRecorder{
		logger:     logger.With("component", "result-recorder"),
		resultRepo: resultRepo,
	}
}

// Record stores the outcome of a room that reached a terminal state.
func (that *ResultRecorder) Record(ctx context.Context, roomState *entity.Room) {
	result := &entity.GameResult{
		RoomID:      roomState.ID,
		Outcome:     roomState.State,
		Rounds:      roomState.CurrentRound,
		PlayerCount: len(roomState.Players),
		HealthMode:  roomState.HealthMode,
		FinishedAt:  time.Now().UnixMilli(),
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		that.logger.Error("failed to record game result", "roomID", roomState.ID, "error", err)
		return
	}

	that.logger.Info("game result recorded", "roomID", roomState.ID, "outcome", result.Outcome, "rounds", result.Rounds)
}

// Recent returns the latest recorded results, newest first.
func (that *ResultRecorder) Recent(ctx context.Context, limit int64) ([]*entity.GameResult, error) {
	results, err := that.resultRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	return results, nil
}
