package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

type fakeResultRepo struct {
	saved   []*entity.GameResult
	saveErr error
	recent  []*entity.GameResult
	err     error
}

func (that *fakeResultRepo) Save(_ context.Context, result *entity.GameResult) error {
	if that.saveErr != nil {
		return that.saveErr
	}

	that.saved = append(that.saved, result)

	return nil
}

func (that *fakeResultRepo) Recent(_ context.Context, _ int64) ([]*entity.GameResult, error) {
	return that.recent, that.err
}

func newTestRecorder(repo *fakeResultRepo) *ResultRecorder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewResultRecorder(logger, repo)
}

func TestResultRecorder_Record(t *testing.T) {
	t.Run("maps a finished room to a stored result", func(t *testing.T) {
		// Given: a lost two-player room in its third round
		repo := &fakeResultRepo{}
		recorder := newTestRecorder(repo)

		roomState := entity.NewRoom("ROOM01", entity.Settings{HealthMode: entity.HealthShared, SharedHearts: 6})
		_, err := roomState.AddPlayer("p1")
		require.NoError(t, err)
		_, err = roomState.AddPlayer("p2")
		require.NoError(t, err)
		roomState.State = entity.StateLost
		roomState.CurrentRound = 3

		// When: the outcome is recorded
		recorder.Record(context.Background(), roomState)

		// Then: the stored result carries the room's summary fields
		require.Len(t, repo.saved, 1)
		result := repo.saved[0]
		assert.Equal(t, "ROOM01", result.RoomID)
		assert.Equal(t, entity.StateLost, result.Outcome)
		assert.Equal(t, 3, result.Rounds)
		assert.Equal(t, 2, result.PlayerCount)
		assert.Equal(t, entity.HealthShared, result.HealthMode)
		assert.NotZero(t, result.FinishedAt)
	})

	t.Run("a storage failure is swallowed", func(t *testing.T) {
		// Given: a repository that rejects every save
		repo := &fakeResultRepo{saveErr: errors.New("redis is down")}
		recorder := newTestRecorder(repo)

		roomState := entity.NewRoom("ROOM01", entity.Settings{HealthMode: entity.HealthShared, SharedHearts: 6})
		roomState.State = entity.StateWon

		// When/Then: recording does not panic and stores nothing
		recorder.Record(context.Background(), roomState)
		assert.Empty(t, repo.saved)
	})
}

func TestResultRecorder_Recent(t *testing.T) {
	t.Run("passes results through", func(t *testing.T) {
		expected := []*entity.GameResult{{RoomID: "ROOM01", Outcome: entity.StateWon}}
		recorder := newTestRecorder(&fakeResultRepo{recent: expected})

		results, err := recorder.Recent(context.Background(), 10)

		require.NoError(t, err)
		assert.Equal(t, expected, results)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repoErr := errors.New("redis is down")
		recorder := newTestRecorder(&fakeResultRepo{err: repoErr})

		results, err := recorder.Recent(context.Background(), 10)

		require.ErrorIs(t, err, repoErr)
		assert.Nil(t, results)
	})
}
