package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/glyphtide/glyphtide-backend/internal/entity"
)

const (
	resultsKey = "results:recent"

	// maxStoredResults caps the recent-results list; older entries fall off.
	maxStoredResults = 100
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	Recent(ctx context.Context, limit int64) ([]*entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	if err = that.client.LPush(ctx, resultsKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	if err = that.client.LTrim(ctx, resultsKey, 0, maxStoredResults-1).Err(); err != nil {
		return fmt.Errorf("failed to trim results: %w", err)
	}

	return nil
}

func (that *dbResult) Recent(ctx context.Context, limit int64) ([]*entity.GameResult, error) {
	if limit <= 0 || limit > maxStoredResults {
		limit = maxStoredResults
	}

	entries, err := that.client.LRange(ctx, resultsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range results: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(entries))
	for _, entry := range entries {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}
