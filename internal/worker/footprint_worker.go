package worker

// footprint_worker.go
// Processes footprint-recompute jobs from QueueFootprint: reruns the carbon
// calculator and eco-score engine for one product and writes the cached
// columns back. Jobs are dispatched in bulk after an emission-factor revision.

import (
	"context"
	"encoding/json"
	"time"

	"ecostore/internal/model"
	"ecostore/internal/repository"
	"ecostore/internal/sustain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FootprintJobPayload is the job envelope sent to QueueFootprint.
type FootprintJobPayload struct {
	ProductID string `json:"product_id"`
}

// FootprintWorker recomputes and persists derived sustainability columns.
type FootprintWorker struct {
	repo   repository.ProductRepository
	calc   *sustain.Calculator
	scorer *sustain.Engine
	rdb    *redis.Client
}

func NewFootprintWorker(
	repo repository.ProductRepository,
	calc *sustain.Calculator,
	scorer *sustain.Engine,
	rdb *redis.Client,
) *FootprintWorker {
	return &FootprintWorker{repo: repo, calc: calc, scorer: scorer, rdb: rdb}
}

// Process handles a single recompute job:
//  1. Parse FootprintJobPayload from the job envelope
//  2. Fetch the product and rerun calculator + scorer
//  3. Write the cached columns in a single UPDATE
//  4. Invalidate the cached insight card
//
// Transient DB errors are retried with exponential backoff; after the final
// attempt the job lands in the dead letter queue.
func (w *FootprintWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FootprintJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("footprint_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueFootprint, "footprint", raw, "invalid payload", 0)
		return
	}

	id, err := uuid.Parse(payload.ProductID)
	if err != nil {
		log.Error().Str("product_id", payload.ProductID).Msg("footprint_worker: invalid product_id")
		SendToDLQ(ctx, w.rdb, QueueFootprint, "footprint", raw, "invalid product_id", 0)
		return
	}

	const maxAttempts = 3
	err = withRetry(ctx, maxAttempts, func(attempt int) error {
		p, err := w.repo.FindByID(ctx, id)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("product_id", payload.ProductID).
				Msg("footprint_worker: fetch failed, retrying")
			return err
		}

		// Products without a lifecycle declaration get the fallback score
		// and a zero footprint.
		var res sustain.FootprintResult
		if data := p.SustainData(); data != nil {
			res = w.calc.Compute(*data)
		}
		score := w.scorer.Score(sustain.ScoreInput{
			Name:              p.Name,
			CarbonFootprintKg: res.Total,
			Data:              p.SustainData(),
			MaterialNames:     p.Materials,
		})

		return w.repo.UpdateFootprintCache(ctx, id, res.Total, score.Total,
			model.FootprintBreakdownData{FootprintBreakdown: res.Breakdown}, time.Now().UTC())
	})

	if err != nil {
		log.Error().Err(err).Str("product_id", payload.ProductID).Msg("footprint_worker: failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueFootprint, "footprint", raw, err.Error(), maxAttempts)
		return
	}

	// Stale insight cards would otherwise survive until TTL expiry.
	if err := w.rdb.Del(ctx, "insight:"+payload.ProductID).Err(); err != nil {
		log.Debug().Err(err).Str("product_id", payload.ProductID).Msg("footprint_worker: cache invalidation failed")
	}

	log.Info().Str("product_id", payload.ProductID).Msg("footprint_worker: cache refreshed")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
