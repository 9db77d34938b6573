package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/ailit-assessment/internal/config"
	"github.com/stemsi/ailit-assessment/internal/model"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrConflict         = errors.New("run state changed concurrently")
)

// maxUpdateAttempts bounds optimistic retries on a contended run.
const maxUpdateAttempts = 5

const artifactContentType = "application/json"

// RunRepository keeps live assessment runs in Redis. Every write refreshes
// the run's TTL.
type RunRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(rdb *redis.Client, ttl time.Duration) *RunRepository {
	return &RunRepository{rdb: rdb, ttl: ttl}
}

// Create stores the initial state of a new run.
func (r *RunRepository) Create(ctx context.Context, runID string, state model.AssessmentState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, config.CacheKey.RunStateKey(runID), raw, r.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

// Load returns the current state of a run.
func (r *RunRepository) Load(ctx context.Context, runID string) (model.AssessmentState, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.RunStateKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.AssessmentState{}, ErrRunNotFound
	}
	if err != nil {
		return model.AssessmentState{}, err
	}
	return decodeState(raw)
}

// Update applies fn to the stored state inside a WATCH transaction and
// writes the result back. An error from fn aborts without writing.
func (r *RunRepository) Update(ctx context.Context, runID string, fn func(*model.AssessmentState) error) (model.AssessmentState, error) {
	key := config.CacheKey.RunStateKey(runID)
	var updated model.AssessmentState

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrRunNotFound
		}
		if err != nil {
			return err
		}

		state, err := decodeState(raw)
		if err != nil {
			return err
		}
		if err := fn(&state); err != nil {
			return err
		}

		out, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("encode run state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = state
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return model.AssessmentState{}, err
	}
	return model.AssessmentState{}, ErrConflict
}

// SaveArtifact keeps the finalized document bytes for the fallback download.
func (r *RunRepository) SaveArtifact(ctx context.Context, runID string, a model.Artifact) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.CacheKey.RunArtifactKey(runID), a.Body, r.ttl)
		pipe.Set(ctx, config.CacheKey.RunArtifactNameKey(runID), a.Filename, r.ttl)
		return nil
	})
	return err
}

// LoadArtifact returns the bytes stored by SaveArtifact.
func (r *RunRepository) LoadArtifact(ctx context.Context, runID string) (model.Artifact, error) {
	vals, err := r.rdb.MGet(ctx,
		config.CacheKey.RunArtifactKey(runID),
		config.CacheKey.RunArtifactNameKey(runID),
	).Result()
	if err != nil {
		return model.Artifact{}, err
	}
	body, ok1 := vals[0].(string)
	name, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return model.Artifact{}, ErrArtifactNotFound
	}
	return model.Artifact{Filename: name, ContentType: artifactContentType, Body: []byte(body)}, nil
}

// AcquireFinalizeLock takes the per-run finalize lock. It reports false when
// another finalization holds it.
func (r *RunRepository) AcquireFinalizeLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, config.CacheKey.RunFinalizeLockKey(runID), "1", ttl).Result()
}

// ReleaseFinalizeLock drops the finalize lock.
func (r *RunRepository) ReleaseFinalizeLock(ctx context.Context, runID string) error {
	return r.rdb.Del(ctx, config.CacheKey.RunFinalizeLockKey(runID)).Err()
}

func decodeState(raw []byte) (model.AssessmentState, error) {
	var state model.AssessmentState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.AssessmentState{}, fmt.Errorf("decode run state: %w", err)
	}
	if state.Sessions == nil {
		state.Sessions = make(map[string]*model.Session)
	}
	return state, nil
}
