// internal/common/database/ledger.go
package database

import (
	"context"
	"fmt"
	"time"
)

// SubmissionLedger remembers which combination versions already had their result
// accepted by the backend, so a redelivered job does not post twice.
type SubmissionLedger struct {
	redis  *RedisClient
	prefix string
	ttl    time.Duration
}

func NewSubmissionLedger(redis *RedisClient, prefix string, ttl time.Duration) *SubmissionLedger {
	return &SubmissionLedger{redis: redis, prefix: prefix, ttl: ttl}
}

func (l *SubmissionLedger) key(combinationID, evaluationVersion int64) string {
	return fmt.Sprintf("%s:%d:%d", l.prefix, combinationID, evaluationVersion)
}

func (l *SubmissionLedger) IsSubmitted(ctx context.Context, combinationID, evaluationVersion int64) (bool, error) {
	ok, err := l.redis.Exists(ctx, l.key(combinationID, evaluationVersion))
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return ok, nil
}

// MarkSubmitted records the submission. A zero ttl keeps the key forever.
func (l *SubmissionLedger) MarkSubmitted(ctx context.Context, combinationID, evaluationVersion int64) error {
	key := l.key(combinationID, evaluationVersion)
	if err := l.redis.Set(ctx, key, "1", l.ttl); err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	return nil
}

// Forget removes a submission record.
func (l *SubmissionLedger) Forget(ctx context.Context, combinationID, evaluationVersion int64) error {
	return l.redis.Del(ctx, l.key(combinationID, evaluationVersion))
}
