package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "comment_count:"

	// DefaultRecordTTL は加算記録の保持期間です。asynq の最大リトライ期間より長くしてください。
	DefaultRecordTTL = 7 * 24 * time.Hour

	maxWatchRetries = 10
)

// Store はコメント数加算の記録を Redis に保存します。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewStore は Store を作成します。ttl が 0 以下なら DefaultRecordTTL を使います。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &Store{
		rdb: rdb,
		ttl: ttl,
		now: time.Now,
	}
}

// Get は記録を取得します。存在しない場合は nil, nil を返します。
func (s *Store) Get(ctx context.Context, commentID string) (*Record, error) {
	if commentID == "" {
		return nil, fmt.Errorf("commentID is required")
	}
	data, err := s.rdb.Get(ctx, recordKey(commentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert は記録を保存します（存在しない場合は作成）。
func (s *Store) Upsert(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	if record.CommentID == "" {
		return fmt.Errorf("record.CommentID is required")
	}
	now := s.now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, recordKey(record.CommentID), payload, s.ttl).Err()
}

// MarkDone は加算済みとして記録します。
func (s *Store) MarkDone(ctx context.Context, commentID string) error {
	return s.update(ctx, commentID, func(record *Record) {
		record.Status = StatusDone
		record.LastError = ""
	})
}

// MarkFailed は失敗理由を記録します。
func (s *Store) MarkFailed(ctx context.Context, commentID string, cause error) error {
	return s.update(ctx, commentID, func(record *Record) {
		record.Status = StatusFailed
		if cause != nil {
			record.LastError = cause.Error()
		}
	})
}

// update は WATCH/MULTI で記録を読み書きします。競合時は再試行します。
func (s *Store) update(ctx context.Context, commentID string, mutate func(*Record)) error {
	key := recordKey(commentID)
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("comment count record not found: %s", commentID)
			}
			return err
		}
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		mutate(&record)
		record.UpdatedAt = s.now().UTC()
		payload, err := json.Marshal(&record)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update comment count record %s: too many conflicts", commentID)
}

func recordKey(commentID string) string {
	return recordKeyPrefix + commentID
}
