package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/storage"
)

const (
	// TaskTypeCommentCount はコメント数加算のタスク種別です。
	TaskTypeCommentCount = "product:comment_count"

	queueName  = "comments"
	maxRetries = 5
)

// CommentCounter は製品の commentCount を加算します。
type CommentCounter interface {
	IncrementCommentCount(ctx context.Context, productID string) error
}

type recordStore interface {
	Get(ctx context.Context, commentID string) (*Record, error)
	Upsert(ctx context.Context, record *Record) error
	MarkDone(ctx context.Context, commentID string) error
	MarkFailed(ctx context.Context, commentID string, cause error) error
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Manager はコメント数加算タスクの投入と実行を担います。
type Manager struct {
	client  taskEnqueuer
	server  *asynq.Server
	mux     *asynq.ServeMux
	store   recordStore
	counter CommentCounter
	logger  *zap.Logger
}

// NewManager は Manager を初期化します。redisURL は asynq のブローカー接続先です。
func NewManager(redisURL string, counter CommentCounter, store *Store, logger *zap.Logger) (*Manager, error) {
	if counter == nil {
		return nil, errors.New("counter is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				queueName: 1,
			},
			Logger: logger.Named("asynq").Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	manager := &Manager{
		client:  asynq.NewClient(opt),
		server:  server,
		mux:     mux,
		store:   store,
		counter: counter,
		logger:  logger.Named("jobs"),
	}
	mux.HandleFunc(TaskTypeCommentCount, manager.handleCommentCountTask)
	return manager, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			m.logger.Error("asynq server stopped with error", zap.Error(err))
		}
	}()
}

// Shutdown はサーバーとクライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.server != nil {
		m.server.Shutdown()
	}
	return m.client.Close()
}

// ScheduleCommentCount はコメント数加算の再試行タスクを投入します。
// 同じコメントに対する重複投入は無視されます。
func (m *Manager) ScheduleCommentCount(ctx context.Context, commentID, productID string) error {
	if commentID == "" || productID == "" {
		return fmt.Errorf("commentID and productID are required")
	}

	if err := m.store.Upsert(ctx, &Record{
		CommentID: commentID,
		ProductID: productID,
		Status:    StatusQueued,
	}); err != nil {
		return err
	}

	body, err := json.Marshal(CommentCountPayload{CommentID: commentID, ProductID: productID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypeCommentCount, body)
	info, err := m.client.EnqueueContext(ctx, task,
		asynq.Queue(queueName),
		asynq.MaxRetry(maxRetries),
		asynq.TaskID(recordKey(commentID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	m.logger.Info("comment count retry scheduled",
		zap.String("taskId", info.ID),
		zap.String("commentId", commentID),
		zap.String("productId", productID),
	)
	return nil
}

func (m *Manager) handleCommentCountTask(ctx context.Context, task *asynq.Task) error {
	var payload CommentCountPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.CommentID == "" || payload.ProductID == "" {
		return fmt.Errorf("missing commentId or productId in payload: %w", asynq.SkipRetry)
	}
	return m.processCommentCount(ctx, payload)
}

func (m *Manager) processCommentCount(ctx context.Context, payload CommentCountPayload) error {
	record, err := m.store.Get(ctx, payload.CommentID)
	if err != nil {
		return err
	}
	if record != nil && record.Status == StatusDone {
		return nil
	}
	if record == nil {
		record = &Record{CommentID: payload.CommentID, ProductID: payload.ProductID}
	}
	record.Status = StatusRunning
	record.Attempts++
	if err := m.store.Upsert(ctx, record); err != nil {
		return err
	}

	err = m.counter.IncrementCommentCount(ctx, payload.ProductID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		if markErr := m.store.MarkFailed(ctx, payload.CommentID, err); markErr != nil {
			m.logger.Warn("failed to record comment count failure", zap.String("commentId", payload.CommentID), zap.Error(markErr))
		}
		return err
	}

	// 加算後は再実行させない（記録に失敗しても二重加算を避ける）
	if markErr := m.store.MarkDone(ctx, payload.CommentID); markErr != nil {
		m.logger.Warn("failed to record comment count completion", zap.String("commentId", payload.CommentID), zap.Error(markErr))
	}
	return nil
}
