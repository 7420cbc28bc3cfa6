package jobs

import "time"

// Status はコメント数加算タスクの実行状態を表します。
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "error"
)

// CommentCountPayload はコメント数加算タスクのペイロードです。
type CommentCountPayload struct {
	CommentID string `json:"commentId"`
	ProductID string `json:"productId"`
}

// Record はコメント 1 件分の加算状態です。done になった記録は再実行時の二重加算を防ぎます。
type Record struct {
	CommentID string    `json:"commentId"`
	ProductID string    `json:"productId"`
	Status    Status    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
