// Package jobs はコメント数加算の再試行キューを提供します。
//
// コメント保存後の commentCount 加算に失敗した場合、Asynq タスクとして
// 最大 5 回まで再試行します。Redis 上の comment_count:<commentId> 記録で
// 加算済みかを判定し、少なくとも 1 回配送でも二重加算しません。
package jobs
