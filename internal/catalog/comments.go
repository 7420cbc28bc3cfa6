package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/model"
	"github.com/yourusername/product-feedback/internal/storage"
)

// CommentRepository はコメントの永続化を担います。
type CommentRepository interface {
	ListComments(ctx context.Context, productID string) ([]model.Comment, error)
	CreateComment(ctx context.Context, c *model.Comment) error
}

// CommentCountScheduler はコメント数の加算を非同期キューで再試行するためのインターフェースです。
type CommentCountScheduler interface {
	ScheduleCommentCount(ctx context.Context, commentID, productID string) error
}

// CommentOptions は AddCommentHandler の設定です。
type CommentOptions struct {
	Scheduler CommentCountScheduler // nil の場合、加算失敗はそのままエラー応答になります
	Logger    *zap.Logger
}

// ListCommentsHandler は GET /getComments のハンドラーを返します。
func ListCommentsHandler(repo CommentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := repo.ListComments(c.Request.Context(), c.Query("productId"))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

// AddCommentHandler は POST /addComment のハンドラーを返します。
// コメント保存後に製品の commentCount を 1 加算します（保存とはトランザクションを共有しません）。
func AddCommentHandler(comments CommentRepository, products ProductRepository, opts CommentOptions) gin.HandlerFunc {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		var req commentRequest
		if err := c.ShouldBind(&req); err != nil {
			respondWithError(c, err)
			return
		}
		comment, err := model.NewComment(req.ProductID, req.CommentText)
		if err != nil {
			respondWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := comments.CreateComment(ctx, comment); err != nil {
			respondWithError(c, err)
			return
		}

		if err := incrementCommentCount(ctx, products, opts.Scheduler, comment); err != nil {
			logger.Error("comment saved but commentCount was not updated",
				zap.String("commentId", comment.ID.Hex()),
				zap.String("productId", comment.ProductID.Hex()),
				zap.Error(err),
			)
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, comment)
	}
}

func incrementCommentCount(ctx context.Context, products ProductRepository, scheduler CommentCountScheduler, comment *model.Comment) error {
	productID := comment.ProductID.Hex()
	err := products.IncrementCommentCount(ctx, productID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		// 参照先の製品がない場合はコメントのみ残す
		return nil
	case scheduler == nil:
		return err
	}

	if schedErr := scheduler.ScheduleCommentCount(ctx, comment.ID.Hex(), productID); schedErr != nil {
		return fmt.Errorf("%w (retry scheduling failed: %v)", err, schedErr)
	}
	return nil
}
