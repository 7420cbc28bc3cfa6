package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/product-feedback/internal/model"
)

// ListComments はコメントを返します。productID が空でなければその製品のコメントに絞り込みます。
func (s *Store) ListComments(ctx context.Context, productID string) ([]model.Comment, error) {
	filter := bson.M{}
	if productID != "" {
		oid, err := ParseID(productID)
		if err != nil {
			return nil, err
		}
		filter["productId"] = oid
	}

	cursor, err := s.comments.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// CreateComment はコメントを保存し、採番した ID を c に設定します。
func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := s.comments.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}
