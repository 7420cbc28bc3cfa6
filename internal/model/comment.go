package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment は製品に付けられたコメントです。
type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	CommentText string             `bson:"commentText" json:"commentText"`
}

// NewComment は productId の形式と commentText の有無を検証してコメントを作成します。
func NewComment(productID, commentText string) (*Comment, error) {
	check := fieldChecker{model: "Comment"}
	check.require("productId", productID)
	check.require("commentText", commentText)

	var oid primitive.ObjectID
	if productID != "" {
		parsed, err := primitive.ObjectIDFromHex(productID)
		if err != nil {
			check.fail("productId", "is not a valid id")
		}
		oid = parsed
	}
	if err := check.err(); err != nil {
		return nil, err
	}
	return &Comment{
		ProductID:   oid,
		CommentText: commentText,
	}, nil
}
