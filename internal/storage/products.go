package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/product-feedback/internal/model"
)

// DefaultProductSort は sortBy 未指定時の並び替え項目です。
const DefaultProductSort = "likes"

// ProductQuery は製品一覧の検索条件です。
type ProductQuery struct {
	Categories []string // いずれかを含む製品に絞り込む（空なら全件）
	SortBy     string   // 降順で並べる項目
}

// ListProducts は条件に合う製品を SortBy の降順で返します。
func (s *Store) ListProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	filter := productFilter(q.Categories)
	sort, err := productSort(q.SortBy)
	if err != nil {
		return nil, err
	}

	cursor, err := s.products.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// CreateProduct は製品を保存し、採番した ID を p に設定します。
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := s.products.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// FindProduct は ID で製品を取得します。見つからなければ nil, nil を返します。
func (s *Store) FindProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var p model.Product
	err = s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

// UpdateProductDetails は基本情報を上書きし、更新後の製品を返します。
func (s *Store) UpdateProductDetails(ctx context.Context, id string, d model.ProductDetails) (*model.Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"companyName": d.CompanyName,
		"category":    d.Category,
		"imageURL":    d.ImageURL,
		"productLink": d.ProductLink,
		"description": d.Description,
	}}
	return s.findAndUpdateProduct(ctx, oid, update)
}

// IncrementLikes は likes を 1 加算し、更新後の製品を返します。
func (s *Store) IncrementLikes(ctx context.Context, id string) (*model.Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.findAndUpdateProduct(ctx, oid, bson.M{"$inc": bson.M{"likes": 1}})
}

// IncrementCommentCount は commentCount を 1 加算します。製品が存在しない場合は ErrNotFound です。
func (s *Store) IncrementCommentCount(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	res, err := s.products.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"commentCount": 1}})
	if err != nil {
		return fmt.Errorf("increment commentCount: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) findAndUpdateProduct(ctx context.Context, oid primitive.ObjectID, update bson.M) (*model.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, oid.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

func productFilter(categories []string) bson.M {
	categories = model.NormalizeCategories(categories)
	if len(categories) == 0 {
		return bson.M{}
	}
	return bson.M{"category": bson.M{"$in": categories}}
}

func productSort(field string) (bson.D, error) {
	if field == "" {
		field = DefaultProductSort
	}
	if !fieldPathPattern.MatchString(field) {
		return nil, fmt.Errorf("%w: sortBy %q", ErrInvalidQuery, field)
	}
	return bson.D{{Key: field, Value: -1}}, nil
}
