// Package storage はドキュメントストア（MongoDB）へのアクセスを提供します。
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	commentsCollection = "comments"
)

var (
	// ErrNotFound は対象ドキュメントが存在しないことを表します。
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID は ID が ObjectID の形式でないことを表します。
	ErrInvalidID = errors.New("invalid document id")
	// ErrDuplicate は一意インデックス違反を表します。
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidQuery は並び替え項目などクエリ条件の不正を表します。
	ErrInvalidQuery = errors.New("invalid query")
)

var fieldPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Store は users / products / comments の3コレクションを扱います。
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	products *mongo.Collection
	comments *mongo.Collection
}

// Connect は MongoDB に接続し、疎通確認を行った Store を返します。
// URL にデータベース名が含まれていればそれを、なければ defaultDB を使います。
func Connect(ctx context.Context, uri, defaultDB string) (*Store, error) {
	dbName, err := databaseName(uri, defaultDB)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	store := NewStore(client.Database(dbName))
	store.client = client
	return store, nil
}

// NewStore は既存の Database ハンドルから Store を作成します。
func NewStore(db *mongo.Database) *Store {
	return &Store{
		client:   db.Client(),
		db:       db,
		users:    db.Collection(usersCollection),
		products: db.Collection(productsCollection),
		comments: db.Collection(commentsCollection),
	}
}

// EnsureIndexes はメールアドレスの一意インデックスと検索用インデックスを作成します。
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}
	if _, err := s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "productId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create comments.productId index: %w", err)
	}
	if _, err := s.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create products.category index: %w", err)
	}
	return nil
}

// Ping はストアへの疎通を確認します。
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close は接続を切断します。
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func databaseName(uri, defaultDB string) (string, error) {
	cs, err := connstring.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongodb url: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	if defaultDB == "" {
		return "", errors.New("mongodb database name is not configured")
	}
	return defaultDB, nil
}

// ParseID は16進文字列の ObjectID を解析します。
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
