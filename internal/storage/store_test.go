package storage

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/yourusername/product-feedback/internal/model"
)

func productDoc(id primitive.ObjectID, likes int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "companyName", Value: "Acme"},
		{Key: "category", Value: bson.A{"tools"}},
		{Key: "imageURL", Value: "https://example.com/logo.png"},
		{Key: "productLink", Value: "https://example.com"},
		{Key: "description", Value: "desc"},
		{Key: "likes", Value: likes},
		{Key: "commentCount", Value: 0},
	}
}

func TestProductFilter(t *testing.T) {
	if f := productFilter(nil); len(f) != 0 {
		t.Fatalf("expected empty filter, got %#v", f)
	}
	if f := productFilter([]string{" ", ""}); len(f) != 0 {
		t.Fatalf("blank categories should not filter, got %#v", f)
	}
	f := productFilter([]string{"A", " B"})
	in, ok := f["category"].(bson.M)["$in"].([]string)
	if !ok || len(in) != 2 || in[0] != "A" || in[1] != "B" {
		t.Fatalf("unexpected filter: %#v", f)
	}
}

func TestProductSort(t *testing.T) {
	sort, err := productSort("")
	if err != nil {
		t.Fatalf("productSort returned error: %v", err)
	}
	if sort[0].Key != "likes" || sort[0].Value != -1 {
		t.Fatalf("unexpected default sort: %#v", sort)
	}
	if sort, err := productSort("commentCount"); err != nil || sort[0].Key != "commentCount" {
		t.Fatalf("unexpected sort: %#v err=%v", sort, err)
	}
	for _, bad := range []string{"$where", "likes;drop", "a..b", "1field"} {
		if _, err := productSort(bad); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("sortBy %q: expected ErrInvalidQuery, got %v", bad, err)
		}
	}
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	if err != nil || got != id {
		t.Fatalf("ParseID(%s) = %s, %v", id.Hex(), got.Hex(), err)
	}
	if _, err := ParseID("123"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestDatabaseName(t *testing.T) {
	name, err := databaseName("mongodb://localhost:27017/catalog", "feedback")
	if err != nil || name != "catalog" {
		t.Fatalf("databaseName = %q, %v", name, err)
	}
	name, err = databaseName("mongodb://localhost:27017", "feedback")
	if err != nil || name != "feedback" {
		t.Fatalf("databaseName = %q, %v", name, err)
	}
	if _, err := databaseName("not a url", "feedback"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestStoreWithMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find product", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "feedback.products", mtest.FirstBatch, productDoc(id, 3)))

		p, err := store.FindProduct(ctx, id.Hex())
		if err != nil {
			mt.Fatalf("FindProduct returned error: %v", err)
		}
		if p == nil || p.ID != id || p.Likes != 3 || p.CompanyName != "Acme" {
			mt.Fatalf("unexpected product: %#v", p)
		}
	})

	mt.Run("find product missing", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "feedback.products", mtest.FirstBatch))

		p, err := store.FindProduct(ctx, primitive.NewObjectID().Hex())
		if err != nil || p != nil {
			mt.Fatalf("expected nil, nil; got %#v, %v", p, err)
		}
	})

	mt.Run("find product malformed id", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		if _, err := store.FindProduct(ctx, "zzz"); !errors.Is(err, ErrInvalidID) {
			mt.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	mt.Run("increment likes", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: productDoc(id, 5)}))

		p, err := store.IncrementLikes(ctx, id.Hex())
		if err != nil {
			mt.Fatalf("IncrementLikes returned error: %v", err)
		}
		if p.Likes != 5 {
			mt.Fatalf("unexpected likes: %d", p.Likes)
		}
	})

	mt.Run("increment likes missing", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		if _, err := store.IncrementLikes(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("increment comment count", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := store.IncrementCommentCount(ctx, primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("IncrementCommentCount returned error: %v", err)
		}
	})

	mt.Run("increment comment count missing product", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		if err := store.IncrementCommentCount(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("create user assigns id", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &model.User{Name: "A", Email: "a@b.com", Mobile: "1", Password: "hash"}
		if err := store.CreateUser(ctx, user); err != nil {
			mt.Fatalf("CreateUser returned error: %v", err)
		}
		if user.ID.IsZero() {
			mt.Fatal("expected id to be assigned")
		}
	})

	mt.Run("create user duplicate email", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: feedback.users index: email_1",
		}))

		err := store.CreateUser(ctx, &model.User{Email: "a@b.com"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("find user by email", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "feedback.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "A"},
			{Key: "email", Value: "a@b.com"},
			{Key: "mobile", Value: "1"},
			{Key: "password", Value: "hash"},
		}))

		user, err := store.FindUserByEmail(ctx, "a@b.com")
		if err != nil {
			mt.Fatalf("FindUserByEmail returned error: %v", err)
		}
		if user == nil || user.ID != id || user.Password != "hash" {
			mt.Fatalf("unexpected user: %#v", user)
		}
	})

	mt.Run("list comments by product", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		productID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "feedback.comments", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "productId", Value: productID}, {Key: "commentText", Value: "one"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "productId", Value: productID}, {Key: "commentText", Value: "two"}},
		))

		comments, err := store.ListComments(ctx, productID.Hex())
		if err != nil {
			mt.Fatalf("ListComments returned error: %v", err)
		}
		if len(comments) != 2 || comments[1].CommentText != "two" {
			mt.Fatalf("unexpected comments: %#v", comments)
		}
	})

	mt.Run("list products empty", func(mt *mtest.T) {
		store := NewStore(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "feedback.products", mtest.FirstBatch))

		products, err := store.ListProducts(ctx, ProductQuery{Categories: []string{"A"}})
		if err != nil {
			mt.Fatalf("ListProducts returned error: %v", err)
		}
		if products == nil || len(products) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", products)
		}
	})
}
