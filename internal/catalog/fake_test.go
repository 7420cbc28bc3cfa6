package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/product-feedback/internal/model"
	"github.com/yourusername/product-feedback/internal/storage"
)

// memoryStore はテスト用のインメモリ実装です。
type memoryStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*model.Product
	comments []model.Comment

	incrementErr error
	listErr      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{products: map[primitive.ObjectID]*model.Product{}}
}

func (s *memoryStore) seed(p model.Product) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products[p.ID] = &p
	return p.ID
}

func (s *memoryStore) get(id primitive.ObjectID) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.products[id]
}

func (s *memoryStore) ListProducts(ctx context.Context, q storage.ProductQuery) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	wanted := model.NormalizeCategories(q.Categories)
	out := []model.Product{}
	for _, p := range s.products {
		if len(wanted) > 0 && !intersects(p.Category, wanted) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	return out, nil
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (s *memoryStore) CreateProduct(ctx context.Context, p *model.Product) error {
	p.ID = primitive.NewObjectID()
	s.seed(*p)
	return nil
}

func (s *memoryStore) FindProduct(ctx context.Context, id string) (*model.Product, error) {
	oid, err := storage.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[oid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memoryStore) UpdateProductDetails(ctx context.Context, id string, d model.ProductDetails) (*model.Product, error) {
	oid, err := storage.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[oid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.CompanyName = d.CompanyName
	p.Category = d.Category
	p.ImageURL = d.ImageURL
	p.ProductLink = d.ProductLink
	p.Description = d.Description
	cp := *p
	return &cp, nil
}

func (s *memoryStore) IncrementLikes(ctx context.Context, id string) (*model.Product, error) {
	oid, err := storage.ParseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[oid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.Likes++
	cp := *p
	return &cp, nil
}

func (s *memoryStore) IncrementCommentCount(ctx context.Context, id string) error {
	oid, err := storage.ParseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrementErr != nil {
		return s.incrementErr
	}
	p, ok := s.products[oid]
	if !ok {
		return storage.ErrNotFound
	}
	p.CommentCount++
	return nil
}

func (s *memoryStore) ListComments(ctx context.Context, productID string) ([]model.Comment, error) {
	var filter primitive.ObjectID
	if productID != "" {
		oid, err := storage.ParseID(productID)
		if err != nil {
			return nil, err
		}
		filter = oid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range s.comments {
		if !filter.IsZero() && c.ProductID != filter {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *memoryStore) CreateComment(ctx context.Context, c *model.Comment) error {
	c.ID = primitive.NewObjectID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, *c)
	return nil
}

type stubScheduler struct {
	calls [][2]string
	err   error
}

func (s *stubScheduler) ScheduleCommentCount(ctx context.Context, commentID, productID string) error {
	s.calls = append(s.calls, [2]string{commentID, productID})
	return s.err
}

var errStoreDown = errors.New("store unavailable")
