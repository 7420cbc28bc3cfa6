// Package catalog は製品とコメントの HTTP ハンドラーを提供します。
package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/auth"
	"github.com/yourusername/product-feedback/internal/model"
	"github.com/yourusername/product-feedback/internal/storage"
)

// ProductRepository は製品の永続化を担います。
type ProductRepository interface {
	ListProducts(ctx context.Context, q storage.ProductQuery) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	// FindProduct は該当製品がなければ nil, nil を返します。
	FindProduct(ctx context.Context, id string) (*model.Product, error)
	UpdateProductDetails(ctx context.Context, id string, d model.ProductDetails) (*model.Product, error)
	IncrementLikes(ctx context.Context, id string) (*model.Product, error)
	IncrementCommentCount(ctx context.Context, id string) error
}

// ListProductsHandler は GET /getAllProducts のハンドラーを返します。
// category はカンマ区切りで、いずれかを含む製品に絞り込みます。sortBy の降順で並べます。
func ListProductsHandler(repo ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q storage.ProductQuery
		if raw := c.Query("category"); raw != "" {
			q.Categories = strings.Split(raw, ",")
		}
		q.SortBy = c.Query("sortBy")

		products, err := repo.ListProducts(c.Request.Context(), q)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// AddProductHandler は POST /addProduct のハンドラーを返します。認証必須です。
func AddProductHandler(repo ProductRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindProduct(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		input, err := req.input()
		if err != nil {
			respondWithError(c, err)
			return
		}
		product, err := model.NewProduct(input)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if err := repo.CreateProduct(c.Request.Context(), product); err != nil {
			respondWithError(c, err)
			return
		}

		if logger != nil {
			userID, _ := auth.UserIDFromContext(c.Request.Context())
			logger.Info("product added", zap.String("productId", product.ID.Hex()), zap.String("userId", userID))
		}
		c.JSON(http.StatusOK, "Product added!")
	}
}

// UpdateProductHandler は PUT /updateProductById のハンドラーを返します。認証必須です。
func UpdateProductHandler(repo ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindProduct(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if strings.TrimSpace(req.ID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product id is required"})
			return
		}

		details := req.details().Normalize()
		if err := details.Validate(); err != nil {
			respondWithError(c, err)
			return
		}
		if _, err := repo.UpdateProductDetails(c.Request.Context(), req.ID, details); err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
	}
}

// GetProductHandler は GET /getProductById/:id のハンドラーを返します。存在しない場合は null を返します。
func GetProductHandler(repo ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := repo.FindProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// LikeProductHandler は PUT /increaseLikeById/:id/like のハンドラーを返します。
func LikeProductHandler(repo ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := repo.IncrementLikes(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
