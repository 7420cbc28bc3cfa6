package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserKey は、ハンドラー間で認証済みユーザーIDを共有するための gin コンテキストのキーです。
const ContextUserKey = "auth.userId"

type userIDKey struct{}

// WithUserID は userID を保持した context を返します。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext は RequireToken が設定した userID を取り出します。
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RequireToken は Authorization: Bearer <token> を検証するミドルウェアを返します。
// ユーザーが現存するかは確認しません。
func (m *Manager) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Debug("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
