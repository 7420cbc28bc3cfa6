// Package auth はユーザー登録・ログインとトークン認証を提供します。
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/model"
	"github.com/yourusername/product-feedback/internal/storage"
)

// UserRepository はユーザーの永続化を担います。
type UserRepository interface {
	// FindUserByEmail は該当ユーザーがいなければ nil, nil を返します。
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// Manager は登録・ログイン処理とトークン検証をまとめた構造体です。
type Manager struct {
	users  UserRepository
	hasher *Hasher
	tokens *TokenIssuer
	logger *zap.Logger
}

// NewManager は認証マネージャーを作成します。logger が nil の場合はグローバルロガーを使います。
func NewManager(users UserRepository, hasher *Hasher, tokens *TokenIssuer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.L()
	}
	return &Manager{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.Named("auth"),
	}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Mobile   string `json:"mobile" form:"mobile" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Register は POST /register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all required fields"})
		return
	}

	ctx := c.Request.Context()
	existing, err := m.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		m.internalError(c, "lookup user failed", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	digest, err := m.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.internalError(c, "hash password failed", err)
		return
	}

	user, err := model.NewUser(req.Name, req.Email, req.Mobile, digest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all required fields"})
		return
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		// 参照と挿入の間に同じメールで登録された場合は一意インデックスで検出される
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		m.internalError(c, "create user failed", err)
		return
	}

	saved, err := m.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		m.internalError(c, "reload user failed", err)
		return
	}
	if saved == nil {
		m.internalError(c, "reload user failed", errors.New("registered user not found"))
		return
	}

	token, err := m.tokens.Issue(saved.ID.Hex())
	if err != nil {
		m.internalError(c, "issue token failed", err)
		return
	}

	m.logger.Info("user registered", zap.String("userId", saved.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"name":    saved.Name,
		"token":   token,
	})
}

// Login は POST /login のハンドラーです。
// 存在しないユーザーとパスワード不一致は同じレスポンスを返します。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide email and password"})
		return
	}

	user, err := m.users.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		m.logger.Error("lookup user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}
	if user == nil || !m.hasher.Verify(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := m.tokens.Issue(user.ID.Hex())
	if err != nil {
		m.logger.Error("issue token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"name":    user.Name,
		"token":   token,
	})
}

func (m *Manager) internalError(c *gin.Context, msg string, err error) {
	m.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
