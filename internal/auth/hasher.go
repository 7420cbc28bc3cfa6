package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost は bcrypt のワークファクタです。
const DefaultCost = 10

// ErrPasswordTooLong は bcrypt が扱える 72 バイトを超えるパスワードを表します。
var ErrPasswordTooLong = errors.New("password must be 72 bytes or fewer")

// Hasher はパスワードのハッシュ化と照合を行います。
type Hasher struct {
	cost int
}

// NewHasher は DefaultCost を使う Hasher を返します。
func NewHasher() *Hasher {
	return &Hasher{cost: DefaultCost}
}

// NewHasherWithCost は任意のコストで Hasher を返します。テストでは bcrypt.MinCost を使ってください。
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash はソルト付きの一方向ハッシュを生成します。
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify は平文とダイジェストが一致するかを返します。不一致や不正なダイジェストは false です。
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
