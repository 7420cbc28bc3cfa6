// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// 認証設定
	JWTSecret string // トークン署名用の秘密鍵（必須）

	// ドキュメントストア設定
	MongoURL      string // MongoDB 接続文字列（必須）
	MongoDatabase string // URL にデータベース名が含まれない場合に使うデータベース名

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り、"*" で全許可）

	// 静的ファイル
	PublicDir string // 静的ファイルの公開ディレクトリ

	// ジョブ/キュー設定
	QueueRedisURL string // コメント数加算リトライ用のRedis接続URL（空なら無効）

	// ログ設定
	LogLevel string // debug, info, warn, error
	LogMode  string // development または production
	LogFile  string // 指定時はローテーション付きでファイルにも出力
}

// Load は環境変数から設定を読み込みます。
// .env.local / .env ファイルが存在する場合はそこから読み込みます（既存の環境変数が優先されます）。
func Load() (*Config, error) {
	loadEnvFiles()

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MongoURL:      getEnv("MONGODB_URL", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "feedback"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		PublicDir: getEnv("PUBLIC_DIR", "./public"),

		QueueRedisURL: getEnv("QUEUE_REDIS_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogMode:  getEnv("LOG_MODE", "development"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFiles() {
	// godotenv.Load は既に設定済みの変数を上書きしないため、先に読んだファイルが優先されます
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err == nil {
			continue
		}

		cwd, err := os.Getwd()
		if err != nil {
			continue
		}
		parent := filepath.Dir(cwd)
		if parent == "" || parent == cwd {
			continue
		}
		_ = godotenv.Load(filepath.Join(parent, name))
	}
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.MongoURL == "" {
		errs = append(errs, errors.New("MONGODB_URL is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	return errors.Join(errs...)
}

// AllowedOrigins は CORS_ALLOWED_ORIGINS を配列に変換します。空要素は除外します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// QueueEnabled はリトライキューが設定されているかを返します。
func (c *Config) QueueEnabled() bool {
	return strings.TrimSpace(c.QueueRedisURL) != ""
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
