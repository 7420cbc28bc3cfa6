// Package static は公開ディレクトリの静的ファイル配信を提供します。
package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// Handler はどのルートにも一致しなかったリクエストを処理します。
// GET/HEAD は root 配下のファイルを返し、それ以外や存在しないパスは 404 を返します。
func Handler(root string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}

		file, ok := resolve(root, c.Request.URL.Path)
		if !ok {
			notFound(c)
			return
		}

		if mtype, err := mimetype.DetectFile(file); err == nil {
			c.Header("Content-Type", contentType(file, mtype))
		}
		c.File(file)
	}
}

// resolve はリクエストパスを root 配下のファイルパスに変換します。
// ディレクトリの場合は index.html を探します。
func resolve(root, requestPath string) (string, bool) {
	if root == "" {
		return "", false
	}
	clean := path.Clean("/" + requestPath)
	full := filepath.Join(root, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		full = filepath.Join(full, indexFile)
		info, err = os.Stat(full)
		if err != nil || info.IsDir() {
			return "", false
		}
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return full, true
}

// contentType は拡張子の方が正確な種類（CSS/JS など）を優先します。
func contentType(file string, detected *mimetype.MIME) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	}
	return detected.String()
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
}
