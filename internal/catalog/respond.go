package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondWithError はカタログ系ルート共通の 400 応答（"Error: <message>" の JSON 文字列）を返します。
func respondWithError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, "Error: "+err.Error())
}
