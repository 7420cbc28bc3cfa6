package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cast"

	"github.com/yourusername/product-feedback/internal/model"
)

// stringList は JSON の文字列配列・単一文字列の両方を受け付けます。
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("category must be a string or an array of strings")
	}
	*l = list
	return nil
}

type productRequest struct {
	ID           string     `json:"id"`
	CompanyName  string     `json:"companyName"`
	Category     stringList `json:"category"`
	ImageURL     string     `json:"imageURL"`
	ProductLink  string     `json:"productLink"`
	Description  string     `json:"description"`
	Likes        any        `json:"likes"`
	CommentCount any        `json:"commentCount"`
}

func (r productRequest) details() model.ProductDetails {
	return model.ProductDetails{
		CompanyName: r.CompanyName,
		Category:    []string(r.Category),
		ImageURL:    r.ImageURL,
		ProductLink: r.ProductLink,
		Description: r.Description,
	}
}

func (r productRequest) input() (model.ProductInput, error) {
	likes, err := optionalInt("likes", r.Likes)
	if err != nil {
		return model.ProductInput{}, err
	}
	commentCount, err := optionalInt("commentCount", r.CommentCount)
	if err != nil {
		return model.ProductInput{}, err
	}
	return model.ProductInput{
		ProductDetails: r.details(),
		Likes:          likes,
		CommentCount:   commentCount,
	}, nil
}

// bindProduct は JSON またはフォーム形式のボディを productRequest に読み込みます。
func bindProduct(c *gin.Context) (productRequest, error) {
	var req productRequest
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	req.ID = c.PostForm("id")
	req.CompanyName = c.PostForm("companyName")
	req.Category = append(c.PostFormArray("category"), c.PostFormArray("category[]")...)
	req.ImageURL = c.PostForm("imageURL")
	req.ProductLink = c.PostForm("productLink")
	req.Description = c.PostForm("description")
	if v, ok := c.GetPostForm("likes"); ok {
		req.Likes = v
	}
	if v, ok := c.GetPostForm("commentCount"); ok {
		req.CommentCount = v
	}
	return req, nil
}

type commentRequest struct {
	ProductID   string `json:"productId" form:"productId"`
	CommentText string `json:"commentText" form:"commentText"`
}

// optionalInt は数値または数値文字列を整数に変換します。未指定（nil / 空文字）は nil を返します。
func optionalInt(field string, v any) (*int, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
	case bool:
		return nil, fmt.Errorf("%s must be a number", field)
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%s must be an integer", field)
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &n, nil
}
