package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product はカタログに掲載される製品です。
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	Category     []string           `bson:"category" json:"category"`
	ImageURL     string             `bson:"imageURL" json:"imageURL"`
	ProductLink  string             `bson:"productLink" json:"productLink"`
	Description  string             `bson:"description" json:"description"`
	Likes        int                `bson:"likes" json:"likes"`
	CommentCount int                `bson:"commentCount" json:"commentCount"`
}

// ProductDetails は作成・更新で上書きされる項目です。カウンタ類は含みません。
type ProductDetails struct {
	CompanyName string
	Category    []string
	ImageURL    string
	ProductLink string
	Description string
}

// Normalize はカテゴリの前後空白と空要素を取り除いたコピーを返します。
func (d ProductDetails) Normalize() ProductDetails {
	d.Category = NormalizeCategories(d.Category)
	return d
}

// Validate は必須項目がそろっているかを検証します。
func (d ProductDetails) Validate() error {
	check := fieldChecker{model: "Product"}
	check.require("companyName", d.CompanyName)
	if len(NormalizeCategories(d.Category)) == 0 {
		check.fail("category", "is required")
	}
	check.require("imageURL", d.ImageURL)
	check.require("productLink", d.ProductLink)
	check.require("description", d.Description)
	return check.err()
}

// ProductInput は新規作成時の入力です。Likes / CommentCount は未指定なら 0 になります。
type ProductInput struct {
	ProductDetails
	Likes        *int
	CommentCount *int
}

// NewProduct は入力を検証し、既定値を適用した Product を返します。
func NewProduct(in ProductInput) (*Product, error) {
	details := in.ProductDetails.Normalize()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	check := fieldChecker{model: "Product"}
	if in.Likes != nil && *in.Likes < 0 {
		check.fail("likes", "must not be negative")
	}
	if in.CommentCount != nil && *in.CommentCount < 0 {
		check.fail("commentCount", "must not be negative")
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	p := &Product{
		CompanyName: details.CompanyName,
		Category:    details.Category,
		ImageURL:    details.ImageURL,
		ProductLink: details.ProductLink,
		Description: details.Description,
	}
	p.applyDefaults(in)
	return p, nil
}

func (p *Product) applyDefaults(in ProductInput) {
	p.Likes = 0
	if in.Likes != nil {
		p.Likes = *in.Likes
	}
	p.CommentCount = 0
	if in.CommentCount != nil {
		p.CommentCount = *in.CommentCount
	}
	if p.Category == nil {
		p.Category = []string{}
	}
}

// NormalizeCategories は各要素を trim し、空要素を除外します。
func NormalizeCategories(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
