// Package model はドキュメントストアに保存するレコード型と、その生成時の検証・既定値適用を提供します。
package model

import (
	"fmt"
	"strings"
)

// ValidationError は必須項目の欠落など、レコード生成時の検証エラーです。
type ValidationError struct {
	Model  string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(e.Fields, ", "))
}

type fieldChecker struct {
	model  string
	fields []string
}

func (c *fieldChecker) require(name, value string) {
	if strings.TrimSpace(value) == "" {
		c.fields = append(c.fields, name+" is required")
	}
}

func (c *fieldChecker) fail(name, reason string) {
	c.fields = append(c.fields, name+" "+reason)
}

func (c *fieldChecker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Model: c.model, Fields: c.fields}
}
