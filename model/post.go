// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"strings"
	"time"
)

// Post はブログ記事のメタデータを表すモデルです。
// 本文のHTMLフラグメントはコンテンツディレクトリにスラグをキーとして置かれ、
// このモデルには含まれません。
type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPost はPostの新しいインスタンスを作成します。
func NewPost(slug, title, summary string, tags []string, publishedAt time.Time) (*Post, error) {
	if tags == nil {
		tags = []string{}
	}
	now := time.Now()
	if publishedAt.IsZero() {
		publishedAt = now
	}
	post := &Post{
		Slug:        slug,
		Title:       title,
		Summary:     summary,
		Tags:        tags,
		PublishedAt: publishedAt,
		UpdatedAt:   now,
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// Validate は記事メタデータのバリデーションを行います。
func (p *Post) Validate() error {
	if _, err := NewSlug(p.Slug); err != nil {
		return NewValidationError("invalid slug: " + err.Error())
	}
	if p.Title == "" {
		return NewValidationError("title is required")
	}
	if p.PublishedAt.IsZero() {
		return NewValidationError("published_at is required")
	}

	// タグの検証
	for _, tag := range p.Tags {
		if tag == "" {
			return NewValidationError("tag cannot be empty")
		}
		// スペースは区切り文字として使用するため禁止
		if strings.Contains(tag, " ") {
			return NewValidationError("tag cannot contain spaces")
		}
	}

	return nil
}
