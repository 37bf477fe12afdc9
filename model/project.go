// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"net/url"
	"time"
)

// Project はポートフォリオに掲載するプロジェクトを表すモデルです。
type Project struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url,omitempty"`
	SiteURL     string    `json:"site_url,omitempty"`
	Rank        int       `json:"rank"` // 表示順（小さいほど先頭）
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject はProjectの新しいインスタンスを作成します。
func NewProject(slug, name, description, repoURL, siteURL string, rank int) (*Project, error) {
	now := time.Now()
	project := &Project{
		Slug:        slug,
		Name:        name,
		Description: description,
		RepoURL:     repoURL,
		SiteURL:     siteURL,
		Rank:        rank,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	return project, nil
}

// Validate はプロジェクトのデータバリデーションを行います。
func (p *Project) Validate() error {
	if _, err := NewSlug(p.Slug); err != nil {
		return NewValidationError("invalid slug: " + err.Error())
	}
	if p.Name == "" {
		return NewValidationError("name is required")
	}
	for _, u := range []string{p.RepoURL, p.SiteURL} {
		if u == "" {
			continue
		}
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return NewValidationError("url must be an absolute http(s) URL")
		}
	}
	return nil
}
