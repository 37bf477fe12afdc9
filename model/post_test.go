package model

import (
	"testing"
	"time"
)

func TestNewPost(t *testing.T) {
	publishedAt := time.Date(2025, 5, 21, 14, 30, 0, 0, time.Local)

	post, err := NewPost("first-post", "First Post", "A short summary.", []string{"go", "web"}, publishedAt)
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	if post.Slug != "first-post" {
		t.Errorf("Expected slug to be first-post, got %s", post.Slug)
	}
	if !post.PublishedAt.Equal(publishedAt) {
		t.Errorf("Expected PublishedAt to be %v, got %v", publishedAt, post.PublishedAt)
	}
	if post.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}
}

func TestNewPostDefaultsPublishedAt(t *testing.T) {
	// publishedAt未指定の場合は現在時刻が入る
	post, err := NewPost("draft", "Draft", "", nil, time.Time{})
	if err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if post.PublishedAt.IsZero() {
		t.Error("Expected PublishedAt to default to now")
	}
	// nilタグは空スライスに正規化される
	if post.Tags == nil {
		t.Error("Expected Tags to be normalized to an empty slice")
	}
}

func TestPostValidate(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		title   string
		tags    []string
		wantErr bool
	}{
		{name: "valid", slug: "hello-world", title: "Hello", tags: []string{"go"}, wantErr: false},
		{name: "empty slug", slug: "", title: "Hello", wantErr: true},
		{name: "uppercase slug", slug: "Hello-World", title: "Hello", wantErr: true},
		{name: "slug with slash", slug: "a/b", title: "Hello", wantErr: true},
		{name: "slug with dots", slug: "..", title: "Hello", wantErr: true},
		{name: "empty title", slug: "hello", title: "", wantErr: true},
		{name: "empty tag", slug: "hello", title: "Hello", tags: []string{""}, wantErr: true},
		{name: "tag with space", slug: "hello", title: "Hello", tags: []string{"a b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPost(tt.slug, tt.title, "", tt.tags, time.Now())
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestProjectValidate(t *testing.T) {
	if _, err := NewProject("folio", "folio", "portfolio backend", "https://github.com/mizuasagi/folio", "", 0); err != nil {
		t.Fatalf("Failed to create valid project: %v", err)
	}

	// 相対URLは拒否される
	if _, err := NewProject("folio", "folio", "", "github.com/mizuasagi/folio", "", 0); err == nil {
		t.Error("Expected error for non-absolute repo URL")
	}

	if _, err := NewProject("folio", "", "", "", "", 0); err == nil {
		t.Error("Expected error for empty name")
	}
}
