// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mizuasagi/folio/model"
)

// PostStore はブログ記事メタデータの保存と取得を行うインターフェースです。
type PostStore interface {
	// CreatePost は新しい記事を作成します。
	CreatePost(ctx context.Context, post *model.Post) error
	// GetPost は指定されたスラグの記事を取得します。
	GetPost(ctx context.Context, slug string) (*model.Post, error)
	// UpdatePost は指定されたスラグの記事を更新します。
	UpdatePost(ctx context.Context, post *model.Post) error
	// DeletePost は指定されたスラグの記事を削除します。
	DeletePost(ctx context.Context, slug string) error
	// ListPosts はすべての記事を公開日の降順で取得します。
	ListPosts(ctx context.Context) ([]*model.Post, error)
}

// ProjectStore はプロジェクトの保存と取得を行うインターフェースです。
type ProjectStore interface {
	// CreateProject は新しいプロジェクトを作成します。
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject は指定されたスラグのプロジェクトを取得します。
	GetProject(ctx context.Context, slug string) (*model.Project, error)
	// UpdateProject は指定されたプロジェクトを更新します。
	UpdateProject(ctx context.Context, project *model.Project) error
	// DeleteProject は指定されたスラグのプロジェクトを削除します。
	DeleteProject(ctx context.Context, slug string) error
	// ListProjects はすべてのプロジェクトを表示順で取得します。
	ListProjects(ctx context.Context) ([]*model.Project, error)
}

// Store はアプリケーションの全ストアを束ねるインターフェースです。
type Store interface {
	PostStore
	ProjectStore
	// Close はストアの接続を閉じます。
	Close() error
}

// SQLiteStore はSQLiteを使用したStoreの実装です。
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore は新しいSQLiteStoreを作成します。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// SQLiteデータベースファイルのパス
	dbPath := filepath.Join(dataDir, "folio.db")

	// SQLiteデータベースへの接続
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// マイグレーションの実行
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// CreatePost は新しい記事を作成します。
func (s *SQLiteStore) CreatePost(ctx context.Context, post *model.Post) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (slug, title, summary, published_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		post.Slug, post.Title, post.Summary,
		post.PublishedAt.UTC().Format(time.RFC3339),
		post.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err := insertPostTags(ctx, tx, post.Slug, post.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPost は指定されたスラグの記事を取得します。
func (s *SQLiteStore) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT slug, title, summary, published_at, updated_at FROM posts WHERE slug = ?`, slug)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, err
	}

	tags, err := s.getPostTags(ctx, slug)
	if err != nil {
		return nil, err
	}
	post.Tags = tags
	return post, nil
}

// UpdatePost は指定されたスラグの記事を更新します。
func (s *SQLiteStore) UpdatePost(ctx context.Context, post *model.Post) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE posts SET title = ?, summary = ?, published_at = ?, updated_at = ? WHERE slug = ?`,
		post.Title, post.Summary,
		post.PublishedAt.UTC().Format(time.RFC3339),
		post.UpdatedAt.UTC().Format(time.RFC3339),
		post.Slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrPostNotFound
	}

	// タグは全入れ替え
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_slug = ?`, post.Slug); err != nil {
		return fmt.Errorf("failed to clear post tags: %w", err)
	}
	if err := insertPostTags(ctx, tx, post.Slug, post.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePost は指定されたスラグの記事を削除します。
func (s *SQLiteStore) DeletePost(ctx context.Context, slug string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// ListPosts はすべての記事を公開日の降順で取得します。
func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*model.Post, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT slug, title, summary, published_at, updated_at FROM posts ORDER BY published_at DESC, slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	for _, post := range posts {
		tags, err := s.getPostTags(ctx, post.Slug)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	return posts, nil
}

// getPostTags は記事のタグ一覧を取得します。
func (s *SQLiteStore) getPostTags(ctx context.Context, slug string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT tag FROM post_tags WHERE post_slug = ? ORDER BY tag ASC`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query post tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

func insertPostTags(ctx context.Context, tx *sql.Tx, slug string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_slug, tag) VALUES (?, ?)`, slug, tag); err != nil {
			return fmt.Errorf("failed to insert post tag: %w", err)
		}
	}
	return nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通部分です。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var post model.Post
	var publishedAt, updatedAt string
	if err := row.Scan(&post.Slug, &post.Title, &post.Summary, &publishedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	var err error
	post.PublishedAt, err = time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse published_at: %w", err)
	}
	post.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &post, nil
}

// CreateProject は新しいプロジェクトを作成します。
func (s *SQLiteStore) CreateProject(ctx context.Context, project *model.Project) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO projects (slug, name, description, repo_url, site_url, rank, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.Slug, project.Name, project.Description, project.RepoURL, project.SiteURL, project.Rank,
		project.CreatedAt.UTC().Format(time.RFC3339),
		project.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetProject は指定されたスラグのプロジェクトを取得します。
func (s *SQLiteStore) GetProject(ctx context.Context, slug string) (*model.Project, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT slug, name, description, repo_url, site_url, rank, created_at, updated_at
		 FROM projects WHERE slug = ?`, slug)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// UpdateProject は指定されたプロジェクトを更新します。
func (s *SQLiteStore) UpdateProject(ctx context.Context, project *model.Project) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, repo_url = ?, site_url = ?, rank = ?, updated_at = ?
		 WHERE slug = ?`,
		project.Name, project.Description, project.RepoURL, project.SiteURL, project.Rank,
		project.UpdatedAt.UTC().Format(time.RFC3339),
		project.Slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// DeleteProject は指定されたスラグのプロジェクトを削除します。
func (s *SQLiteStore) DeleteProject(ctx context.Context, slug string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if affected == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// ListProjects はすべてのプロジェクトを表示順（rank昇順）で取得します。
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT slug, name, description, repo_url, site_url, rank, created_at, updated_at
		 FROM projects ORDER BY rank ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (*model.Project, error) {
	var project model.Project
	var createdAt, updatedAt string
	if err := row.Scan(&project.Slug, &project.Name, &project.Description,
		&project.RepoURL, &project.SiteURL, &project.Rank, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	var err error
	project.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	project.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &project, nil
}
