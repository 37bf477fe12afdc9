// Package api はfolioのAPIサーバー実装を提供します。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mizuasagi/folio/config"
	"github.com/mizuasagi/folio/content"
	"github.com/mizuasagi/folio/heatmap"
	"github.com/mizuasagi/folio/mailer"
	"github.com/mizuasagi/folio/model"
	"github.com/mizuasagi/folio/store"
)

// ActivitySource は直近1年分のアクティビティレポートの取得元です。
// 取得は常に成功する契約で、失敗はソース側で吸収されます。
type ActivitySource interface {
	Fetch(ctx context.Context) *model.ActivityReport
}

// Server はAPIサーバーの構造体です。
type Server struct {
	router   *http.ServeMux
	handler  http.Handler
	store    store.Store
	content  *content.Loader
	activity ActivitySource
	mailer   mailer.Mailer
	config   *config.Config
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(store store.Store, content *content.Loader, activity ActivitySource, mailer mailer.Mailer, config *config.Config) *Server {
	s := &Server{
		router:   http.NewServeMux(),
		store:    store,
		content:  content,
		activity: activity,
		mailer:   mailer,
		config:   config,
	}
	s.routes()
	s.handler = s.metricsMiddleware(s.router)
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックとメトリクスは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)
	s.router.Handle("GET /metrics", promhttp.Handler())

	// 公開エンドポイント
	s.router.HandleFunc("GET /api/activity", s.handleGetActivity)
	s.router.HandleFunc("GET /api/activity/grid", s.handleGetActivityGrid)
	s.router.HandleFunc("POST /api/contact", s.handleContact)
	s.router.HandleFunc("GET /api/posts", s.handleListPosts)
	s.router.HandleFunc("GET /api/posts/{slug}", s.handleGetPost)
	s.router.HandleFunc("GET /api/projects", s.handleListProjects)

	// 管理エンドポイントは認証ミドルウェアの背後に置く
	adminHandler := http.NewServeMux()
	adminHandler.HandleFunc("POST /api/admin/posts", s.handleCreatePost)
	adminHandler.HandleFunc("PUT /api/admin/posts/{slug}", s.handleUpdatePost)
	adminHandler.HandleFunc("DELETE /api/admin/posts/{slug}", s.handleDeletePost)
	adminHandler.HandleFunc("POST /api/admin/projects", s.handleCreateProject)
	adminHandler.HandleFunc("PUT /api/admin/projects/{slug}", s.handleUpdateProject)
	adminHandler.HandleFunc("DELETE /api/admin/projects/{slug}", s.handleDeleteProject)
	s.router.Handle("/api/admin/", s.authMiddleware(adminHandler))

	// Graph endpoint - サーバーサイドで描画したヒートマップSVG
	s.router.HandleFunc("GET /activity/graph.svg", s.handleGetActivityGraph)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := map[string]string{"status": "ok"}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleGetActivity は直近1年分のアクティビティを返すハンドラーです。
// 上流の失敗はすべてソース側で吸収されるため、このエンドポイントは常に200を返します。
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	report := s.activity.Fetch(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// GetActivityGridParams represents parameters for getting the activity grid.
type GetActivityGridParams struct {
	Mode heatmap.LayoutMode
}

// NewGetActivityGridParams creates parameters for grid retrieval from HTTP request.
func NewGetActivityGridParams(r *http.Request) (*GetActivityGridParams, error) {
	mode := heatmap.LayoutWide
	switch r.URL.Query().Get("layout") {
	case "", "wide":
		// デフォルトは広い画面向けのパーセント配置
	case "narrow":
		mode = heatmap.LayoutNarrow
	default:
		return nil, fmt.Errorf("layout must be either narrow or wide")
	}
	return &GetActivityGridParams{Mode: mode}, nil
}

// ActivityGridResponse はグリッドエンドポイントのレスポンスです。
type ActivityGridResponse struct {
	Weeks       []heatmap.Week        `json:"weeks"`
	MaxVal      int                   `json:"maxVal"`
	Total       int                   `json:"totalContributions"`
	MonthLabels []heatmap.PlacedLabel `json:"monthLabels"`
}

// handleGetActivityGrid は描画用に整形済みのカレンダーグリッドを返すハンドラーです。
func (s *Server) handleGetActivityGrid(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewGetActivityGridParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := s.activity.Fetch(r.Context())
	grid := heatmap.BuildGrid(report.ByDate, time.Now())

	response := &ActivityGridResponse{
		Weeks:       grid.Weeks,
		MaxVal:      grid.MaxVal,
		Total:       grid.Total,
		MonthLabels: heatmap.PlaceMonthLabels(grid, params.Mode),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleGetActivityGraph はヒートマップSVGを生成・返却するハンドラーです。
func (s *Server) handleGetActivityGraph(w http.ResponseWriter, r *http.Request) {
	report := s.activity.Fetch(r.Context())
	grid := heatmap.BuildGrid(report.ByDate, time.Now())

	title := "Activity"
	if s.config.GitHubUser != "" {
		title = s.config.GitHubUser
	}
	opts := &heatmap.Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		Colors:      []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
		Title:       title,
	}
	svg := heatmap.RenderSVG(grid, opts)

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

// ContactParams represents parameters for submitting the contact form.
type ContactParams struct {
	Message *model.ContactMessage
}

// NewContactParams creates parameters for contact submission from HTTP request.
func NewContactParams(r *http.Request) (*ContactParams, error) {
	var requestBody struct {
		FirstName string `json:"firstName"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	msg, err := model.NewContactMessage(requestBody.FirstName, requestBody.Phone, requestBody.Email, requestBody.Message)
	if err != nil {
		return nil, err
	}

	return &ContactParams{Message: msg}, nil
}

// handleContact はお問い合わせフォームの送信をハンドリングします。
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewContactParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// メール中継が未設定の場合は送信失敗として扱う
	if s.mailer == nil {
		log.Printf("Contact relay is not configured; dropping message %s", params.Message.ID)
		writeJSONError(w, "Failed to send message. Please try again later or reach out directly.", http.StatusInternalServerError)
		return
	}

	if err := s.mailer.Send(r.Context(), params.Message); err != nil {
		log.Printf("Error sending contact mail %s: %v", params.Message.ID, err)
		writeJSONError(w, "Failed to send message. Please try again later or reach out directly.", http.StatusInternalServerError)
		return
	}

	// 成功レスポンスの返却
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := map[string]string{
		"status": "sent",
		"id":     params.Message.ID.String(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// ListPostsResponse は記事一覧取得のレスポンスです。
type ListPostsResponse struct {
	Items []*model.Post `json:"items"`
}

// handleListPosts は記事一覧取得をハンドリングします。
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		log.Printf("Error retrieving posts: %v", err)
		writeJSONError(w, "Failed to retrieve posts", http.StatusInternalServerError)
		return
	}

	// レスポンスの構築
	response := &ListPostsResponse{Items: posts}
	// 空配列を返すためにnilチェック
	if response.Items == nil {
		response.Items = []*model.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// GetPostParams represents parameters for getting a post.
type GetPostParams struct {
	Slug *model.Slug
}

// NewGetPostParams creates parameters for post retrieval from HTTP request.
func NewGetPostParams(r *http.Request) (*GetPostParams, error) {
	slug, err := model.NewSlug(r.PathValue("slug"))
	if err != nil {
		return nil, fmt.Errorf("invalid slug: %w", err)
	}
	return &GetPostParams{Slug: slug}, nil
}

// PostDetailResponse は記事詳細のレスポンスです。
// Bodyはコンテンツディレクトリから読み込んだHTMLフラグメントで、
// フラグメントが未作成の場合はPendingがtrueになります。
type PostDetailResponse struct {
	*model.Post
	Body    string `json:"body"`
	Pending bool   `json:"pending"`
}

// handleGetPost は記事詳細（メタデータ＋本文）を取得するハンドラーです。
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewGetPostParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := s.store.GetPost(r.Context(), params.Slug.String())
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			writeJSONError(w, "Post not found", http.StatusNotFound)
		} else {
			log.Printf("Error retrieving post: %v", err)
			writeJSONError(w, "Failed to retrieve post", http.StatusInternalServerError)
		}
		return
	}

	// 本文フラグメントの読み込み（存在しない場合は「本文準備中」）
	body, found, err := s.content.Fragment(params.Slug)
	if err != nil {
		log.Printf("Error reading content fragment: %v", err)
		writeJSONError(w, "Failed to read post body", http.StatusInternalServerError)
		return
	}

	response := &PostDetailResponse{
		Post:    post,
		Body:    body,
		Pending: !found,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// CreatePostParams represents parameters for creating a post.
type CreatePostParams struct {
	Post *model.Post
}

// NewCreatePostParams creates parameters for post creation from HTTP request.
func NewCreatePostParams(r *http.Request) (*CreatePostParams, error) {
	var requestBody struct {
		Slug        string   `json:"slug"`
		Title       string   `json:"title"`
		Summary     string   `json:"summary"`
		Tags        []string `json:"tags"`
		PublishedAt string   `json:"published_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	var publishedAt time.Time
	if requestBody.PublishedAt != "" {
		var err error
		publishedAt, err = time.Parse(time.RFC3339, requestBody.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid published_at. Use ISO8601 format (YYYY-MM-DDThh:mm:ssZ)")
		}
	}

	post, err := model.NewPost(requestBody.Slug, requestBody.Title, requestBody.Summary, requestBody.Tags, publishedAt)
	if err != nil {
		return nil, err
	}

	return &CreatePostParams{Post: post}, nil
}

// handleCreatePost は記事作成をハンドリングします。
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewCreatePostParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// データベースに保存
	if err := s.store.CreatePost(r.Context(), params.Post); err != nil {
		log.Printf("Error creating post: %v", err)
		writeJSONError(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(params.Post); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleUpdatePost は記事更新をハンドリングします。
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	slug, err := model.NewSlug(r.PathValue("slug"))
	if err != nil {
		writeJSONError(w, "Invalid slug", http.StatusBadRequest)
		return
	}

	// 既存記事の取得
	existingPost, err := s.store.GetPost(r.Context(), slug.String())
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			writeJSONError(w, "Post not found", http.StatusNotFound)
		} else {
			log.Printf("Error retrieving post: %v", err)
			writeJSONError(w, "Failed to retrieve post", http.StatusInternalServerError)
		}
		return
	}

	// JSONのパース（部分更新をサポートするためポインタ型を使用）
	var updateData struct {
		Title       *string  `json:"title"`
		Summary     *string  `json:"summary"`
		Tags        []string `json:"tags"`
		PublishedAt *string  `json:"published_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		writeJSONError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	// 指定されたフィールドのみ更新
	if updateData.Title != nil {
		existingPost.Title = *updateData.Title
	}
	if updateData.Summary != nil {
		existingPost.Summary = *updateData.Summary
	}
	// nil の場合は既存のタグを保持、空配列の場合はタグをクリア
	if updateData.Tags != nil {
		existingPost.Tags = updateData.Tags
	}
	if updateData.PublishedAt != nil {
		publishedAt, err := time.Parse(time.RFC3339, *updateData.PublishedAt)
		if err != nil {
			writeJSONError(w, "invalid published_at. Use ISO8601 format (YYYY-MM-DDThh:mm:ssZ)", http.StatusBadRequest)
			return
		}
		existingPost.PublishedAt = publishedAt
	}
	existingPost.UpdatedAt = time.Now()

	// バリデーション
	if err := existingPost.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// データベースに保存
	if err := s.store.UpdatePost(r.Context(), existingPost); err != nil {
		log.Printf("Error updating post: %v", err)
		writeJSONError(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(existingPost); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleDeletePost は記事削除をハンドリングします。
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	slug, err := model.NewSlug(r.PathValue("slug"))
	if err != nil {
		writeJSONError(w, "Invalid slug", http.StatusBadRequest)
		return
	}

	if err := s.store.DeletePost(r.Context(), slug.String()); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			writeJSONError(w, "Post not found", http.StatusNotFound)
		} else {
			log.Printf("Error deleting post: %v", err)
			writeJSONError(w, "Failed to delete post", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProjectsResponse はプロジェクト一覧取得のレスポンスです。
type ListProjectsResponse struct {
	Items []*model.Project `json:"items"`
}

// handleListProjects はプロジェクト一覧取得をハンドリングします。
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		log.Printf("Error retrieving projects: %v", err)
		writeJSONError(w, "Failed to retrieve projects", http.StatusInternalServerError)
		return
	}

	response := &ListProjectsResponse{Items: projects}
	// 空配列を返すためにnilチェック
	if response.Items == nil {
		response.Items = []*model.Project{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleCreateProject はプロジェクト作成をハンドリングします。
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var projectData struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
		RepoURL     string `json:"repo_url"`
		SiteURL     string `json:"site_url"`
		Rank        int    `json:"rank"`
	}
	if err := json.NewDecoder(r.Body).Decode(&projectData); err != nil {
		writeJSONError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	project, err := model.NewProject(projectData.Slug, projectData.Name, projectData.Description,
		projectData.RepoURL, projectData.SiteURL, projectData.Rank)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("Invalid project data: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.store.CreateProject(r.Context(), project); err != nil {
		log.Printf("Error creating project: %v", err)
		writeJSONError(w, "Failed to create project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(project); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleUpdateProject はプロジェクト更新をハンドリングします。
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	slug, err := model.NewSlug(r.PathValue("slug"))
	if err != nil {
		writeJSONError(w, "Invalid slug", http.StatusBadRequest)
		return
	}

	existingProject, err := s.store.GetProject(r.Context(), slug.String())
	if err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			writeJSONError(w, fmt.Sprintf("Project with slug %s not found", slug), http.StatusNotFound)
		} else {
			writeJSONError(w, fmt.Sprintf("Error retrieving project: %v", err), http.StatusInternalServerError)
		}
		return
	}

	// JSONのパース（部分更新をサポートするためポインタ型を使用）
	var updateData struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		RepoURL     *string `json:"repo_url"`
		SiteURL     *string `json:"site_url"`
		Rank        *int    `json:"rank"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		writeJSONError(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if updateData.Name != nil {
		existingProject.Name = *updateData.Name
	}
	if updateData.Description != nil {
		existingProject.Description = *updateData.Description
	}
	if updateData.RepoURL != nil {
		existingProject.RepoURL = *updateData.RepoURL
	}
	if updateData.SiteURL != nil {
		existingProject.SiteURL = *updateData.SiteURL
	}
	if updateData.Rank != nil {
		existingProject.Rank = *updateData.Rank
	}
	existingProject.UpdatedAt = time.Now()

	// バリデーション
	if err := existingProject.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateProject(r.Context(), existingProject); err != nil {
		log.Printf("Error updating project: %v", err)
		writeJSONError(w, "Failed to update project", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(existingProject); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleDeleteProject はプロジェクト削除をハンドリングします。
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	slug, err := model.NewSlug(r.PathValue("slug"))
	if err != nil {
		writeJSONError(w, "Invalid slug", http.StatusBadRequest)
		return
	}

	// プロジェクト削除の実行（べき等性：既に存在しない場合もエラーにしない）
	if err := s.store.DeleteProject(r.Context(), slug.String()); err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		log.Printf("Error deleting project: %v", err)
		writeJSONError(w, fmt.Sprintf("Failed to delete project: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Run はサーバーを指定されたアドレスで起動します。
func (s *Server) Run(addr string) error {
	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, s)
}
