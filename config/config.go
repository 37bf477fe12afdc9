// Package config はアプリケーション設定を管理します。
package config

import (
	"os"
	"path/filepath"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string

	// ブログ本文（HTMLフラグメント）を格納するディレクトリ
	ContentDir string

	// HTTPサーバーのポート
	Port string

	// 管理API認証トークン（未設定の場合、管理エンドポイントは無効）
	AdminToken string

	// GitHubコントリビューション取得用の設定
	// どちらかが空の場合、外部APIへの問い合わせ自体を行わない
	GitHubToken string
	GitHubUser  string

	// お問い合わせフォームのメール中継設定
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
	MailTo   string
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() *Config {
	// データディレクトリの設定
	dataDir := os.Getenv("FOLIO_DATA_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(".", "data")
	}

	// コンテンツディレクトリの設定
	contentDir := os.Getenv("FOLIO_CONTENT_DIR")
	if contentDir == "" {
		contentDir = filepath.Join(".", "content")
	}

	// ポートの設定
	port := os.Getenv("FOLIO_SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	smtpPort := os.Getenv("FOLIO_SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	// GitHub認証情報は任意設定。未設定はエラーではなく、
	// アクティビティ集約がフォールバックデータへ縮退するだけ。
	return &Config{
		DataDir:     dataDir,
		ContentDir:  contentDir,
		Port:        port,
		AdminToken:  os.Getenv("FOLIO_ADMIN_TOKEN"),
		GitHubToken: os.Getenv("FOLIO_GITHUB_TOKEN"),
		GitHubUser:  os.Getenv("FOLIO_GITHUB_USER"),
		SMTPHost:    os.Getenv("FOLIO_SMTP_HOST"),
		SMTPPort:    smtpPort,
		SMTPUser:    os.Getenv("FOLIO_SMTP_USER"),
		SMTPPass:    os.Getenv("FOLIO_SMTP_PASS"),
		MailFrom:    os.Getenv("FOLIO_MAIL_FROM"),
		MailTo:      os.Getenv("FOLIO_MAIL_TO"),
	}
}
