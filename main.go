// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"log"

	"github.com/mizuasagi/folio/activity"
	"github.com/mizuasagi/folio/api"
	"github.com/mizuasagi/folio/config"
	"github.com/mizuasagi/folio/content"
	"github.com/mizuasagi/folio/db"
	"github.com/mizuasagi/folio/mailer"
	"github.com/mizuasagi/folio/store"
)

func main() {
	// 設定の読み込み
	cfg := config.NewConfig()

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		log.Fatalf("Failed to initialize SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	// ブログ本文フラグメントのローダー
	loader := content.NewLoader(cfg.ContentDir)

	// GitHubの認証情報が揃っている場合のみ上流ソースを有効化する
	var source activity.Fetcher
	if cfg.GitHubToken != "" && cfg.GitHubUser != "" {
		source = activity.NewGitHubClient(cfg.GitHubToken, cfg.GitHubUser)
	} else {
		log.Printf("GitHub credentials are not set; activity falls back to synthetic data")
	}
	aggregator := activity.NewAggregator(source, nil, nil)

	// SMTP中継の初期化（未設定の場合はお問い合わせ送信が失敗として扱われる）
	var relay mailer.Mailer
	if cfg.SMTPHost != "" {
		smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.MailTo)
		if err != nil {
			log.Fatalf("Failed to initialize SMTP mailer: %v", err)
		}
		relay = smtpMailer
	} else {
		log.Printf("SMTP relay is not configured; contact submissions will be rejected")
	}

	// サーバーインスタンスの作成
	server := api.NewServer(sqliteStore, loader, aggregator, relay, cfg)

	// サーバーの起動
	log.Fatal(server.Run(":" + cfg.Port))
}
