package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledge-platform/internal/audit"
	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/chat"
	"knowledge-platform/internal/config"
	"knowledge-platform/internal/document"
	"knowledge-platform/internal/httpapi"
	"knowledge-platform/internal/org"
	"knowledge-platform/internal/qa"
	"knowledge-platform/internal/rbac"
	"knowledge-platform/internal/reporting"
	"knowledge-platform/internal/user"
	"knowledge-platform/internal/workspace"
	"knowledge-platform/pkg/logger"
	"knowledge-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Stores and services
	userStore := user.NewPostgresStore(db)
	workspaceSvc := workspace.NewService(workspace.NewPostgresStore(db), user.NewDirectory(userStore))

	h := httpapi.Handlers{
		Auth:     authManager,
		Verifier: auth.NewVerifier(user.NewCredentialSource(userStore)),
		Limiter:  auth.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow),

		Orgs:       org.NewService(org.NewPostgresStore(db)),
		Users:      user.NewService(userStore),
		Workspaces: workspaceSvc,
		Chats:      chat.NewService(chat.NewPostgresStore(db), workspaceSvc, qa.NewClient(cfg.QA.BaseURL, cfg.QA.APIKey, cfg.QA.Timeout)),
		Documents:  document.NewService(document.NewPostgresStore(db), workspaceSvc),
		Reports:    reporting.NewService(reporting.NewPostgresRepo(db)),
		Audit:      audit.NewService(audit.NewPostgresRepo(db)),

		SecureCookies: cfg.IsProduction(),
		SessionTTL:    cfg.Auth.SessionTTL,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(rbac.Gate(authManager))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
