package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ActivityAdmin/db"
)

// NewRouter registers every route of the admin API.
func NewRouter(app *App) http.Handler {
	authn := NewAuthenticator(app.Tokens, app.Sessions)
	accounts := NewAccountHandler(app.Accounts)
	blocks := NewBlockHandler(app.Blocks)
	logs := NewLogHandler(app.Audit)

	checks := map[string]HealthCheck{
		"database": func(ctx context.Context) error { return db.Ping(ctx, app.DB) },
	}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}

	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	// 用户认证
	router.HandleFunc("/api/auth/login", accounts.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", authn.AuthMiddleware(accounts.LogoutHandler)).Methods(http.MethodPost)

	// 当前账户
	router.HandleFunc("/api/account", authn.AuthMiddleware(accounts.GetAccountHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/account/password", authn.AuthMiddleware(accounts.ChangePasswordHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/account/password/verify", authn.AuthMiddleware(accounts.VerifyPasswordHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/account/email", authn.AuthMiddleware(accounts.ChangeEmailHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/account/username-available", accounts.UsernameAvailableHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/account/email-available", accounts.EmailAvailableHandler).Methods(http.MethodGet)

	// 账户管理，仅超级管理员
	router.HandleFunc("/api/admin/accounts", authn.RequireSuper(accounts.ListAccountsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/accounts", authn.RequireSuper(accounts.CreateAccountHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/accounts/{id}", authn.RequireSuper(accounts.DeleteAccountHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/admin/accounts/{id}/password", authn.RequireSuper(accounts.ResetPasswordHandler)).Methods(http.MethodPost)

	// 黑名单
	router.HandleFunc("/api/admin/block-types", authn.AuthMiddleware(blocks.ListTypesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/block-entities/export", authn.RequireSuper(blocks.ExportHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/block-entities", authn.AuthMiddleware(blocks.ListEntriesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/block-entities", authn.AuthMiddleware(blocks.AddEntryHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/block-entities/{id}/status", authn.AuthMiddleware(blocks.SetStatusHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/admin/block-entities/{id}", authn.AuthMiddleware(blocks.DeleteEntryHandler)).Methods(http.MethodDelete)

	// 操作日志
	router.HandleFunc("/api/admin/logs", authn.RequireSuper(logs.ListLogsHandler)).Methods(http.MethodGet)

	router.Handle("/healthz", NewHealthHandler(checks)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return corsMiddleware(router)
}
