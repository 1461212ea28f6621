package router

import (
	"net/http"

	"taskbook/config"
	recordHandler "taskbook/internal/record"
	"taskbook/internal/record/service"
	"taskbook/internal/session"
	"taskbook/middleware"
)

func Setup(store service.Store, sessions *session.Manager, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// Session
	sessionHandler := session.NewHandler(sessions, cfg.Login, cfg.SessionCookieSecure)
	mux.HandleFunc("GET /login", sessionHandler.LoginPage)
	mux.HandleFunc("POST /verify_token", sessionHandler.VerifyToken)
	mux.HandleFunc("GET /logout", sessionHandler.Logout)

	// Records
	recordService := service.NewRecordService(store)
	records := recordHandler.NewRecordHandler(recordService)
	auth := middleware.RequireSession(sessions)

	mux.Handle("GET /{$}", auth(http.HandlerFunc(records.Index)))
	mux.Handle("POST /add_task", auth(http.HandlerFunc(records.AddTask)))
	mux.Handle("POST /add_note", auth(http.HandlerFunc(records.AddNote)))
	mux.Handle("POST /toggle_task/{id}", auth(http.HandlerFunc(records.ToggleTask)))
	mux.Handle("POST /delete_task/{id}", auth(http.HandlerFunc(records.DeleteTask)))
	mux.Handle("POST /delete_note/{id}", auth(http.HandlerFunc(records.DeleteNote)))
	mux.Handle("GET /search", auth(http.HandlerFunc(records.Search)))

	// Probes
	health := &healthHandler{checks: map[string]pinger{"database": recordService, "sessions": sessions}}
	mux.HandleFunc("GET /api/health", health.Live)
	mux.HandleFunc("GET /api/ready", health.Ready)

	cors := middleware.CORSMiddleware(cfg.CORSOrigin)
	return middleware.RequestLogger(middleware.Recover(cors(mux)))
}
