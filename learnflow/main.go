package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnflow/learnflow/config"
	"learnflow/learnflow/controllers"
	"learnflow/learnflow/middlewares"
	"learnflow/learnflow/realtime"
	"learnflow/learnflow/routes"
	"learnflow/learnflow/services/ai"
	"learnflow/learnflow/sources/psql"
	"learnflow/learnflow/sources/psql/dao"
	"learnflow/learnflow/sources/storage"
	"learnflow/learnflow/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	rateLimitMax    = 15
	rateLimitWindow = 15 * time.Minute
)

func newRouter(
	cfg config.Config,
	db *psql.Database,
	chat controllers.Chatter,
	store storage.Store,
	hub *realtime.Hub,
	limiter *middlewares.RateLimiter,
) chi.Router {
	userDAO := dao.NewUserDAO(db.DB)
	noteDAO := dao.NewNoteDAO(db.DB)

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	notesCtrl := controllers.NewNotesController(noteDAO)
	statsCtrl := controllers.NewStatsController(noteDAO)
	cardsCtrl := controllers.NewFlashcardsController(noteDAO, chat)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(limiter.Middleware)

	r.Get("/", healthCtrl.HealthCheck)
	r.Mount("/api/v1/auth", routes.AuthRoutes(authCtrl, cfg))
	r.Mount("/api/v1/notes", routes.NotesRoutes(notesCtrl, statsCtrl, cardsCtrl, store, cfg))
	r.Mount("/api/ask", routes.AskRoutes(cardsCtrl))
	r.HandleFunc("/ws", routes.RealtimeRoutes(hub))

	// Uploaded files are served statically when stored on disk.
	if _, ok := store.(*storage.DiskStore); ok {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var store storage.Store
	if cfg.MinIOEndpoint != "" {
		store, err = storage.NewMinIOStore(cfg)
	} else {
		store, err = storage.NewDiskStore(cfg.UploadDir)
	}
	if err != nil {
		logging.ErrorLogger.Error("attachment store error", zap.Error(err))
		os.Exit(1)
	}

	chat := ai.NewClient(cfg.DeepSeekKey)
	hub := realtime.NewHub()
	limiter := middlewares.NewRateLimiter(rateLimitMax, rateLimitWindow)
	defer limiter.Stop()

	r := newRouter(cfg, db, chat, store, hub, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
