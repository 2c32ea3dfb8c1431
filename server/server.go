package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"songbox/config"
	"songbox/core/cleanup"
	"songbox/core/pipeline"
	"songbox/db"
	"songbox/logger"
	"songbox/model"
	"songbox/repository"
	"songbox/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until SIGINT or
// SIGTERM.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.Song{}); err != nil {
		log.Fatalf("Failed to migrate models: %v", err)
	}

	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer db.CloseRedis()
	log.Println("Successfully connected to Redis")

	ensureDirExists(cfg.UploadDir)

	// Sweep staged upload files orphaned by failed or interrupted requests.
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	janitor := cleanup.NewJanitor(cfg.UploadDir, 10*time.Minute)
	go janitor.Run(janitorCtx)

	songRepo := repository.NewMySQLSongRepository(db.DB)
	assetStore := storage.NewMinioAssetStore(cfg)
	pipe := pipeline.New(songRepo, assetStore)
	apiHandler := NewAPIHandler(pipe, songRepo, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	RegisterRoutes(router, apiHandler)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("List songs via GET /music/")
		log.Println("Upload songs via POST /music/")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// RegisterRoutes wires the /music collection endpoints onto the router.
// Split out so handler tests can mount the same table.
func RegisterRoutes(router *mux.Router, h *APIHandler) {
	music := router.PathPrefix("/music").Subrouter()
	for _, path := range []string{"", "/"} {
		music.HandleFunc(path, h.GetSongsHandler).Methods(http.MethodGet)
		music.HandleFunc(path, h.CreateSongHandler).Methods(http.MethodPost)
	}
	music.HandleFunc("/{id}", h.UpdateSongHandler).Methods(http.MethodPut)
	music.HandleFunc("/{id}", h.DeleteSongHandler).Methods(http.MethodDelete)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Creating directory: %s", path)
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", path, err)
		}
	} else if err != nil {
		log.Fatalf("Failed to check directory %s: %v", path, err)
	}
}
