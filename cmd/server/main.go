package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/vedran77/fitlog/internal/config"
	"github.com/vedran77/fitlog/internal/database"
	postgresrepo "github.com/vedran77/fitlog/internal/repository/postgres"
	"github.com/vedran77/fitlog/internal/service"
	"github.com/vedran77/fitlog/internal/token"
	"github.com/vedran77/fitlog/internal/transport/http/handlers"
	"github.com/vedran77/fitlog/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()

	// Database
	if err := database.Migrate(database.DSN(cfg)); err != nil {
		log.Fatal(err)
	}
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	workoutRepo := postgresrepo.NewWorkoutRepo(pool)

	// Services
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	workoutService := service.NewWorkoutService(workoutRepo, cfg.ListLimit)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Password)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, cfg.OwnershipDenial)

	// Auth middleware
	auth := middleware.Auth(tokens)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)

	// Protected - Identity
	mux.Handle("GET /userinfo", auth(http.HandlerFunc(authHandler.UserInfo)))

	// Protected - Workout records
	mux.Handle("GET /workoutrecords", auth(http.HandlerFunc(workoutHandler.List)))
	mux.Handle("GET /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Get)))
	mux.Handle("POST /workoutrecords", auth(http.HandlerFunc(workoutHandler.Create)))
	mux.Handle("PUT /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Update)))
	mux.Handle("DELETE /workoutrecords/{id}", auth(http.HandlerFunc(workoutHandler.Delete)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
