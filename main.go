package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdamLt-GH/Fit-Logger/handlers"
	"github.com/AdamLt-GH/Fit-Logger/internal/repository"
	"github.com/AdamLt-GH/Fit-Logger/internal/workers"
	"github.com/AdamLt-GH/Fit-Logger/middleware"
	"github.com/AdamLt-GH/Fit-Logger/services"

	_ "net/http/pprof"
)

var (
	dbPool           *pgxpool.Pool
	challengeService *services.ChallengeService
	progressService  *services.ProgressService
	exerciseService  *services.ExerciseService
	weatherService   *services.WeatherService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	challengeRepo := repository.NewChallengeRepository(dbPool)
	participantRepo := repository.NewParticipantRepository(dbPool)
	progressRepo := repository.NewProgressRepository(dbPool)
	exerciseRepo := repository.NewExerciseRepository(dbPool)

	locks := services.NewChallengeLocks()
	challengeService = services.NewChallengeService(challengeRepo, participantRepo, progressRepo, exerciseRepo, locks)
	progressService = services.NewProgressService(challengeRepo, participantRepo, progressRepo, exerciseRepo, locks)
	exerciseService = services.NewExerciseService(exerciseRepo)
	weatherService = services.NewWeatherService(os.Getenv("WEATHER_API_KEY"))

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	challengeHandler := handlers.NewChallengeHandler(challengeService, progressService)
	progressHandler := handlers.NewProgressHandler(progressService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	weatherHandler := handlers.NewWeatherHandler(weatherService)

	r := mux.NewRouter()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go middleware.CleanupVisitors(workerCtx)
	workers.StartCompletionWorker(workerCtx, dbPool)

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fit-logger-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	// The public catalog works without a token; with one, already-joined
	// challenges are filtered out.
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuthMiddleware)
	public.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{challengeID}", challengeHandler.GetChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{challengeID}", challengeHandler.UpdateChallenge).Methods("PUT")
	protected.HandleFunc("/challenges/{challengeID}", challengeHandler.DeleteChallenge).Methods("DELETE")
	protected.HandleFunc("/challenges/{challengeID}/join", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{challengeID}/leave", challengeHandler.LeaveChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{challengeID}/progress", progressHandler.GetHistory).Methods("GET")
	protected.HandleFunc("/user/challenges", challengeHandler.GetMyChallenges).Methods("GET")

	protected.HandleFunc("/progress", progressHandler.LogProgress).Methods("POST")
	protected.HandleFunc("/participants/{participantID}/progress", progressHandler.GetParticipantProgress).Methods("GET")

	protected.HandleFunc("/exercises", exerciseHandler.ListExercises).Methods("GET")
	protected.HandleFunc("/exercises", exerciseHandler.CreateExercise).Methods("POST")
	protected.HandleFunc("/exercises/{exerciseID}", exerciseHandler.GetExercise).Methods("GET")
	protected.HandleFunc("/exercises/{exerciseID}", exerciseHandler.UpdateExercise).Methods("PUT")
	protected.HandleFunc("/exercises/{exerciseID}", exerciseHandler.DeleteExercise).Methods("DELETE")

	protected.HandleFunc("/weather/forecast", weatherHandler.GetForecast).Methods("GET")
	protected.HandleFunc("/weather/geocode", weatherHandler.Geocode).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Println("Shutting down server...")
	stopWorkers()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
