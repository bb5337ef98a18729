package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"surakshaconnect/internal/config"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/service"
	"surakshaconnect/internal/transport/rest/handler"
	"surakshaconnect/internal/transport/rest/middleware"
	"surakshaconnect/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
	IntakeService       *service.IntakeService
	ImpactTracker       *service.ImpactTracker
	TeamService         *service.TeamService
	WSHub               *ws.Hub
	Metrics             *metrics.Metrics
	CORS                config.CORSConfig
	Logger              *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	verificationHandler := handler.NewVerificationHandler(c.VerificationService)
	intakeHandler := handler.NewIntakeHandler(c.IntakeService)
	impactHandler := handler.NewImpactHandler(c.ImpactTracker)
	teamHandler := handler.NewTeamHandler(c.TeamService)
	wsHandler := ws.NewHandler(c.WSHub)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(middleware.CORS(c.CORS))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/verify-request", verificationHandler.Verify).Methods("POST", "OPTIONS")
	v1.HandleFunc("/process-multimodal", intakeHandler.ProcessMultimodal).Methods("POST", "OPTIONS")
	v1.HandleFunc("/process-voice", intakeHandler.ProcessVoice).Methods("POST", "OPTIONS")
	v1.HandleFunc("/impact", impactHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/websocket", teamHandler.Capabilities).Methods("GET", "OPTIONS")
	v1.HandleFunc("/websocket", teamHandler.Message).Methods("POST")

	v1.HandleFunc("/requests", verificationHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/requests", verificationHandler.List).Methods("GET")
	v1.HandleFunc("/requests/urgent", verificationHandler.Urgent).Methods("GET", "OPTIONS")
	v1.HandleFunc("/requests/{id}", verificationHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/stats", verificationHandler.Stats).Methods("GET", "OPTIONS")

	// Live feed
	v1.HandleFunc("/ws/feed", wsHandler.FeedWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")

	// Operator routes (require operator auth)
	operatorRoutes := v1.NewRoute().Subrouter()
	operatorRoutes.Use(authMW.RequireOperator)

	operatorRoutes.HandleFunc("/requests/{id}/verify", verificationHandler.MarkVerified).Methods("POST", "OPTIONS")
	operatorRoutes.HandleFunc("/requests/{id}/flag", verificationHandler.MarkFlagged).Methods("POST", "OPTIONS")

	return middleware.Recover(c.Logger)(middleware.Logging(c.Logger, c.Metrics)(r))
}
