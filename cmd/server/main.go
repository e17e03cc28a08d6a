package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"swachh-backend/internal/handlers"
	"swachh-backend/internal/middleware"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
	"swachh-backend/internal/store"
	"swachh-backend/internal/syncer"
	"swachh-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SWACHH FIELD-OPERATIONS BACKEND STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	ctx := context.Background()

	// Connect the document store. With no Firestore project configured the
	// server runs in demo mode on an in-memory store.
	dataStore, cleanup := connectStore(ctx)
	defer cleanup()

	svc := services.NewDataService(dataStore)

	// Open the local durable queue for records captured while the backend
	// is unreachable.
	queuePath := os.Getenv("OFFLINE_DB_PATH")
	if queuePath == "" {
		queuePath = "./offline-queue.db"
		log.Printf("⚠️  OFFLINE_DB_PATH not set, using default: %s", queuePath)
	}
	queue, err := offline.Open(queuePath)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Failed to open offline queue")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer queue.Close()
	log.Printf("✅ Offline queue opened: %s", queuePath)

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Start the sync coordinator. It drains the offline queue on trigger
	// and pushes pass results to connected clients.
	cfg := syncer.Config{}
	if secs, err := strconv.Atoi(os.Getenv("SYNC_BACKOFF_SECONDS")); err == nil && secs > 0 {
		cfg.InitialBackoff = time.Duration(secs) * time.Second
	}
	// Drivers get per-record acknowledgements from the uploader; the
	// dashboard gets per-pass summaries.
	coordinator := syncer.New(queue, syncer.NewDataUploader(svc, wsHub), cfg)
	coordinator.OnDrain = func(result syncer.Result) {
		wsHub.BroadcastToRole("admin", map[string]interface{}{
			"type": "sync_pass_completed",
			"data": result,
		})
	}
	go coordinator.Run(ctx)

	// Drain anything left over from a previous run.
	coordinator.Trigger()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Connectivity probe (no auth so the app can check reachability
		// before login)
		r.Get("/test-connection", handlers.TestConnection(svc))

		// Driver endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Profile
			r.Get("/driver/profile", handlers.GetProfile(svc))
			r.Patch("/driver/profile", handlers.UpdateProfile(svc))

			// Attendance
			r.Post("/driver/punch", handlers.Punch(svc, queue, wsHub))
			r.Get("/driver/punch/status", handlers.GetPunchStatus(svc))

			// Trips
			r.Post("/driver/trip/start", handlers.StartTrip(svc, wsHub))
			r.Post("/driver/trip/end", handlers.EndTrip(svc, wsHub))
			r.Get("/driver/trip/current", handlers.GetCurrentTrip(svc))

			// Feeder points
			r.Get("/driver/feeder-points", handlers.GetDriverFeederPoints(svc))
			r.Get("/feeder-points/{id}/workers", handlers.GetFeederPointWorkers(svc))
			r.Post("/feeder-points/{id}/attendance", handlers.MarkWorkerAttendance(svc, queue, wsHub))
			r.Post("/feeder-points/{id}/waste", handlers.RecordWaste(svc, queue))

			// Worker history
			r.Get("/workers/{id}/attendance", handlers.GetWorkerAttendanceHistory(svc))

			// Summaries
			r.Get("/driver/waste-summary", handlers.GetWasteSummary(svc))
			r.Get("/driver/summary", handlers.GetDailySummary(svc))
			r.Get("/driver/performance", handlers.GetPerformanceStats(svc))

			// Offline sync
			r.Post("/sync/trigger", handlers.TriggerSync(coordinator))
			r.Get("/sync/status", handlers.GetSyncStatus(coordinator))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	} else {
		log.Printf("✅ PORT found: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}

// connectStore picks the document-store backend from the environment.
// Supports both a credentials file path and base64-encoded credentials
// (for Railway/cloud deployments).
func connectStore(ctx context.Context) (store.Store, func()) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		log.Println("⚠️  FIRESTORE_PROJECT_ID not set, running in demo mode with in-memory store")
		return store.NewMemoryStore(), func() {}
	}

	var client *store.Client
	var err error

	credsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	if credsBase64 != "" {
		client, err = store.NewClientFromBase64(ctx, projectID, credsBase64)
	} else {
		credentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if credentialsFile == "" {
			credentialsFile = "./firebase-service-account.json"
		}
		client, err = store.NewClient(ctx, projectID, credentialsFile)
	}
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Firestore connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong FIRESTORE_PROJECT_ID")
		log.Println("   2. Missing or invalid service-account credentials")
		log.Println("   3. Network connectivity issue")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}

	log.Printf("✅ Firestore connection established (project %s)", projectID)
	return client, func() { client.Close() }
}
