package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"

	"agroAppAPI/handlers"
	"agroAppAPI/internal/ads"
	"agroAppAPI/internal/plan"
	"agroAppAPI/internal/store"
	"agroAppAPI/internal/workers"
	"agroAppAPI/middleware"
	"agroAppAPI/services"

	_ "net/http/pprof"
)

var (
	firestoreClient    *firestore.Client
	plans              *plan.Config
	entitlementService *services.EntitlementService
	adCreditService    *services.AdCreditService
	requestService     *services.RequestService
	adminService       *services.AdminService
	cleanupWorker      *workers.CleanupWorker
)

// newFirestoreClient initializes Firestore. It first attempts to use
// credentials from the FIREBASE_SERVICE_ACCOUNT_JSON environment variable
// (Base64 encoded) and falls back to a local service account key file.
func newFirestoreClient(ctx context.Context, localFilePath string) (*firestore.Client, error) {
	var opt option.ClientOption

	encodedCreds := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			log.Fatal("Failed to decode base64 firebase credentials from FIREBASE_SERVICE_ACCOUNT_JSON:", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		log.Println("Firestore: Initializing from FIREBASE_SERVICE_ACCOUNT_JSON environment variable.")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			log.Fatalf("Local firebase file not found: %s, and FIREBASE_SERVICE_ACCOUNT_JSON environment variable is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		log.Printf("Firestore: Initializing from local file: %s.", localFilePath)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	var err error
	plans, err = plan.Load(os.Getenv("PLANS_FILE"))
	if err != nil {
		log.Fatal("Failed to load plan config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	firestoreClient, err = newFirestoreClient(ctx, "./serviceAccountKey.json")
	if err != nil {
		log.Fatal("Failed to create Firestore client:", err)
	}
	log.Println("Successfully connected to Firestore")

	db := store.NewFirestore(firestoreClient)

	entitlementService = services.NewEntitlementService(db)
	adCreditService = services.NewAdCreditService(db, ads.NewMockProvider(), plans.DailyRewardLimit)
	requestService = services.NewRequestService(db, plans)
	adminService = services.NewAdminService(db, db)
	cleanupWorker = workers.NewCleanupWorker(adCreditService, plans.AdRetentionDays, time.Hour)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing Firestore client...")
		firestoreClient.Close()
	}()

	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	// Initialize handlers
	premiumHandler := handlers.NewPremiumHandler(entitlementService, requestService, plans)
	adsHandler := handlers.NewAdsHandler(adCreditService, plans.AdRetentionDays, cleanupWorker)
	adminHandler := handlers.NewAdminHandler(adminService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	// Placeholder until a real ad network is wired in.
	r.HandleFunc("/app-ads.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("# ad network pending\n"))
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "agroApp-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/premium/plans", premiumHandler.GetPlans).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/premium/status", premiumHandler.GetPremiumStatus).Methods("GET")
	protected.HandleFunc("/premium/request", premiumHandler.SubmitPremiumRequest).Methods("POST")

	protected.HandleFunc("/ads/watched-today", adsHandler.GetWatchedToday).Methods("GET")
	protected.HandleFunc("/ads/rewarded", adsHandler.WatchRewarded).Methods("POST")
	protected.HandleFunc("/ads/interstitial", adsHandler.ShowInterstitial).Methods("POST")
	protected.HandleFunc("/ads/cleanup", adsHandler.CleanupAdWatches).Methods("POST")

	// -------------------------------------------------------------------------
	// ADMIN ROUTES (OPERATOR ALLOWLIST)
	// -------------------------------------------------------------------------
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnlyMiddleware)

	admin.HandleFunc("/premium-requests", adminHandler.ListPremiumRequests).Methods("GET")
	admin.HandleFunc("/premium-requests/{requestID}/approve", adminHandler.ApprovePremiumRequest).Methods("POST")

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
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
