package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"govassess/internal/service"
	"govassess/internal/transport/rest/handler"
)

// Container holds all dependencies for the router.
type Container struct {
	Assessment     *service.AssessmentService
	Recommendation *service.RecommendationService
	Export         *service.ExportService
}

// NewRouter creates the API router with all endpoints. There is no
// authentication layer: the service hosts exactly one local session.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	assessmentHandler := handler.NewAssessmentHandler(c.Assessment)
	providerHandler := handler.NewProviderHandler(c.Recommendation)
	exportHandler := handler.NewExportHandler(c.Export)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/assessment", assessmentHandler.GetTable).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessment/ratings/{code}", assessmentHandler.PatchRating).Methods("PATCH", "OPTIONS")
	v1.HandleFunc("/assessment/summary", assessmentHandler.GetSummary).Methods("GET", "OPTIONS")
	v1.HandleFunc("/assessment/top-gaps", assessmentHandler.GetTopGaps).Methods("GET", "OPTIONS")

	v1.HandleFunc("/provider", providerHandler.GetConfig).Methods("GET", "OPTIONS")
	v1.HandleFunc("/provider", providerHandler.PutConfig).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/provider/test", providerHandler.TestConnection).Methods("POST", "OPTIONS")
	v1.HandleFunc("/recommendations", providerHandler.Generate).Methods("POST", "OPTIONS")

	v1.HandleFunc("/export/{doc}", exportHandler.Download).Methods("GET", "OPTIONS")

	v1.HandleFunc("/cycles", assessmentHandler.ListCycles).Methods("GET", "OPTIONS")
	v1.HandleFunc("/cycles", assessmentHandler.CloseCycle).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
