package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"govassess/internal/catalog"
	"govassess/internal/config"
	"govassess/internal/service"
	"govassess/internal/store"
	"govassess/internal/transport/rest"
)

func main() {
	log.Println("started")

	cfg := config.Load()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatal("Failed to load question catalog:", err)
	}
	log.Printf("Catalog: %d domains, %d questions", len(cat.Domains), len(cat.Questions))

	llmCfg, err := config.LLMFromEnv()
	if err != nil {
		log.Fatal("Invalid LLM configuration:", err)
	}
	log.Printf("LLM Config:")
	log.Printf("  Provider: %s", llmCfg.Provider)
	if llmCfg.Model != "" {
		log.Printf("  Model:    %s", llmCfg.Model)
	}
	if llmCfg.BaseURL != "" {
		log.Printf("  Base URL: %s", llmCfg.BaseURL)
	}
	if llmCfg.ResolveAPIKey() != "" {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  not set (needed for the openai provider only)")
	}

	session := store.NewSession(cat.Questions)
	log.Printf("Session %s ready", session.ID())

	assessmentSvc := service.NewAssessmentService(cat, session)
	recommendSvc := service.NewRecommendationService(assessmentSvc, llmCfg)
	exportSvc := service.NewExportService(assessmentSvc)

	container := &rest.Container{
		Assessment:     assessmentSvc,
		Recommendation: recommendSvc,
		Export:         exportSvc,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET   /v1/assessment")
		log.Println("  PATCH /v1/assessment/ratings/{code}")
		log.Println("  GET   /v1/assessment/summary")
		log.Println("  GET   /v1/assessment/top-gaps")
		log.Println("  GET/PUT /v1/provider")
		log.Println("  POST  /v1/provider/test")
		log.Println("  POST  /v1/recommendations")
		log.Println("  GET   /v1/export/{doc}")
		log.Println("  GET/POST /v1/cycles")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
