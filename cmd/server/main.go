package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/consignation-app/internal/config"
	"github.com/diewo77/consignation-app/internal/pdf"
	"github.com/diewo77/consignation-app/internal/server"
	"github.com/diewo77/consignation-app/internal/services"
	"github.com/diewo77/consignation-app/internal/store"
)

// simple middleware chain
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Erreur connexion store: %v", err)
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	svc := services.NewProcedureService(st)
	handler := server.New(svc, st, pdf.NewRenderer())
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(handler)}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
