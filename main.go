package main

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/handlers"
	"github.com/Abhishek8211/Rajamantri/internal/security"
	"github.com/Abhishek8211/Rajamantri/internal/services"
)

func main() {
	cfg := config.LoadConfig()

	metrics := services.NewMetrics()
	hub := services.NewHub(metrics)
	go hub.Run()

	seed := func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	registry := game.NewRegistry(hub, game.NewScheduler(), metrics, seed(), seed)

	origins := security.NewOriginValidator([]string{cfg.AllowedOrigin})
	wsHandler := handlers.NewWSHandler(hub, registry, metrics, origins)
	metricsHandler := handlers.NewMetricsHandler(metrics, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.HandleHome)
	mux.HandleFunc("/ws", wsHandler.HandleWebSocket)
	mux.HandleFunc("/metrics", metricsHandler.HandleMetrics)

	log.Printf("🎯 Server running on http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		log.Fatal(err)
	}
}
