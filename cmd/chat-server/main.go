package main

import (
	"log"

	"room-chat-server/internal/api"
	"room-chat-server/internal/api/router"
	"room-chat-server/internal/config"
	"room-chat-server/internal/queue"
	"room-chat-server/internal/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()
	handler := websocket.NewHandler(hub, cfg.WebURL)

	queueManager := queue.NewRequestQueueManager(cfg.QueueSize, cfg.QueueWorkers)

	server := api.NewAPIServer(
		cfg,
		queueManager,
		handler,
		router.UtilsRoutes("/api/v1"),
		router.ChatRoutes("/api/v1"),
	)

	server.Run()
}
