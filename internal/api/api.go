package api

import (
	"log"
	"net/http"

	"room-chat-server/internal/config"
	"room-chat-server/internal/queue"
	"room-chat-server/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	cfg                 config.Config
	requestQueueManager *queue.RequestQueueManager
	handler             *websocket.Handler
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

func NewAPIServer(cfg config.Config, rqm *queue.RequestQueueManager, handler *websocket.Handler, registrars ...RouteRegistrar) *APIServer {
	listenAddr := cfg.ListenAddr()

	return &APIServer{
		listenAddr:          listenAddr,
		cfg:                 cfg,
		requestQueueManager: rqm,
		handler:             handler,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	log.Printf("Server listening on http://localhost%s", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

func (s *APIServer) Config() config.Config {
	return s.cfg
}

func (s *APIServer) Handler() *websocket.Handler {
	return s.handler
}
