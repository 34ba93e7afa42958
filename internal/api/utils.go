package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"room-chat-server/internal/api/middleware"
	"room-chat-server/internal/queue"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// MakeHTTPHandleFunc adapts an error-returning endpoint into an
// http.HandlerFunc: the work runs through the request queue, failures are
// rendered as a JSON error envelope, and the CORS + logging chain is
// applied around everything.
func (s *APIServer) MakeHTTPHandleFunc(f apiFunc) http.HandlerFunc {
	return s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		job := queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		}

		s.requestQueueManager.EnqueueJob(job)
		s.renderError(w, <-errc)
	})
}

// MakeDirectHandleFunc is MakeHTTPHandleFunc without the request queue:
// the endpoint runs on the request goroutine. The websocket upgrade is
// registered through it so queued REST work never delays a new connection.
func (s *APIServer) MakeDirectHandleFunc(f apiFunc) http.HandlerFunc {
	return s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, f(w, r))
	})
}

func (s *APIServer) renderError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		fmt.Println(httpErr.ErrorLog)
		WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
	} else {
		WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
	}
}

func (s *APIServer) withMiddleware(baseHandler http.HandlerFunc) http.HandlerFunc {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   []string{s.cfg.WebURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}

	middlewares := []middleware.Middleware{
		middleware.CORS(corsConfig),
		middleware.Logging(),
	}

	finalHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		baseHandler(w, r)
	}

	return middleware.Chain(finalHandler, middlewares...)
}
