package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/KhaledTDev/islamhouse/pkg/aggregator"
	"github.com/KhaledTDev/islamhouse/pkg/log"
	"github.com/KhaledTDev/islamhouse/pkg/replica"
)

type Server struct {
	aggregator *aggregator.Aggregator
	replica    *replica.Replica
	logger     *log.Logger
}

// NewServer creates the API server. The replica is optional; without it
// search returns 503 when every category source fails.
func NewServer(agg *aggregator.Aggregator, rep *replica.Replica) *Server {
	return &Server{
		aggregator: agg,
		replica:    rep,
		logger:     log.ForService("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags every response with a request id so failed
// federated calls can be correlated with server logs.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
