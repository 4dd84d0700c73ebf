package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mealbot/pkg/config"
)

const caloriesPerCharacter = 10

// Server is a small local automation endpoint: a webhook-style receiver
// that estimates calories for a forwarded meal. It stands in for the
// external automation hook during local development.
type Server struct {
	addr string
	log  *slog.Logger
}

// NewServer constructs the hook server from configuration.
func NewServer(cfg config.HookConfig, log *slog.Logger) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("hook address is required")
	}

	if log == nil {
		log = slog.Default()
	}

	return &Server{
		addr: addr,
		log:  log.With("component", "hook.server"),
	}, nil
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /nutrition", s.handleNutrition)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Nutrition hook server started", "address", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start hook server: %w", err)
	}

	return nil
}

type nutritionRequest struct {
	Food string `json:"food"`
}

type nutritionResponse struct {
	Food              string `json:"food"`
	EstimatedCalories int    `json:"estimated_calories"`
}

func (s *Server) handleNutrition(w http.ResponseWriter, r *http.Request) {
	var req nutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	food := strings.TrimSpace(req.Food)
	if food == "" {
		http.Error(w, "food is required", http.StatusBadRequest)
		return
	}

	s.respondJSON(w, http.StatusOK, nutritionResponse{
		Food:              food,
		EstimatedCalories: EstimateCalories(food),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write response", "error", err)
	}
}

// EstimateCalories is a deliberately naive placeholder estimate: ten
// calories per character of the food name.
func EstimateCalories(food string) int {
	return len(food) * caloriesPerCharacter
}
