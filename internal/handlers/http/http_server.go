package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"walletVolumeApp/internal/app/dto"
	"walletVolumeApp/internal/domain/useCases"
)

// Server represents an HTTP server with all routes configured
type Server struct {
	volumeService useCases.VolumeService
	analyzer      useCases.WalletAnalyzer
	broadcaster   useCases.Broadcaster
	server        *http.Server
}

// NewServer creates a new HTTP server with configured routes
func NewServer(addr string, volumeService useCases.VolumeService, analyzer useCases.WalletAnalyzer, broadcaster useCases.Broadcaster) *Server {
	s := &Server{
		volumeService: volumeService,
		analyzer:      analyzer,
		broadcaster:   broadcaster,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/volume", s.handleVolume)
	r.Get("/api/wallet/{wallet}", s.handleWallet)
	r.Get("/api/backfill", s.handleBackfill)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.broadcaster.Handler())

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// handleVolume returns all stored volume rows, dates formatted YYYY-MM-DD.
func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	rows, err := s.volumeService.GetVolumeRows(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get volume rows")
		return
	}

	s.writeJSON(w, http.StatusOK, dto.FromRows(rows))
}

// handleWallet returns the counterparty analysis for the path wallet.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")

	stats, err := s.analyzer.AnalyzeWallet(r.Context(), wallet)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// handleBackfill triggers a single-day aggregation run for today.
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	if _, err := s.volumeService.RunSingleDay(r.Context(), time.Time{}); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, dto.BackfillResponseDTO{Success: "backfill done"})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, dto.ErrorResponseDTO{Error: message})
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
