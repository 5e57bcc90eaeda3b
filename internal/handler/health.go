package handler

import (
	"net/http"
	"time"

	"nftforge/nft_backend/internal/config"
	"nftforge/nft_backend/internal/pkg/httputils"

	"github.com/gorilla/mux"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/test/", h.testAPI).Methods("GET", "OPTIONS")
	router.HandleFunc("/health/", h.healthCheck).Methods("GET", "OPTIONS")
}

type testResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// @Summary Liveness check
// @Tags system
// @Produce json
// @Success 200 {object} testResponse
// @Router /test/ [get]
func (h *HealthHandler) testAPI(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, http.StatusOK, testResponse{
		Success:   true,
		Message:   "NFT API is working!",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// @Summary Health check
// @Description Reports whether the IPFS storage credentials are configured
// @Tags system
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health/ [get]
func (h *HealthHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	ipfs := "not_configured"
	if h.cfg.IPFSConfigured() {
		ipfs = "configured"
	}

	httputils.ResponseJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]string{"ipfs": ipfs},
	})
}
