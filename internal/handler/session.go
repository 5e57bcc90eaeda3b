package handler

import (
	"errors"
	"net/http"

	"nftforge/nft_backend/internal/pkg/httputils"
	"nftforge/nft_backend/internal/service"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type SessionHandler struct {
	nftService service.NFTService
}

func NewSessionHandler(nftService service.NFTService) *SessionHandler {
	return &SessionHandler{nftService: nftService}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions/{session_id}/", h.getSession).Methods("GET", "OPTIONS")
}

// @Summary Get upload session
// @Description Inspect the state of one assembly invocation, including failed ones
// @Tags sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} model.UploadSession
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /sessions/{session_id}/ [get]
func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	session, err := h.nftService.GetSession(r.Context(), vars["session_id"])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "Upload session not found", "")
			return
		}

		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to get upload session", err.Error())
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, session)
}
