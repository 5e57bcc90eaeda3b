package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"nftforge/nft_backend/api/response"
	"nftforge/nft_backend/internal/model"
	"nftforge/nft_backend/internal/pkg/httputils"
	"nftforge/nft_backend/internal/service"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Multipart parse limit, slightly above the 10MiB image bound so the
// size check stays in the service layer.
const maxMultipartMemory = 12 << 20

type NFTHandler struct {
	nftService service.NFTService
}

func NewNFTHandler(nftService service.NFTService) *NFTHandler {
	return &NFTHandler{nftService: nftService}
}

func (h *NFTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/create-nft/", h.createNFT).Methods("POST", "OPTIONS")
	router.HandleFunc("/upload-image/", h.uploadImage).Methods("POST", "OPTIONS")
	router.HandleFunc("/nfts/", h.listNFTs).Methods("GET", "OPTIONS")
	router.HandleFunc("/nfts/{id:[0-9]+}/", h.getNFT).Methods("GET", "OPTIONS")
}

type createNFTResponse struct {
	Success bool `json:"success"`
	*service.CreateNFTResult
}

// @Summary Create NFT
// @Description Upload an image and its metadata to IPFS and persist the NFT record
// @Tags nfts
// @Accept mpfd
// @Produce json
// @Param name formData string true "NFT name"
// @Param description formData string true "NFT description"
// @Param image formData file true "Image file (JPEG/PNG/GIF/WebP, max 10MB)"
// @Param attributes formData string false "Attributes JSON array"
// @Param owner_address formData string true "Owner wallet address"
// @Param collection_id formData int false "Collection ID"
// @Success 201 {object} createNFTResponse
// @Failure 400 {object} response.ValidationErrorResponse
// @Failure 500 {object} response.SessionErrorResponse
// @Router /create-nft/ [post]
func (h *NFTHandler) createNFT(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	req := service.CreateNFTRequest{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		OwnerAddress: r.FormValue("owner_address"),
	}

	if raw := r.FormValue("attributes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Attributes); err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid attributes JSON", err.Error())
			return
		}
	}

	if raw := r.FormValue("collection_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid collection_id", err.Error())
			return
		}
		cid := uint(id)
		req.CollectionID = &cid
	}

	data, filename, contentType, ok := readImageFile(w, r)
	if !ok {
		return
	}
	req.ImageData = data
	req.Filename = filename
	req.ContentType = contentType

	result, err := h.nftService.CreateNFT(r.Context(), req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, createNFTResponse{
		Success:         true,
		CreateNFTResult: result,
	})
}

func (h *NFTHandler) writeCreateError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		httputils.ResponseJSON(w, http.StatusBadRequest, response.ValidationErrorResponse{
			Success: false,
			Error:   "Invalid request data",
			Details: validationErr.Details,
		})
		return
	}

	var assemblyErr *service.AssemblyError
	if errors.As(err, &assemblyErr) {
		httputils.ResponseJSON(w, http.StatusInternalServerError, response.SessionErrorResponse{
			Success:   false,
			SessionID: assemblyErr.SessionID,
			Error:     "Failed to create NFT",
			Details:   assemblyErr.Err.Error(),
		})
		return
	}

	log.Printf("Unexpected error in NFT creation: %v", err)
	httputils.ResponseError(w, http.StatusInternalServerError, "Internal server error", err.Error())
}

type uploadImageResponse struct {
	Success bool `json:"success"`
	*service.ImageUploadResult
}

// @Summary Upload image
// @Description Upload a single image to IPFS without creating an NFT record
// @Tags nfts
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file (JPEG/PNG/GIF/WebP, max 10MB)"
// @Success 201 {object} uploadImageResponse
// @Failure 400 {object} response.ValidationErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /upload-image/ [post]
func (h *NFTHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	data, filename, contentType, ok := readImageFile(w, r)
	if !ok {
		return
	}

	result, err := h.nftService.UploadImage(r.Context(), service.ImageUploadRequest{
		ImageData:   data,
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			httputils.ResponseJSON(w, http.StatusBadRequest, response.ValidationErrorResponse{
				Success: false,
				Error:   "Invalid image data",
				Details: validationErr.Details,
			})
			return
		}

		log.Printf("Image upload failed: %v", err)
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to upload image to IPFS", err.Error())
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, uploadImageResponse{
		Success:           true,
		ImageUploadResult: result,
	})
}

// @Summary List NFTs
// @Tags nfts
// @Produce json
// @Success 200 {array} model.NFTMetadata
// @Failure 500 {object} response.ErrorResponse
// @Router /nfts/ [get]
func (h *NFTHandler) listNFTs(w http.ResponseWriter, r *http.Request) {
	nfts, err := h.nftService.ListNFTs(r.Context())
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to list NFTs", err.Error())
		return
	}

	if nfts == nil {
		nfts = []model.NFTMetadata{}
	}

	httputils.ResponseJSON(w, http.StatusOK, nfts)
}

// @Summary Get NFT
// @Tags nfts
// @Produce json
// @Param id path int true "NFT ID"
// @Success 200 {object} model.NFTMetadata
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /nfts/{id}/ [get]
func (h *NFTHandler) getNFT(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid NFT ID", err.Error())
		return
	}

	nft, err := h.nftService.GetNFT(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "NFT not found", "")
			return
		}

		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to get NFT", err.Error())
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, nft)
}

// readImageFile pulls the multipart "image" part. On failure it writes
// the 400 response itself and returns ok=false.
func readImageFile(w http.ResponseWriter, r *http.Request) (data []byte, filename, contentType string, ok bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		httputils.ResponseJSON(w, http.StatusBadRequest, response.ValidationErrorResponse{
			Success: false,
			Error:   "Invalid request data",
			Details: map[string]string{"image": "no image file provided"},
		})
		return nil, "", "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Failed to read image file", err.Error())
		return nil, "", "", false
	}

	return data, header.Filename, header.Header.Get("Content-Type"), true
}
