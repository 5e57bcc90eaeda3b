package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"nftforge/nft_backend/internal/model"
	"nftforge/nft_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MiB

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	ethAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// AttributeInput is one trait supplied by the client. Value may be any
// JSON scalar; it is passed through to the metadata document as-is and
// stringified for the database row.
type AttributeInput struct {
	TraitType   string      `json:"trait_type"`
	Value       interface{} `json:"value"`
	DisplayType string      `json:"display_type,omitempty"`
}

type CreateNFTRequest struct {
	Name         string
	Description  string
	Attributes   []AttributeInput
	ImageData    []byte
	Filename     string
	ContentType  string
	OwnerAddress string
	CollectionID *uint
}

// MetadataDocument is the JSON uploaded alongside the image, in the
// OpenSea metadata standard shape.
type MetadataDocument struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Attributes  []AttributeInput `json:"attributes"`
}

type CreateNFTResult struct {
	SessionID          string           `json:"session_id"`
	NFTID              uint             `json:"nft_id"`
	ImageIPFSHash      string           `json:"image_ipfs_hash"`
	ImageIPFSURL       string           `json:"image_ipfs_url"`
	ImageGatewayURL    string           `json:"image_gateway_url"`
	MetadataIPFSHash   string           `json:"metadata_ipfs_hash"`
	MetadataIPFSURL    string           `json:"metadata_ipfs_url"`
	MetadataGatewayURL string           `json:"metadata_gateway_url"`
	Metadata           MetadataDocument `json:"metadata"`
	OriginalFilename   string           `json:"original_filename"`
	FileSize           int64            `json:"file_size"`
	ExecutionTime      float64          `json:"execution_time"`
}

type ImageUploadRequest struct {
	ImageData   []byte
	Filename    string
	ContentType string
}

type ImageUploadResult struct {
	IPFSHash         string `json:"ipfs_hash"`
	IPFSURL          string `json:"ipfs_url"`
	GatewayURL       string `json:"gateway_url"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type"`
}

type nftService struct {
	uploader    IPFSUploader
	nfts        repository.NFTRepository
	collections repository.CollectionRepository
	sessions    repository.SessionRepository
}

func NewNFTService(
	uploader IPFSUploader,
	nfts repository.NFTRepository,
	collections repository.CollectionRepository,
	sessions repository.SessionRepository,
) NFTService {
	return &nftService{
		uploader:    uploader,
		nfts:        nfts,
		collections: collections,
		sessions:    sessions,
	}
}

// CreateNFT runs the full assembly: validate, open a session, normalize
// and upload the image, build and upload the metadata document, persist
// the record. Validation failures leave no state behind; any later
// failure marks the session failed and returns an *AssemblyError carrying
// the session id.
func (s *nftService) CreateNFT(ctx context.Context, req CreateNFTRequest) (*CreateNFTResult, error) {
	start := time.Now()

	owner, err := s.validateCreateRequest(ctx, &req)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	session := &model.UploadSession{
		SessionID:        sessionID,
		OriginalFilename: req.Filename,
		FileSize:         int64(len(req.ImageData)),
		ContentType:      req.ContentType,
		UploadStatus:     model.UploadStatusUploading,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create upload session: %w", err)
	}

	result, err := s.assemble(ctx, req, owner, sessionID)
	if err != nil {
		if failErr := s.sessions.Fail(ctx, sessionID, err.Error()); failErr != nil {
			log.Printf("Failed to mark session %s as failed: %v", sessionID, failErr)
		}
		log.Printf("NFT creation failed (session %s): %v", sessionID, err)
		return nil, &AssemblyError{SessionID: sessionID, Err: err}
	}

	result.SessionID = sessionID
	result.ExecutionTime = time.Since(start).Seconds()

	log.Printf("NFT creation completed in %.2fs (session %s)", result.ExecutionTime, sessionID)
	return result, nil
}

// assemble is the post-session part of the workflow: each step either
// advances or returns the error that the caller records on the session.
func (s *nftService) assemble(ctx context.Context, req CreateNFTRequest, owner, sessionID string) (*CreateNFTResult, error) {
	processed := ProcessImage(req.ImageData)

	if err := s.sessions.UpdateProgress(ctx, sessionID, model.UploadStatusProcessing, 0, 25); err != nil {
		log.Printf("Failed to update session %s progress: %v", sessionID, err)
	}

	imageCID, err := s.uploader.UploadFile(ctx, processed, req.Filename, "image/jpeg")
	if err != nil {
		return nil, err
	}

	if err := s.sessions.UpdateProgress(ctx, sessionID, model.UploadStatusProcessing, int64(len(processed)), 50); err != nil {
		log.Printf("Failed to update session %s progress: %v", sessionID, err)
	}

	attributes := req.Attributes
	if attributes == nil {
		attributes = []AttributeInput{}
	}

	doc := MetadataDocument{
		Name:        req.Name,
		Description: req.Description,
		Image:       s.uploader.IPFSURL(imageCID),
		Attributes:  attributes,
	}

	metadataCID, err := s.uploader.UploadJSON(ctx, doc)
	if err != nil {
		return nil, err
	}

	nft := &model.NFTMetadata{
		Name:             req.Name,
		Description:      req.Description,
		ImageIPFSHash:    imageCID,
		ImageIPFSURL:     s.uploader.IPFSURL(imageCID),
		MetadataIPFSHash: metadataCID,
		MetadataIPFSURL:  s.uploader.IPFSURL(metadataCID),
		OriginalFilename: req.Filename,
		FileSize:         int64(len(processed)),
		ContentType:      "image/jpeg",
		OwnerAddress:     owner,
		CollectionID:     req.CollectionID,
	}

	attrRows := make([]model.NFTAttribute, 0, len(req.Attributes))
	for _, attr := range req.Attributes {
		attrRows = append(attrRows, model.NFTAttribute{
			TraitType:   attr.TraitType,
			Value:       fmt.Sprint(attr.Value),
			DisplayType: attr.DisplayType,
		})
	}

	if err := s.nfts.CreateWithAttributes(ctx, nft, attrRows); err != nil {
		return nil, fmt.Errorf("failed to persist NFT record: %w", err)
	}

	if err := s.sessions.Complete(ctx, sessionID, nft.ID); err != nil {
		log.Printf("Failed to mark session %s completed: %v", sessionID, err)
	}

	return &CreateNFTResult{
		NFTID:              nft.ID,
		ImageIPFSHash:      imageCID,
		ImageIPFSURL:       s.uploader.IPFSURL(imageCID),
		ImageGatewayURL:    s.uploader.GatewayURL(imageCID),
		MetadataIPFSHash:   metadataCID,
		MetadataIPFSURL:    s.uploader.IPFSURL(metadataCID),
		MetadataGatewayURL: s.uploader.GatewayURL(metadataCID),
		Metadata:           doc,
		OriginalFilename:   req.Filename,
		FileSize:           int64(len(processed)),
	}, nil
}

// UploadImage uploads a single image to IPFS without creating a session
// or a record.
func (s *nftService) UploadImage(ctx context.Context, req ImageUploadRequest) (*ImageUploadResult, error) {
	details := map[string]string{}
	validateImage(details, req.ImageData, req.ContentType)
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	processed := ProcessImage(req.ImageData)

	cid, err := s.uploader.UploadFile(ctx, processed, req.Filename, "image/jpeg")
	if err != nil {
		return nil, err
	}

	return &ImageUploadResult{
		IPFSHash:         cid,
		IPFSURL:          s.uploader.IPFSURL(cid),
		GatewayURL:       s.uploader.GatewayURL(cid),
		OriginalFilename: req.Filename,
		FileSize:         int64(len(processed)),
		ContentType:      "image/jpeg",
	}, nil
}

func (s *nftService) GetNFT(ctx context.Context, id uint) (*model.NFTMetadata, error) {
	return s.nfts.GetByID(ctx, id)
}

func (s *nftService) ListNFTs(ctx context.Context) ([]model.NFTMetadata, error) {
	return s.nfts.List(ctx)
}

func (s *nftService) GetSession(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	return s.sessions.GetBySessionID(ctx, sessionID)
}

// validateCreateRequest checks the whole request before any side effect
// and returns the normalized (lowercased) owner address.
func (s *nftService) validateCreateRequest(ctx context.Context, req *CreateNFTRequest) (string, error) {
	details := map[string]string{}

	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	} else if len(req.Name) > 200 {
		details["name"] = "name must be at most 200 characters"
	}

	if strings.TrimSpace(req.Description) == "" {
		details["description"] = "description is required"
	}

	validateImage(details, req.ImageData, req.ContentType)

	if !ethAddressRe.MatchString(req.OwnerAddress) {
		details["owner_address"] = "invalid Ethereum address format"
	}

	for i, attr := range req.Attributes {
		if strings.TrimSpace(attr.TraitType) == "" {
			details["attributes"] = fmt.Sprintf("attribute %d: trait_type is required", i)
			break
		}
		if attr.Value == nil {
			details["attributes"] = fmt.Sprintf("attribute %d: value is required", i)
			break
		}
	}

	if req.CollectionID != nil {
		if _, err := s.collections.GetByID(ctx, *req.CollectionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				details["collection_id"] = "collection not found"
			} else {
				return "", fmt.Errorf("failed to check collection: %w", err)
			}
		}
	}

	if len(details) > 0 {
		return "", &ValidationError{Details: details}
	}

	return strings.ToLower(req.OwnerAddress), nil
}

func validateImage(details map[string]string, data []byte, contentType string) {
	if len(data) == 0 {
		details["image"] = "no image file provided"
		return
	}

	if len(data) > maxImageSize {
		details["image"] = "image file too large, maximum size is 10MB"
		return
	}

	if !allowedImageTypes[contentType] {
		details["image"] = "invalid image type, allowed: JPEG, PNG, GIF, WebP"
	}
}
