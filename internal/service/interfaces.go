package service

import (
	"context"

	"nftforge/nft_backend/internal/model"
)

// IPFSUploader is the object store boundary of the assembly workflow.
// Implemented by FilebaseService; tests plug in a fake store.
type IPFSUploader interface {
	UploadFile(ctx context.Context, data []byte, filename, contentType string) (string, error)
	UploadJSON(ctx context.Context, doc interface{}) (string, error)
	IPFSURL(cid string) string
	GatewayURL(cid string) string
}

type NFTService interface {
	CreateNFT(ctx context.Context, req CreateNFTRequest) (*CreateNFTResult, error)
	UploadImage(ctx context.Context, req ImageUploadRequest) (*ImageUploadResult, error)
	GetNFT(ctx context.Context, id uint) (*model.NFTMetadata, error)
	ListNFTs(ctx context.Context) ([]model.NFTMetadata, error)
	GetSession(ctx context.Context, sessionID string) (*model.UploadSession, error)
}
