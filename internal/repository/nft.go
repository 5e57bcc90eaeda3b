package repository

import (
	"context"

	"nftforge/nft_backend/internal/model"

	"gorm.io/gorm"
)

type NFTRepository interface {
	CreateWithAttributes(ctx context.Context, nft *model.NFTMetadata, attrs []model.NFTAttribute) error
	GetByID(ctx context.Context, id uint) (*model.NFTMetadata, error)
	List(ctx context.Context) ([]model.NFTMetadata, error)
	SetMintInfo(ctx context.Context, id uint, tokenID int64, contractAddress, txHash string) error
}

type CollectionRepository interface {
	GetByID(ctx context.Context, id uint) (*model.NFTCollection, error)
}

type nftRepository struct {
	db *gorm.DB
}

func NewNFTRepository(db *gorm.DB) NFTRepository {
	return &nftRepository{db: db}
}

// CreateWithAttributes writes the record and its attributes in one
// transaction, so a partial NFT never becomes visible.
func (r *nftRepository) CreateWithAttributes(ctx context.Context, nft *model.NFTMetadata, attrs []model.NFTAttribute) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(nft).Error; err != nil {
			return err
		}

		for i := range attrs {
			attrs[i].NFTMetadataID = nft.ID
		}

		if len(attrs) > 0 {
			if err := tx.Create(&attrs).Error; err != nil {
				return err
			}
		}

		nft.Attributes = attrs
		return nil
	})
}

func (r *nftRepository) GetByID(ctx context.Context, id uint) (*model.NFTMetadata, error) {
	var nft model.NFTMetadata

	err := r.db.WithContext(ctx).Preload("Attributes").First(&nft, id).Error
	if err != nil {
		return nil, err
	}

	return &nft, nil
}

func (r *nftRepository) List(ctx context.Context) ([]model.NFTMetadata, error) {
	var nfts []model.NFTMetadata

	err := r.db.WithContext(ctx).Preload("Attributes").Order("created_at DESC").Find(&nfts).Error
	if err != nil {
		return nil, err
	}

	return nfts, nil
}

// SetMintInfo is the write path for the external minting process. The
// upload workflow itself never touches these fields.
func (r *nftRepository) SetMintInfo(ctx context.Context, id uint, tokenID int64, contractAddress, txHash string) error {
	return r.db.WithContext(ctx).Model(&model.NFTMetadata{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"token_id":         tokenID,
			"contract_address": contractAddress,
			"transaction_hash": txHash,
			"minted_at":        gorm.Expr("NOW()"),
		}).Error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*model.NFTCollection, error) {
	var collection model.NFTCollection

	err := r.db.WithContext(ctx).First(&collection, id).Error
	if err != nil {
		return nil, err
	}

	return &collection, nil
}
