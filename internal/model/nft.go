package model

import (
	"time"

	"gorm.io/gorm"
)

// NFTMetadata is the durable result of one successful assembly run.
// Both IPFS hashes are always set: a row is only ever written after
// image and metadata uploads both succeeded.
type NFTMetadata struct {
	gorm.Model
	TokenID     *int64 `json:"token_id"` // filled post-mint by an external process
	Name        string `json:"name" gorm:"size:200"`
	Description string `json:"description"`

	ImageIPFSHash    string `json:"image_ipfs_hash" gorm:"size:100"`
	ImageIPFSURL     string `json:"image_ipfs_url"`
	MetadataIPFSHash string `json:"metadata_ipfs_hash" gorm:"size:100"`
	MetadataIPFSURL  string `json:"metadata_ipfs_url"`

	OriginalFilename string `json:"original_filename" gorm:"size:255"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type" gorm:"size:100"`

	ContractAddress string     `json:"contract_address" gorm:"size:42"`
	OwnerAddress    string     `json:"owner_address" gorm:"size:42"`
	MintedAt        *time.Time `json:"minted_at"`
	TransactionHash string     `json:"transaction_hash" gorm:"size:66"`

	CollectionID *uint          `json:"collection_id"`
	Collection   *NFTCollection `json:"-"`

	Attributes []NFTAttribute `json:"attributes" gorm:"constraint:OnDelete:CASCADE"`
}

// NFTAttribute is a single trait of an NFT, kept in the shape
// marketplaces expect (trait_type / value / display_type).
type NFTAttribute struct {
	gorm.Model
	NFTMetadataID uint   `json:"-"`
	TraitType     string `json:"trait_type" gorm:"size:100"`
	Value         string `json:"value" gorm:"size:200"`
	DisplayType   string `json:"display_type" gorm:"size:50"`
}
