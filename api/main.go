// @title NFT Minting Backend
// @version 1.0
// @description Backend for assembling NFTs: uploads images and metadata to IPFS via Filebase and tracks upload sessions.

// @host localhost:8080
// @BasePath /
// @schemes http

package main

import (
	"log"

	_ "nftforge/nft_backend/docs"
	"nftforge/nft_backend/internal/app"
	"nftforge/nft_backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
