package app

import (
	"context"
	"log"

	"nftforge/nft_backend/internal/config"
	"nftforge/nft_backend/internal/handler"
	"nftforge/nft_backend/internal/repository"
	"nftforge/nft_backend/internal/service"
	"nftforge/nft_backend/internal/ws"

	"github.com/redis/go-redis/v9"
)

func Run(cfg *config.Config) {
	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}

	sessionRepo := repository.NewSessionRepository(db)

	// Redis опционален: без него статусы сессий читаются напрямую из базы
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unavailable, session cache disabled: %v", err)
		} else {
			sessionRepo = repository.NewCachedSessionRepository(sessionRepo, rdb)
		}
	}

	nftRepo := repository.NewNFTRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	ipfsService, err := service.NewFilebaseService(cfg)
	if err != nil {
		log.Fatal(err)
	}

	nftService := service.NewNFTService(ipfsService, nftRepo, collectionRepo, sessionRepo)

	nftHandler := handler.NewNFTHandler(nftService)
	sessionHandler := handler.NewSessionHandler(nftService)
	healthHandler := handler.NewHealthHandler(cfg)
	progressHandler := ws.NewProgressHandler(sessionRepo)

	server := NewServer(nftHandler, sessionHandler, healthHandler, progressHandler)
	server.Run(cfg.ServerPort)
}
