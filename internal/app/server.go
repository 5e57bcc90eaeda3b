package app

import (
	"log"
	"net/http"
	"time"

	"nftforge/nft_backend/internal/handler"
	"nftforge/nft_backend/internal/ws"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	router *mux.Router
}

func NewServer(
	nftHandler *handler.NFTHandler,
	sessionHandler *handler.SessionHandler,
	healthHandler *handler.HealthHandler,
	progressHandler *ws.ProgressHandler,
) *Server {
	router := mux.NewRouter()

	nftHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router)
	healthHandler.RegisterRoutes(router)
	progressHandler.RegisterRoutes(router)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return &Server{router: router}
}

func (s *Server) Run(port string) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler:     cors(s.router),
		Addr:        ":" + port,
		ReadTimeout: 30 * time.Second,
		// Аплоад в IPFS плюс ожидание CID занимают заметное время
		WriteTimeout: 60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
