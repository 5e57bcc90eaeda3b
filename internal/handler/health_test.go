package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nftforge/nft_backend/internal/config"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEndpoint(t *testing.T) {
	router := mux.NewRouter()
	NewHealthHandler(&config.Config{}).RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/test/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "NFT API is working!", resp["message"])
}

func TestHealthEndpointReportsIPFSConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{
			"configured",
			&config.Config{FilebaseAccessKey: "key", FilebaseSecretKey: "secret", FilebaseBucketName: "bucket"},
			"configured",
		},
		{
			"not configured",
			&config.Config{},
			"not_configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			NewHealthHandler(tt.cfg).RegisterRoutes(router)

			req := httptest.NewRequest("GET", "/health/", nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)

			var resp struct {
				Status   string            `json:"status"`
				Services map[string]string `json:"services"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "healthy", resp.Status)
			assert.Equal(t, tt.want, resp.Services["ipfs"])
		})
	}
}
