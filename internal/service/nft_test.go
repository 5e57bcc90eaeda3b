package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"nftforge/nft_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const validOwner = "0xABCDEF0123456789ABCDEF0123456789ABCDEF01"

// fakeUploader implements IPFSUploader without touching the network.
type fakeUploader struct {
	uploads  int
	fileErr  error
	jsonErr  error
	lastDoc  interface{}
	lastData []byte
}

func (f *fakeUploader) UploadFile(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if f.fileErr != nil {
		return "", f.fileErr
	}
	f.uploads++
	f.lastData = data
	return fmt.Sprintf("QmImage%d", f.uploads), nil
}

func (f *fakeUploader) UploadJSON(ctx context.Context, doc interface{}) (string, error) {
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	f.lastDoc = doc
	return "QmMetadata", nil
}

func (f *fakeUploader) IPFSURL(cid string) string {
	return "ipfs://" + cid
}

func (f *fakeUploader) GatewayURL(cid string) string {
	return "https://ipfs.filebase.io/ipfs/" + cid
}

type fakeNFTRepo struct {
	records   map[uint]*model.NFTMetadata
	nextID    uint
	createErr error
}

func newFakeNFTRepo() *fakeNFTRepo {
	return &fakeNFTRepo{records: map[uint]*model.NFTMetadata{}, nextID: 1}
}

func (f *fakeNFTRepo) CreateWithAttributes(ctx context.Context, nft *model.NFTMetadata, attrs []model.NFTAttribute) error {
	if f.createErr != nil {
		return f.createErr
	}

	nft.ID = f.nextID
	f.nextID++
	for i := range attrs {
		attrs[i].NFTMetadataID = nft.ID
	}
	nft.Attributes = attrs
	f.records[nft.ID] = nft
	return nil
}

func (f *fakeNFTRepo) GetByID(ctx context.Context, id uint) (*model.NFTMetadata, error) {
	nft, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return nft, nil
}

func (f *fakeNFTRepo) List(ctx context.Context) ([]model.NFTMetadata, error) {
	var out []model.NFTMetadata
	for _, nft := range f.records {
		out = append(out, *nft)
	}
	return out, nil
}

func (f *fakeNFTRepo) SetMintInfo(ctx context.Context, id uint, tokenID int64, contractAddress, txHash string) error {
	return nil
}

type fakeCollectionRepo struct {
	collections map[uint]*model.NFTCollection
}

func (f *fakeCollectionRepo) GetByID(ctx context.Context, id uint) (*model.NFTCollection, error) {
	c, ok := f.collections[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.UploadSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.UploadSession{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *model.UploadSession) error {
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) UpdateProgress(ctx context.Context, sessionID string, status string, bytesUploaded int64, percentage float64) error {
	s := f.sessions[sessionID]
	s.UploadStatus = status
	s.BytesUploaded = bytesUploaded
	s.ProgressPercentage = percentage
	return nil
}

func (f *fakeSessionRepo) Complete(ctx context.Context, sessionID string, nftID uint) error {
	s := f.sessions[sessionID]
	s.UploadStatus = model.UploadStatusCompleted
	s.ProgressPercentage = 100
	s.NFTMetadataID = &nftID
	return nil
}

func (f *fakeSessionRepo) Fail(ctx context.Context, sessionID string, errorMessage string) error {
	s := f.sessions[sessionID]
	s.UploadStatus = model.UploadStatusFailed
	s.ErrorMessage = errorMessage
	return nil
}

type testEnv struct {
	service     NFTService
	uploader    *fakeUploader
	nfts        *fakeNFTRepo
	collections *fakeCollectionRepo
	sessions    *fakeSessionRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		uploader:    &fakeUploader{},
		nfts:        newFakeNFTRepo(),
		collections: &fakeCollectionRepo{collections: map[uint]*model.NFTCollection{}},
		sessions:    newFakeSessionRepo(),
	}
	env.service = NewNFTService(env.uploader, env.nfts, env.collections, env.sessions)
	return env
}

func validRequest() CreateNFTRequest {
	return CreateNFTRequest{
		Name:         "Test NFT",
		Description:  "A test piece",
		ImageData:    bytes.Repeat([]byte{0xAB}, 2*1024*1024),
		Filename:     "art.png",
		ContentType:  "image/png",
		OwnerAddress: validOwner,
		Attributes: []AttributeInput{
			{TraitType: "Background", Value: "Blue"},
			{TraitType: "Level", Value: 5, DisplayType: "number"},
		},
	}
}

func TestCreateNFTSuccess(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.CreateNFT(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "QmImage1", result.ImageIPFSHash)
	assert.Equal(t, "QmMetadata", result.MetadataIPFSHash)
	assert.Equal(t, "ipfs://QmImage1", result.ImageIPFSURL)
	assert.Equal(t, "https://ipfs.filebase.io/ipfs/QmMetadata", result.MetadataGatewayURL)
	assert.NotEmpty(t, result.SessionID)

	// Ровно одна запись с двумя атрибутами
	require.Len(t, env.nfts.records, 1)
	nft := env.nfts.records[result.NFTID]
	require.NotNil(t, nft)
	assert.Len(t, nft.Attributes, 2)
	assert.Equal(t, "5", nft.Attributes[1].Value) // значение приводится к строке
	assert.NotEmpty(t, nft.ImageIPFSHash)
	assert.NotEmpty(t, nft.MetadataIPFSHash)
	assert.Equal(t, "image/jpeg", nft.ContentType)

	// Владелец нормализован в нижний регистр
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", nft.OwnerAddress)

	// Сессия завершена и связана с записью
	session := env.sessions.sessions[result.SessionID]
	require.NotNil(t, session)
	assert.Equal(t, model.UploadStatusCompleted, session.UploadStatus)
	assert.Equal(t, float64(100), session.ProgressPercentage)
	require.NotNil(t, session.NFTMetadataID)
	assert.Equal(t, result.NFTID, *session.NFTMetadataID)

	// Документ метаданных ссылается на образ через ipfs://
	doc, ok := env.uploader.lastDoc.(MetadataDocument)
	require.True(t, ok)
	assert.Equal(t, "ipfs://QmImage1", doc.Image)
	assert.Len(t, doc.Attributes, 2)
}

func TestCreateNFTUploadFailureMarksSessionFailed(t *testing.T) {
	env := newTestEnv()
	env.uploader.fileErr = &UploadError{Message: "failed to upload to Filebase"}

	_, err := env.service.CreateNFT(context.Background(), validRequest())
	require.Error(t, err)

	var assemblyErr *AssemblyError
	require.ErrorAs(t, err, &assemblyErr)
	require.NotEmpty(t, assemblyErr.SessionID)

	var uploadErr *UploadError
	assert.ErrorAs(t, err, &uploadErr)

	// Никаких записей, сессия failed с текстом ошибки
	assert.Empty(t, env.nfts.records)
	session := env.sessions.sessions[assemblyErr.SessionID]
	require.NotNil(t, session)
	assert.Equal(t, model.UploadStatusFailed, session.UploadStatus)
	assert.NotEmpty(t, session.ErrorMessage)
}

func TestCreateNFTCIDUnavailableMarksSessionFailed(t *testing.T) {
	env := newTestEnv()
	env.uploader.fileErr = &UploadError{
		Message: "failed to get IPFS CID from Filebase for art.png",
		Err:     ErrCIDUnavailable,
	}

	_, err := env.service.CreateNFT(context.Background(), validRequest())

	var assemblyErr *AssemblyError
	require.ErrorAs(t, err, &assemblyErr)
	assert.ErrorIs(t, err, ErrCIDUnavailable)

	assert.Empty(t, env.nfts.records)
	assert.Equal(t, model.UploadStatusFailed, env.sessions.sessions[assemblyErr.SessionID].UploadStatus)
}

func TestCreateNFTMetadataUploadFailure(t *testing.T) {
	env := newTestEnv()
	env.uploader.jsonErr = &UploadError{Message: "failed to upload to Filebase"}

	_, err := env.service.CreateNFT(context.Background(), validRequest())
	require.Error(t, err)

	assert.Empty(t, env.nfts.records)
}

func TestCreateNFTValidationLeavesNoState(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	req.OwnerAddress = "0x123"

	_, err := env.service.CreateNFT(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Details, "owner_address")

	// Ни сессии, ни записей
	assert.Empty(t, env.sessions.sessions)
	assert.Empty(t, env.nfts.records)
	assert.Zero(t, env.uploader.uploads)
}

func TestCreateNFTOwnerAddressValidation(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{"mixed case accepted", validOwner, true},
		{"lowercase accepted", "0xabcdef0123456789abcdef0123456789abcdef01", true},
		{"too short", "0x123", false},
		{"no 0x prefix", "abcdef0123456789abcdef0123456789abcdef0123", false},
		{"non-hex chars", "0xZZcdef0123456789abcdef0123456789abcdef01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := validRequest()
			req.OwnerAddress = tt.address

			_, err := env.service.CreateNFT(context.Background(), req)

			if tt.valid {
				assert.NoError(t, err)
			} else {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			}
		})
	}
}

func TestCreateNFTImageValidation(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		contentType string
		valid       bool
	}{
		{"oversized file rejected", 12 * 1024 * 1024, "image/png", false},
		{"pdf rejected", 2 * 1024 * 1024, "application/pdf", false},
		{"png accepted", 2 * 1024 * 1024, "image/png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := validRequest()
			req.ImageData = bytes.Repeat([]byte{0xCD}, tt.size)
			req.ContentType = tt.contentType

			_, err := env.service.CreateNFT(context.Background(), req)

			if tt.valid {
				assert.NoError(t, err)
			} else {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Details, "image")
			}
		})
	}
}

func TestCreateNFTUnknownCollectionRejected(t *testing.T) {
	env := newTestEnv()

	req := validRequest()
	missing := uint(42)
	req.CollectionID = &missing

	_, err := env.service.CreateNFT(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Details, "collection_id")
	assert.Empty(t, env.sessions.sessions)
}

func TestCreateNFTKnownCollectionAccepted(t *testing.T) {
	env := newTestEnv()
	env.collections.collections[7] = &model.NFTCollection{Name: "Known"}

	req := validRequest()
	known := uint(7)
	req.CollectionID = &known

	result, err := env.service.CreateNFT(context.Background(), req)
	require.NoError(t, err)

	nft := env.nfts.records[result.NFTID]
	require.NotNil(t, nft.CollectionID)
	assert.Equal(t, known, *nft.CollectionID)
}

func TestUploadImageNoPersistence(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.UploadImage(context.Background(), ImageUploadRequest{
		ImageData:   bytes.Repeat([]byte{0xAB}, 1024),
		Filename:    "solo.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, "QmImage1", result.IPFSHash)
	assert.Equal(t, "image/jpeg", result.ContentType)
	assert.Empty(t, env.sessions.sessions)
	assert.Empty(t, env.nfts.records)
}

func TestUploadImageValidation(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.UploadImage(context.Background(), ImageUploadRequest{
		ImageData:   bytes.Repeat([]byte{0xAB}, 1024),
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
