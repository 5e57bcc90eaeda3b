package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"nftforge/nft_backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/uuid"
)

// ResolvePolicy controls the wait between an upload and the HEAD request
// that reads back the store-assigned CID. Filebase derives the CID
// asynchronously, so a fresh object may not carry it yet. Tests inject a
// zero-delay policy.
type ResolvePolicy struct {
	Wait     time.Duration
	Attempts int
}

var DefaultResolvePolicy = ResolvePolicy{Wait: time.Second, Attempts: 1}

// objectStoreAPI is the slice of the S3 client the uploader touches,
// extracted so tests can substitute a fake store.
type objectStoreAPI interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// FilebaseService uploads blobs to IPFS through Filebase's S3-compatible
// API and resolves the CID the network assigned to each upload.
type FilebaseService struct {
	client      objectStoreAPI
	uploader    *manager.Uploader
	bucket      string
	gatewayHost string
	policy      ResolvePolicy
}

func NewFilebaseService(cfg *config.Config) (*FilebaseService, error) {
	if !cfg.IPFSConfigured() {
		return nil, fmt.Errorf("filebase credentials not configured")
	}

	credsProvider := credentials.NewStaticCredentialsProvider(
		cfg.FilebaseAccessKey,
		cfg.FilebaseSecretKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.FilebaseRegion),
		awsconfig.WithCredentialsProvider(credsProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.FilebaseEndpoint)
		o.UsePathStyle = true // обязательно для Filebase
	})

	service := &FilebaseService{
		client:      s3Client,
		uploader:    manager.NewUploader(s3Client),
		bucket:      cfg.FilebaseBucketName,
		gatewayHost: cfg.IPFSGatewayHost,
		policy:      DefaultResolvePolicy,
	}

	if err := service.EnsureBucket(context.Background()); err != nil {
		log.Printf("Bucket check failed: %v", err)
	}

	log.Printf("🔧 Filebase service initialized with endpoint: %s", cfg.FilebaseEndpoint)
	return service, nil
}

// EnsureBucket checks that the configured bucket exists and creates it if
// it does not. Best effort: a failed check is logged by the caller, not
// treated as fatal.
func (s *FilebaseService) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		log.Printf("Bucket %s exists", s.bucket)
		return nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(s.bucket),
		}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Created Filebase bucket: %s", s.bucket)
		return nil
	}

	return fmt.Errorf("error checking bucket: %w", err)
}

// ObjectKey derives the store key for a blob: the first 16 hex characters
// of its SHA-256 plus the original filename. Deterministic on content and
// name, so identical uploads de-duplicate naturally.
func ObjectKey(data []byte, filename string) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x_%s", sum[:8], filename)
}

// UploadFile uploads a blob and returns the IPFS CID Filebase assigned to
// it. Any store failure comes back as an *UploadError.
func (s *FilebaseService) UploadFile(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := ObjectKey(data, filename)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-type":       "nft-file",
		},
	})
	if err != nil {
		return "", &UploadError{Message: "failed to upload to Filebase", Err: err}
	}

	cid, err := s.resolveCID(ctx, key, filename)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Uploaded %s to Filebase with CID: %s", filename, cid)
	return cid, nil
}

// UploadJSON marshals a document and uploads it under a random
// metadata_<uuid>.json name.
func (s *FilebaseService) UploadJSON(ctx context.Context, doc interface{}) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &UploadError{Message: "failed to encode metadata", Err: err}
	}

	filename := fmt.Sprintf("metadata_%s.json", uuid.New().String())
	return s.UploadFile(ctx, data, filename, "application/json")
}

func (s *FilebaseService) IPFSURL(cid string) string {
	return fmt.Sprintf("ipfs://%s", cid)
}

func (s *FilebaseService) GatewayURL(cid string) string {
	return fmt.Sprintf("https://%s/ipfs/%s", s.gatewayHost, cid)
}

// resolveCID reads the object back after the policy wait and extracts the
// CID Filebase attached to it.
func (s *FilebaseService) resolveCID(ctx context.Context, key, filename string) (string, error) {
	attempts := s.policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		// Filebase проставляет CID асинхронно
		if s.policy.Wait > 0 {
			time.Sleep(s.policy.Wait)
		}

		var rawHeaders http.Header
		out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}, s3.WithAPIOptions(captureRawHeaders(&rawHeaders)))
		if err != nil {
			return "", &UploadError{Message: "failed to read object info from Filebase", Err: err}
		}

		if cid := extractCID(out.Metadata, rawHeaders); cid != "" {
			return cid, nil
		}
	}

	return "", &UploadError{
		Message: fmt.Sprintf("failed to get IPFS CID from Filebase for %s", filename),
		Err:     ErrCIDUnavailable,
	}
}

// extractCID picks the CID out of the object's user metadata, falling
// back to the raw x-amz-meta-cid response header. The store's own ETag is
// deliberately never used: it is a versioning hash, not a CID.
func extractCID(metadata map[string]string, headers http.Header) string {
	if cid := metadata["cid"]; cid != "" {
		return cid
	}
	return headers.Get("x-amz-meta-cid")
}

// captureRawHeaders snapshots the raw HTTP response headers of a single
// S3 call, for the header-based CID fallback.
func captureRawHeaders(dst *http.Header) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Deserialize.Add(middleware.DeserializeMiddlewareFunc(
			"CaptureRawHeaders",
			func(ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler) (middleware.DeserializeOutput, middleware.Metadata, error) {
				out, md, err := next.HandleDeserialize(ctx, in)
				if resp, ok := out.RawResponse.(*smithyhttp.Response); ok && resp != nil {
					*dst = resp.Header.Clone()
				}
				return out, md, err
			},
		), middleware.After)
	}
}
