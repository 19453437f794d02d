package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/dailyquote/internal/common"
	sc "github.com/dmitrijs2005/dailyquote/internal/server/config"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/dmitrijs2005/dailyquote/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// uploadURLValidity bounds how long a presigned PUT stays usable.
const uploadURLValidity = 15 * time.Minute

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// objectPresigner is the part of *s3.PresignClient the service uses.
type objectPresigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Upload is a presigned PUT plus the public URL the object will have.
type Upload struct {
	UploadURL string
	PublicURL string
	Key       string
}

// StorageService presigns avatar uploads to the object store.
type StorageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config

	mu        sync.Mutex
	presigner objectPresigner
}

// NewStorageService builds the presigner lazily on the first upload.
func NewStorageService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *StorageService {
	return &StorageService{db: db, repomanager: repomanager, config: config}
}

// AvatarKey is the object key of a new profile picture: <userID>/<uuid>.<ext>.
func AvatarKey(userID, ext string) string {
	return fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)
}

func publicObjectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}

// newPresignClient signs for the configured S3-compatible endpoint with
// path-style addressing, which MinIO needs.
func newPresignClient(ctx context.Context, c *sc.Config) (*s3.PresignClient, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3RootUser, c.S3RootPassword, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s3.NewPresignClient(client), nil
}

// getPresigner builds the presign client on first use and keeps it.
func (s *StorageService) getPresigner(ctx context.Context) (objectPresigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presigner == nil {
		p, err := newPresignClient(ctx, s.config)
		if err != nil {
			return nil, err
		}
		s.presigner = p
	}
	return s.presigner, nil
}

// CreateAvatarUpload issues a presigned PUT for a new profile picture of
// userID and records the key so UpdateUser can later accept it.
func (s *StorageService) CreateAvatarUpload(ctx context.Context, userID, contentType string) (*Upload, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, common.NewValidationError("content_type", "must be one of: image/jpeg image/png image/webp image/gif")
	}

	presigner, err := s.getPresigner(ctx)
	if err != nil {
		return nil, err
	}

	bucket, key := s.config.S3Bucket, AvatarKey(userID, ext)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(uploadURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	if err := s.repomanager.Uploads(s.db).Create(ctx, &models.Upload{StorageKey: key, UserID: userID}); err != nil {
		return nil, err
	}

	return &Upload{
		UploadURL: req.URL,
		PublicURL: publicObjectURL(s.config.PublicBaseURL(), bucket, key),
		Key:       key,
	}, nil
}
