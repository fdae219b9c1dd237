package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"ieltsprep/internal/config"
	"ieltsprep/pkg/logger"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StorageProvider stores uploaded media under opaque keys
type StorageProvider interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Open returns the object and its content type, or ErrMediaNotFound
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// LocalStorageProvider keeps media on the local filesystem
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) path(key string) string {
	return filepath.Join(p.Root, filepath.FromSlash(key))
}

func (p *LocalStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := p.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (p *LocalStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f, err := os.Open(p.path(key))
	if os.IsNotExist(err) {
		return nil, "", ErrMediaNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return f, mime.TypeByExtension(filepath.Ext(key)), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(p.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MinioStorageProvider keeps media in an S3-compatible bucket
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

// NewMinioStorageProvider connects to MinIO and creates the bucket if needed
func NewMinioStorageProvider(ctx context.Context, cfg config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create bucket")
		}
		logger.Log.Info("created media bucket", zap.String("bucket", cfg.MinioBucket))
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioStorageProvider) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	info, err := p.Client.StatObject(ctx, p.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrMediaNotFound
		}
		return nil, "", err
	}
	obj, err := p.Client.GetObject(ctx, p.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	return obj, info.ContentType, nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

// NewStorageProvider builds the provider selected by storage.type
func NewStorageProvider(ctx context.Context, cfg config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case "minio":
		return NewMinioStorageProvider(ctx, cfg)
	case "local", "":
		return &LocalStorageProvider{Root: cfg.LocalPath}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// MaxMediaSize bounds a single upload
const MaxMediaSize = 10 << 20

var allowedMedia = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// MediaService stores writing-task charts and extraction sources
type MediaService struct {
	storage StorageProvider
}

// NewMediaService creates a new media service
func NewMediaService(storage StorageProvider) *MediaService {
	return &MediaService{storage: storage}
}

// Upload stores a file under a fresh key, namespaced by uploader
func (s *MediaService) Upload(ctx context.Context, ownerID, contentType string, reader io.Reader, size int64) (string, error) {
	contentType = normalizeMime(contentType)
	ext, ok := allowedMedia[contentType]
	if !ok {
		return "", NewValidationError(fmt.Sprintf("unsupported file type %q", contentType),
			FieldError{Field: "file", Error: "must be a PNG, JPEG, WEBP, GIF image or a PDF"})
	}
	if size > MaxMediaSize {
		return "", NewValidationError("file too large",
			FieldError{Field: "file", Error: fmt.Sprintf("must be at most %d MB", MaxMediaSize>>20)})
	}

	key := fmt.Sprintf("media/%s/%s%s", ownerID, uuid.NewString(), ext)
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		logger.Log.Error("media upload failed", zap.String("key", key), zap.Error(err))
		return "", errors.Wrap(err, "upload media")
	}
	return key, nil
}

// Open streams a stored file. Only keys minted by Upload resolve.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !validMediaKey(key) {
		return nil, "", ErrMediaNotFound
	}
	return s.storage.Open(ctx, key)
}

func validMediaKey(key string) bool {
	if !strings.HasPrefix(key, "media/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// LoadBase64 reads a stored file for an AI request
func (s *MediaService) LoadBase64(ctx context.Context, key string) (string, string, error) {
	rc, contentType, err := s.Open(ctx, key)
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxMediaSize+1))
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(data), contentType, nil
}

func normalizeMime(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
