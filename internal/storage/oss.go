package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	_ "github.com/chai2010/webp" // registers webp with image.DecodeConfig
	"github.com/google/uuid"
	_ "image/jpeg"
	_ "image/png"

	"schoolsite/internal/config"
	"schoolsite/internal/domain"
)

// OSS streams files to an aliyun object-storage bucket. The oss.Client
// is connection-pooled and safe for concurrent use.
type OSS struct {
	bucket     *oss.Bucket
	prefix     string
	publicBase string
	timeout    time.Duration
}

func NewOSS(cfg *config.Config) (*OSS, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	publicBase := cfg.OSSPublicBase
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.%s", cfg.OSSBucket, strings.TrimPrefix(cfg.OSSEndpoint, "https://"))
	}

	return &OSS{
		bucket:     bucket,
		prefix:     cfg.OSSPrefix,
		publicBase: publicBase,
		timeout:    cfg.OSSTimeout,
	}, nil
}

func (o *OSS) Save(ctx context.Context, f File) (*domain.Attachment, error) {
	ext := strings.ToLower(path.Ext(f.OriginalName))
	if ext == "" {
		ext = extForMime(f.MimeType)
	}
	id := uuid.New().String()
	key := path.Join(o.prefix, f.Folder, id+ext)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	err := o.bucket.PutObject(key, bytes.NewReader(f.Data),
		oss.ContentType(f.MimeType),
		oss.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("oss put %s: %w", key, err)
	}

	att := &domain.Attachment{
		FileName:     id + ext,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		MimeType:     f.MimeType,
		Storage:      domain.StorageRemote,
		URL:          o.publicBase + "/" + key,
		ObjectKey:    key,
		Format:       strings.TrimPrefix(ext, "."),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err == nil {
		att.Width = cfg.Width
		att.Height = cfg.Height
	}
	return att, nil
}

func (o *OSS) Delete(ctx context.Context, att *domain.Attachment) bool {
	if att == nil || att.ObjectKey == "" {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if err := o.bucket.DeleteObject(att.ObjectKey, oss.WithContext(ctx)); err != nil {
		log.Printf("storage_delete_failed backend=oss key=%s error=%q", att.ObjectKey, err)
		return false
	}
	return true
}
