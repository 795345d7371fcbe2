package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"pulsegram/internal/config"
	"pulsegram/internal/model"
)

// MediaService handles media uploads to Cloudflare R2.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadAvatar enforces size/type, normalizes to a square JPEG and
// uploads under avatars/<userID>/.
func (s *MediaService) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, _, err := readUpload(file, header, model.MaxImageSizeBytes, model.ImageExt)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, model.AvatarWidth, model.AvatarHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d/%s.jpg", model.NamespaceAvatars, userID, uuid.NewString())

	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// UploadCover stores a cover image as-is under covers/<userID>/.
func (s *MediaService) UploadCover(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	data, contentType, err := readUpload(file, header, model.MaxImageSizeBytes, model.ImageExt)
	if err != nil {
		return nil, err
	}

	ext, _ := model.ImageExt(contentType)
	key := fmt.Sprintf("%s/%d/%s%s", model.NamespaceCovers, userID, uuid.NewString(), ext)

	if err := s.putObject(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// UploadPostMedia stores a post attachment (image or audio) under
// posts/<userID>/ and reports the media type for the post row.
func (s *MediaService) UploadPostMedia(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, string, error) {
	data, contentType, err := readUpload(file, header, model.MaxImageSizeBytes, model.ImageExt)
	mediaType := model.MediaTypeImage
	if err == model.ErrInvalidUpload {
		data, contentType, err = readUpload(file, header, model.MaxAudioSizeBytes, model.AudioExt)
		mediaType = model.MediaTypeAudio
	}
	if err != nil {
		return nil, "", err
	}

	var ext string
	if mediaType == model.MediaTypeImage {
		ext, _ = model.ImageExt(contentType)
	} else {
		ext, _ = model.AudioExt(contentType)
	}

	key := fmt.Sprintf("%s/%d/%s%s", model.NamespacePosts, userID, uuid.NewString(), ext)

	if err := s.putObject(ctx, key, data, contentType); err != nil {
		return nil, "", err
	}

	return &model.UploadResult{URL: s.objectURL(key), Key: key}, mediaType, nil
}

// DeleteObject removes an object by key.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from r2: %w", err)
	}
	return nil
}

func (s *MediaService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// putObject uploads bytes to R2.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(model.AvatarCacheControl),
	})
	if err != nil {
		return fmt.Errorf("upload to r2: %w", err)
	}
	return nil
}

// readUpload loads the upload into memory with size and content-type
// checks. allowed maps a content type to its file extension.
func readUpload(file multipart.File, header *multipart.FileHeader, maxSize int64, allowed func(string) (string, bool)) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("rewind upload: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, "", model.ErrUploadRequired
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if _, ok := allowed(contentType); !ok {
		return nil, "", model.ErrInvalidUpload
	}

	return data, contentType, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
