package model

import "errors"

// Blob namespaces. Object keys are namespace/ownerID/filename.
const (
	NamespaceAvatars = "avatars"
	NamespaceCovers  = "covers"
	NamespacePosts   = "posts"
)

const (
	MaxImageSizeBytes = 10 * 1024 * 1024
	MaxAudioSizeBytes = 20 * 1024 * 1024

	AvatarWidth        = 400
	AvatarHeight       = 400
	AvatarCacheControl = "public, max-age=31536000" // 1 year
)

// Supported content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
	ContentTypeMP3  = "audio/mpeg"
	ContentTypeOGG  = "audio/ogg"
)

var allowedImageTypes = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeWebP: ".webp",
}

var allowedAudioTypes = map[string]string{
	ContentTypeMP3: ".mp3",
	ContentTypeOGG: ".ogg",
}

// ImageExt returns the file extension for an allowed image content type.
func ImageExt(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	return ext, ok
}

// AudioExt returns the file extension for an allowed audio content type.
func AudioExt(contentType string) (string, bool) {
	ext, ok := allowedAudioTypes[contentType]
	return ext, ok
}

// UploadResult represents the uploaded object location.
// URL is the public-facing URL; Key is the object key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidUpload  = errors.New("unsupported upload content type")
	ErrUploadRequired = errors.New("a file upload is required")
)
