package handler

import (
	"errors"
	"log"
	"net/http"

	"pulsegram/internal/httputil"
	"pulsegram/internal/model"
	"pulsegram/internal/service"
	"pulsegram/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadAvatar accepts a multipart image and stores a normalized avatar
// POST /media/avatar
func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "avatar", func(r *http.Request, userID int64) (interface{}, error) {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, model.ErrUploadRequired
		}
		defer file.Close()
		return h.mediaService.UploadAvatar(r.Context(), userID, file, header)
	})
}

// UploadCover accepts a multipart cover image
// POST /media/cover
func (h *MediaHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "cover", func(r *http.Request, userID int64) (interface{}, error) {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, model.ErrUploadRequired
		}
		defer file.Close()
		return h.mediaService.UploadCover(r.Context(), userID, file, header)
	})
}

// UploadPostMedia accepts a multipart image or audio attachment
// POST /media/posts
func (h *MediaHandler) UploadPostMedia(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "post media", func(r *http.Request, userID int64) (interface{}, error) {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, model.ErrUploadRequired
		}
		defer file.Close()

		result, mediaType, err := h.mediaService.UploadPostMedia(r.Context(), userID, file, header)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"url":        result.URL,
			"key":        result.Key,
			"media_type": mediaType,
		}, nil
	})
}

func (h *MediaHandler) upload(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	fn func(r *http.Request, userID int64) (interface{}, error),
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxAudioSizeBytes) + 1024*1024 // form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	result, err := fn(r, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUploadRequired):
			httputil.WriteBadRequest(w, "A file upload is required")
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Upload exceeds the size limit")
		case errors.Is(err, model.ErrInvalidUpload):
			httputil.WriteBadRequest(w, "Unsupported upload content type")
		default:
			log.Printf("[ERROR] Upload %s handler: %v", kind, err)
			httputil.WriteInternalError(w, "Failed to upload "+kind)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
