package handler

import (
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Elementlead/PbimageS/internal/middleware"
	"github.com/Elementlead/PbimageS/internal/models"
	"github.com/Elementlead/PbimageS/internal/pkg/apierrors"
	"github.com/Elementlead/PbimageS/internal/pkg/response"
	"github.com/Elementlead/PbimageS/internal/service"
)

// ImageHandler handles image list, upload, and delete requests. All routes
// require an authenticated user in the request context.
type ImageHandler struct {
	imageService service.ImageService
	maxBytes     int64
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService service.ImageService, maxBytes int64) *ImageHandler {
	return &ImageHandler{imageService: imageService, maxBytes: maxBytes}
}

// Routes returns a chi router with the image routes.
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/upload", h.Upload)
	r.Delete("/{id}", h.Delete)

	return r
}

// ImageResponse is the wire representation of a stored image. The payload is
// base64 encoded so clients can render it without a second fetch.
type ImageResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Caption     string    `json:"caption"`
	IsPrivate   bool      `json:"is_private"`
	ImageData   string    `json:"image_data"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

func toImageResponse(img *models.Image) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		Filename:    img.Filename,
		Caption:     img.Caption,
		IsPrivate:   img.IsPrivate,
		ImageData:   base64.StdEncoding.EncodeToString(img.Data),
		ContentType: img.ContentType,
		FileSize:    img.FileSize,
		CreatedAt:   img.CreatedAt,
	}
}

// List handles GET /api/images?private={bool}
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w)
		return
	}

	var private *bool
	if raw := r.URL.Query().Get("private"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid private filter"))
			return
		}
		private = &parsed
	}

	images, err := h.imageService.List(r.Context(), userID, private)
	if err != nil {
		response.Error(w, err)
		return
	}

	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, toImageResponse(img))
	}
	response.OK(w, out)
}

// Upload handles POST /api/images/upload as multipart form data with the
// fields file, caption, and is_private.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, apierrors.NewValidationError("file", "file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Could not read file"))
		return
	}

	isPrivate, _ := strconv.ParseBool(r.FormValue("is_private"))

	img, err := h.imageService.Upload(r.Context(), service.UploadRequest{
		UserID:      userID,
		Filename:    header.Filename,
		Caption:     r.FormValue("caption"),
		IsPrivate:   isPrivate,
		ContentType: uploadContentType(header.Header.Get("Content-Type"), header.Filename),
		Data:        data,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, toImageResponse(img))
}

// Delete handles DELETE /api/images/{id}
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w)
		return
	}

	imageID := chi.URLParam(r, "id")
	if imageID == "" {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Image ID is required"))
		return
	}

	if err := h.imageService.Delete(r.Context(), userID, imageID); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// uploadContentType prefers the declared part type and falls back to the
// filename extension for clients that omit it.
func uploadContentType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return declared
}
