package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hszk-dev/vidshare/internal/api/middleware"
	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/usecase"
)

// Response types

// AccountRef is the uploader nested under the "Account" key.
type AccountRef struct {
	Username string `json:"username"`
}

type VideoSummaryResponse struct {
	VideoID   string     `json:"video_id"`
	Title     string     `json:"title"`
	Views     int64      `json:"views"`
	UploadAt  time.Time  `json:"upload_at"`
	Thumbnail string     `json:"thumbnail"`
	Account   AccountRef `json:"Account"`
}

type VideoDetailResponse struct {
	VideoSummaryResponse
	Description    string `json:"description"`
	Video          string `json:"video"`
	UploaderAvatar string `json:"uploader_avatar"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// All handles GET /api/video/all
// The body is a bare array, [] for an empty catalog.
func (h *VideoHandler) All(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.ListVideos(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	out := make([]VideoSummaryResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toSummaryResponse(v))
	}
	JSON(w, http.StatusOK, out)
}

// List handles GET /api/video
// An optional id query parameter narrows the result to one video.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.svc.GetVideos(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	out := make([]VideoDetailResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toDetailResponse(v))
	}
	JSON(w, http.StatusOK, Envelope{Success: true, Data: out})
}

// RecordView handles POST /api/video/views?id=
func (h *VideoHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		Fail(w, http.StatusBadRequest, MsgNoVideoID)
		return
	}

	if err := h.svc.RecordView(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, Envelope{Success: true})
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyVideoID):
		Fail(w, http.StatusBadRequest, MsgNoVideoID)
	case errors.Is(err, model.ErrVideoIDTooLong):
		Fail(w, http.StatusBadRequest, MsgInvalidVideoID)
	case errors.Is(err, repository.ErrVideoNotFound):
		Fail(w, http.StatusNotFound, MsgVideoNotFound)
	default:
		slog.Error("video request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		Fail(w, http.StatusInternalServerError, MsgServerError)
	}
}

func toSummaryResponse(v *model.Video) VideoSummaryResponse {
	return VideoSummaryResponse{
		VideoID:   v.ID,
		Title:     v.Title,
		Views:     v.Views,
		UploadAt:  v.UploadAt,
		Thumbnail: v.Thumbnail,
		Account:   AccountRef{Username: v.Uploader.Username},
	}
}

func toDetailResponse(v *model.Video) VideoDetailResponse {
	return VideoDetailResponse{
		VideoSummaryResponse: toSummaryResponse(v),
		Description:          v.Description,
		Video:                v.MediaURL,
		UploaderAvatar:       v.UploaderAvatar,
	}
}
