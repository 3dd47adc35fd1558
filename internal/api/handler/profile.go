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

type VideoRef struct {
	VideoID string `json:"video_id"`
}

type BlogRef struct {
	BlogID string `json:"blog_id"`
}

type ProfileBody struct {
	Username    string     `json:"username"`
	TimeCreated time.Time  `json:"time_created"`
	Video       []VideoRef `json:"Video"`
	Blogs       []BlogRef  `json:"Blogs"`
}

type ProfileResponse struct {
	Success bool        `json:"success"`
	Profile ProfileBody `json:"profile"`
}

// ProfileHandler handles account profile requests.
type ProfileHandler struct {
	svc usecase.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get handles GET /api/profile?username=
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyUsername):
			Fail(w, http.StatusBadRequest, MsgNoUsername)
		case errors.Is(err, repository.ErrAccountNotFound):
			Fail(w, http.StatusNotFound, MsgUserDoesNotExist)
		default:
			slog.Error("profile request failed",
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
			Fail(w, http.StatusInternalServerError, MsgServerError)
		}
		return
	}

	JSON(w, http.StatusOK, ProfileResponse{
		Success: true,
		Profile: toProfileBody(profile),
	})
}

func toProfileBody(p *model.Profile) ProfileBody {
	body := ProfileBody{
		Username:    p.Username,
		TimeCreated: p.TimeCreated,
		Video:       make([]VideoRef, 0, len(p.VideoIDs)),
		Blogs:       make([]BlogRef, 0, len(p.BlogIDs)),
	}
	for _, id := range p.VideoIDs {
		body.Video = append(body.Video, VideoRef{VideoID: id})
	}
	for _, id := range p.BlogIDs {
		body.Blogs = append(body.Blogs, BlogRef{BlogID: id})
	}
	return body
}
