package model

import (
	"errors"
	"strings"
	"time"
)

// Uploader identifies the account that published a video.
type Uploader struct {
	Username string
}

// Video represents a catalog entry joined with its uploader.
//
// MediaURL and Thumbnail hold either an absolute URL or an object key
// inside the media bucket. Object keys are resolved to signed URLs
// before leaving the service.
type Video struct {
	ID             string
	Title          string
	Description    string
	Views          int64
	UploadAt       time.Time
	Thumbnail      string
	MediaURL       string
	UploaderAvatar string
	Uploader       Uploader
}

var (
	ErrEmptyVideoID   = errors.New("video ID cannot be empty")
	ErrVideoIDTooLong = errors.New("video ID exceeds maximum length of 64 characters")
	ErrEmptyUsername  = errors.New("username cannot be empty")
)

const maxVideoIDLength = 64

// ValidateVideoID checks that id can address a video row.
func ValidateVideoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyVideoID
	}
	if len(id) > maxVideoIDLength {
		return ErrVideoIDTooLong
	}
	return nil
}

// IsObjectKey reports whether ref names an object in the media bucket
// rather than an absolute URL.
func IsObjectKey(ref string) bool {
	if ref == "" {
		return false
	}
	return !strings.Contains(ref, "://") && !strings.HasPrefix(ref, "/")
}

// Clone returns a shallow copy safe to modify without touching cached data.
func (v *Video) Clone() *Video {
	c := *v
	return &c
}
