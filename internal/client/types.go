package client

import "time"

// Uploader is the account nested under the "Account" key of a video record.
type Uploader struct {
	Username string `json:"username"`
}

// VideoSummary is one entry of GET /api/video/all.
type VideoSummary struct {
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Views     int64     `json:"views"`
	UploadAt  time.Time `json:"upload_at"`
	Thumbnail string    `json:"thumbnail"`
	Account   Uploader  `json:"Account"`
}

// VideoDetail is one entry of GET /api/video.
type VideoDetail struct {
	VideoSummary
	Description    string `json:"description"`
	Video          string `json:"video"`
	UploaderAvatar string `json:"uploader_avatar"`
}

type VideoRef struct {
	VideoID string `json:"video_id"`
}

type BlogRef struct {
	BlogID string `json:"blog_id"`
}

// Profile is the body of a successful GET /api/profile.
type Profile struct {
	Username    string     `json:"username"`
	TimeCreated time.Time  `json:"time_created"`
	Video       []VideoRef `json:"Video"`
	Blogs       []BlogRef  `json:"Blogs"`
}

type detailEnvelope struct {
	Success bool          `json:"success"`
	Data    []VideoDetail `json:"data"`
	Message string        `json:"message"`
}

type profileEnvelope struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile"`
	Message string   `json:"message"`
}

// statusEnvelope leaves Success nil when the body omits it.
type statusEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}
