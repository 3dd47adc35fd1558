package handler

import (
	"encoding/json"
	"net/http"
)

// Messages returned in failure envelopes.
const (
	MsgServerError      = "Server Error"
	MsgNoVideoID        = "No Video ID Provided"
	MsgInvalidVideoID   = "Invalid Video ID"
	MsgVideoNotFound    = "Video Doesn't Exist"
	MsgNoUsername       = "No Username Provided"
	MsgUserDoesNotExist = "User Doesn't Exist"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Envelope is the {success, data} wrapper used by the catalog endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fail writes a {success:false, message} envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success: false,
		Message: message,
	})
}
