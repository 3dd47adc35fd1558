package model

import "time"

// Profile is the public view of an account together with the content it owns.
type Profile struct {
	Username    string
	TimeCreated time.Time
	VideoIDs    []string
	BlogIDs     []string
}
