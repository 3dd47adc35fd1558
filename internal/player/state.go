package player

import "math"

// State is the playback lifecycle position.
type State int

const (
	StateIdle State = iota
	StateMetadataLoading
	StateReadyPaused
	StateReadyPlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMetadataLoading:
		return "loading"
	case StateReadyPaused:
		return "paused"
	case StateReadyPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// PlaybackState is a snapshot of what the player should display.
//
// Volume is the user-selected level and is left untouched by muting;
// the transport plays at zero while IsMuted is set.
type PlaybackState struct {
	Source       string
	State        State
	CurrentTime  float64
	Duration     float64
	Volume       float64
	IsMuted      bool
	IsPlaying    bool
	IsFullscreen bool
}

// Loaded reports whether media metadata is available.
func (s PlaybackState) Loaded() bool {
	return s.State == StateReadyPaused || s.State == StateReadyPlaying
}

func initialState() PlaybackState {
	return PlaybackState{
		State:    StateIdle,
		Duration: math.NaN(),
		Volume:   1,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
