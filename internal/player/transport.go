// Package player controls playback of a single media resource and derives
// display state from the events the resource reports.
package player

// EventType identifies a notification delivered by a Transport or FullscreenHost.
type EventType int

const (
	EventTimeUpdate EventType = iota + 1
	EventLoadedMetadata
	EventDurationChange
	EventPlay
	EventPause
	EventEnded
	EventFullscreenChange
)

var eventNames = map[EventType]string{
	EventTimeUpdate:       "timeupdate",
	EventLoadedMetadata:   "loadedmetadata",
	EventDurationChange:   "durationchange",
	EventPlay:             "play",
	EventPause:            "pause",
	EventEnded:            "ended",
	EventFullscreenChange: "fullscreenchange",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is a single notification. The controller reads current values back
// from the Transport or FullscreenHost, so events carry no payload beyond
// the generation of the resource that produced them.
//
// Generation is the value passed to Transport.Load for the resource that
// raised the event. Host events leave it zero; they are not tied to a
// resource.
type Event struct {
	Type       EventType
	Generation uint64
}

// Transport is a playable media resource with native controls.
//
// Implementations must not call Controller.HandleEvent synchronously from
// any of these methods; events are delivered through a separate goroutine
// (see Controller.Run).
type Transport interface {
	// Load binds the transport to src and resets position and duration.
	// Every event raised for this resource must carry generation, so that
	// events still queued from an earlier resource can be told apart.
	Load(src string, generation uint64) error
	// Unload releases the current resource.
	Unload()
	// Play requests playback. It may fail, for example when autoplay is blocked.
	Play() error
	Pause() error
	// SetCurrentTime moves the playhead. The transport clamps to its own bounds.
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	// Duration is NaN until metadata has loaded.
	Duration() float64
	SetVolume(level float64)
	Volume() float64
}

// FullscreenHost is the surface that can present the player fullscreen.
//
// As with Transport, implementations must not call Controller.HandleEvent
// synchronously from these methods. Fullscreen changes are reported as
// EventFullscreenChange on a channel passed to Controller.Run.
type FullscreenHost interface {
	RequestFullscreen() error
	ExitFullscreen() error
	// IsFullscreen reports the host's authoritative fullscreen state.
	IsFullscreen() bool
}
