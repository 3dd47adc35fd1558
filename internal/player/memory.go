package player

import (
	"errors"
	"math"
	"sync"
)

const memoryEventBuffer = 256

// ErrPlaybackBlocked is returned by MemoryTransport.Play when blocking is enabled.
var ErrPlaybackBlocked = errors.New("player: playback blocked")

// MemoryTransport is an in-process Transport that simulates a media element.
// Events are queued on Events() and never delivered synchronously.
type MemoryTransport struct {
	mu         sync.Mutex
	src        string
	generation uint64
	loaded     bool
	position   float64
	duration   float64
	volume     float64
	playing    bool
	blocked    bool
	events     chan Event
}

// NewMemoryTransport creates an unloaded MemoryTransport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		duration: math.NaN(),
		volume:   1,
		events:   make(chan Event, memoryEventBuffer),
	}
}

// Events returns the channel notifications are queued on.
func (m *MemoryTransport) Events() <-chan Event {
	return m.events
}

func (m *MemoryTransport) Load(src string, generation uint64) error {
	if src == "" {
		return errors.New("empty source")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.src = src
	m.generation = generation
	m.loaded = true
	m.position = 0
	m.duration = math.NaN()
	m.playing = false
	return nil
}

func (m *MemoryTransport) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.src = ""
	m.loaded = false
	m.position = 0
	m.duration = math.NaN()
	m.playing = false
}

// SetMetadata simulates the resource reporting its duration.
func (m *MemoryTransport) SetMetadata(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return
	}
	first := math.IsNaN(m.duration)
	m.duration = duration
	if m.position > duration {
		m.position = duration
	}
	if first {
		m.emit(EventLoadedMetadata)
	} else {
		m.emit(EventDurationChange)
	}
}

// Block makes subsequent Play calls fail, as an autoplay policy would.
func (m *MemoryTransport) Block(blocked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocked = blocked
}

func (m *MemoryTransport) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return errors.New("no source")
	}
	if m.blocked {
		return ErrPlaybackBlocked
	}
	if !m.playing {
		m.playing = true
		m.emit(EventPlay)
	}
	return nil
}

func (m *MemoryTransport) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playing {
		m.playing = false
		m.emit(EventPause)
	}
	return nil
}

// SetCurrentTime clamps to [0, duration], or to [0, +Inf) before metadata loads.
func (m *MemoryTransport) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return
	}
	m.position = m.clampPosition(seconds)
	m.emit(EventTimeUpdate)
}

// Advance simulates playback progress while playing.
// Reaching the end stops playback and queues EventEnded.
func (m *MemoryTransport) Advance(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing {
		return
	}
	m.position = m.clampPosition(m.position + seconds)
	m.emit(EventTimeUpdate)
	if !math.IsNaN(m.duration) && m.position >= m.duration {
		m.playing = false
		m.emit(EventEnded)
	}
}

func (m *MemoryTransport) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MemoryTransport) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MemoryTransport) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(level, 0, 1)
}

func (m *MemoryTransport) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Source returns the loaded source, or "" when unloaded.
func (m *MemoryTransport) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

// Playing reports the transport's own playing flag.
func (m *MemoryTransport) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *MemoryTransport) clampPosition(seconds float64) float64 {
	if seconds < 0 || math.IsNaN(seconds) {
		return 0
	}
	if !math.IsNaN(m.duration) && seconds > m.duration {
		return m.duration
	}
	return seconds
}

// emit queues ev stamped with the loaded generation, dropping it when the
// buffer is full. Callers hold m.mu.
func (m *MemoryTransport) emit(ev EventType) {
	select {
	case m.events <- Event{Type: ev, Generation: m.generation}:
	default:
	}
}

// MemoryHost is an in-process FullscreenHost.
// Fullscreen changes are queued on Events() like a window system would report them.
type MemoryHost struct {
	mu         sync.Mutex
	fullscreen bool
	denied     bool
	events     chan Event
}

// NewMemoryHost creates a host that starts windowed.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{events: make(chan Event, memoryEventBuffer)}
}

func (h *MemoryHost) Events() <-chan Event {
	return h.events
}

// Deny makes subsequent fullscreen requests fail.
func (h *MemoryHost) Deny(denied bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.denied = denied
}

func (h *MemoryHost) RequestFullscreen() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.denied {
		return errors.New("fullscreen request denied")
	}
	if !h.fullscreen {
		h.fullscreen = true
		h.emit()
	}
	return nil
}

func (h *MemoryHost) ExitFullscreen() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fullscreen {
		h.fullscreen = false
		h.emit()
	}
	return nil
}

// ForceExit simulates the user leaving fullscreen outside the player, such as pressing Escape.
func (h *MemoryHost) ForceExit() {
	_ = h.ExitFullscreen()
}

func (h *MemoryHost) IsFullscreen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fullscreen
}

func (h *MemoryHost) emit() {
	select {
	case h.events <- Event{Type: EventFullscreenChange}:
	default:
	}
}
