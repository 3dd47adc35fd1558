package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotAttached is returned by operations that need a bound resource.
var ErrNotAttached = errors.New("player: no media attached")

// Controller drives one Transport and keeps a PlaybackState in sync with it.
//
// The playing flag is flipped optimistically by TogglePlay and corrected by
// native play/pause/ended events. The fullscreen flag changes only on
// EventFullscreenChange.
//
// Each Attach and Detach starts a new generation. Transport events stamped
// with any other generation belong to a released resource and are dropped.
type Controller struct {
	mu          sync.Mutex
	transport   Transport
	host        FullscreenHost
	state       PlaybackState
	generation  uint64
	lastAudible float64
	subscribers map[int]func(PlaybackState)
	nextSubID   int
	logger      *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for transport failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a Controller. host may be nil when fullscreen is unsupported.
func NewController(transport Transport, host FullscreenHost, opts ...Option) *Controller {
	c := &Controller{
		transport:   transport,
		host:        host,
		state:       initialState(),
		lastAudible: 1,
		subscribers: make(map[int]func(PlaybackState)),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the controller to src. Any previous resource is released
// and state is reset, keeping the user's volume and mute choice.
func (c *Controller) Attach(src string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.State != StateIdle {
		c.transport.Unload()
	}

	volume, muted := c.state.Volume, c.state.IsMuted
	c.state = initialState()
	c.state.Volume, c.state.IsMuted = volume, muted
	if c.host != nil {
		c.state.IsFullscreen = c.host.IsFullscreen()
	}

	c.generation++
	if err := c.transport.Load(src, c.generation); err != nil {
		c.notifyLocked()
		return fmt.Errorf("load %s: %w", src, err)
	}

	if muted {
		c.transport.SetVolume(0)
	} else {
		c.transport.SetVolume(volume)
	}

	c.state.Source = src
	c.state.State = StateMetadataLoading
	c.notifyLocked()
	return nil
}

// Detach releases the resource and returns to Idle.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.State == StateIdle {
		return
	}

	c.transport.Unload()
	c.generation++
	volume, muted, fullscreen := c.state.Volume, c.state.IsMuted, c.state.IsFullscreen
	c.state = initialState()
	c.state.Volume, c.state.IsMuted, c.state.IsFullscreen = volume, muted, fullscreen
	c.notifyLocked()
}

// TogglePlay requests pause when playing and play otherwise.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.State == StateIdle {
		return ErrNotAttached
	}

	if c.state.IsPlaying {
		c.setPlayingLocked(false)
		if err := c.transport.Pause(); err != nil {
			c.logger.Warn("pause request failed", "source", c.state.Source, "error", err)
			c.setPlayingLocked(true)
			c.notifyLocked()
			return fmt.Errorf("pause: %w", err)
		}
		c.notifyLocked()
		return nil
	}

	c.setPlayingLocked(true)
	if err := c.transport.Play(); err != nil {
		c.logger.Warn("play request failed", "source", c.state.Source, "error", err)
		c.setPlayingLocked(false)
		c.notifyLocked()
		return fmt.Errorf("play: %w", err)
	}
	c.notifyLocked()
	return nil
}

// Seek moves the playhead. The position is read back from the transport,
// which owns clamping to the resource bounds.
func (c *Controller) Seek(target float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.State == StateIdle {
		return ErrNotAttached
	}
	if !isFinite(target) {
		return fmt.Errorf("seek: invalid position %v", target)
	}

	c.transport.SetCurrentTime(target)
	c.readTimeLocked()
	c.notifyLocked()
	return nil
}

// SetVolume sets the level, clamped to [0, 1]. Zero counts as muted.
func (c *Controller) SetVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !isFinite(level) {
		return
	}
	level = clamp(level, 0, 1)

	c.transport.SetVolume(level)
	c.state.Volume = level
	c.state.IsMuted = level == 0
	if level > 0 {
		c.lastAudible = level
	}
	c.notifyLocked()
}

// ToggleMute silences the transport or restores the stored volume.
// Volume is never modified by muting, so two toggles are an exact round trip.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsMuted {
		if c.state.Volume == 0 {
			c.state.Volume = c.lastAudible
		}
		c.transport.SetVolume(c.state.Volume)
		c.state.IsMuted = false
	} else {
		c.transport.SetVolume(0)
		c.state.IsMuted = true
	}
	c.notifyLocked()
}

// ToggleFullscreen asks the host to enter or leave fullscreen. IsFullscreen
// is updated when the host reports EventFullscreenChange.
// The host is called without holding the controller lock.
func (c *Controller) ToggleFullscreen() error {
	if c.host == nil {
		return errors.New("player: fullscreen is not supported")
	}

	if c.host.IsFullscreen() {
		if err := c.host.ExitFullscreen(); err != nil {
			return fmt.Errorf("exit fullscreen: %w", err)
		}
		return nil
	}
	if err := c.host.RequestFullscreen(); err != nil {
		return fmt.Errorf("request fullscreen: %w", err)
	}
	return nil
}

// HandleEvent applies a transport or host notification.
func (c *Controller) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Type == EventFullscreenChange {
		if c.host != nil {
			c.state.IsFullscreen = c.host.IsFullscreen()
			c.notifyLocked()
		}
		return
	}

	// Late events from a released or replaced resource.
	if c.state.State == StateIdle || ev.Generation != c.generation {
		return
	}

	switch ev.Type {
	case EventTimeUpdate:
		c.readTimeLocked()
	case EventLoadedMetadata:
		c.state.Duration = c.transport.Duration()
		c.readTimeLocked()
		if c.state.State == StateMetadataLoading {
			c.state.State = StateReadyPaused
			if c.state.IsPlaying {
				c.state.State = StateReadyPlaying
			}
		}
	case EventDurationChange:
		c.state.Duration = c.transport.Duration()
		c.readTimeLocked()
	case EventPlay:
		c.setPlayingLocked(true)
	case EventPause, EventEnded:
		c.setPlayingLocked(false)
	default:
		return
	}
	c.notifyLocked()
}

// Run delivers events from every source to HandleEvent until ctx is done
// or all sources are closed. Order is preserved within a source.
func (c *Controller) Run(ctx context.Context, sources ...<-chan Event) {
	var wg sync.WaitGroup
	for _, events := range sources {
		wg.Add(1)
		go func(events <-chan Event) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-events:
					if !ok {
						return
					}
					c.HandleEvent(ev)
				}
			}
		}(events)
	}
	wg.Wait()
}

// Drain applies every event already queued on sources and returns how many
// were delivered. It never blocks waiting for new events.
func (c *Controller) Drain(sources ...<-chan Event) int {
	n := 0
	for {
		delivered := false
		for _, events := range sources {
			select {
			case ev, ok := <-events:
				if !ok {
					continue
				}
				c.HandleEvent(ev)
				delivered = true
				n++
			default:
			}
		}
		if !delivered {
			return n
		}
	}
}

// State returns a snapshot of the current playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs with the controller locked and must not call back into it.
func (c *Controller) Subscribe(fn func(PlaybackState)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Controller) setPlayingLocked(playing bool) {
	c.state.IsPlaying = playing
	switch c.state.State {
	case StateReadyPaused, StateReadyPlaying:
		if playing {
			c.state.State = StateReadyPlaying
		} else {
			c.state.State = StateReadyPaused
		}
	}
}

// readTimeLocked copies the playhead and keeps it within [0, Duration].
func (c *Controller) readTimeLocked() {
	t := c.transport.CurrentTime()
	if !isFinite(t) || t < 0 {
		t = 0
	}
	if isFinite(c.state.Duration) && t > c.state.Duration {
		t = c.state.Duration
	}
	c.state.CurrentTime = t
}

func (c *Controller) notifyLocked() {
	for _, fn := range c.subscribers {
		fn(c.state)
	}
}
