// Package present renders loader output and player state as terminal text.
package present

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hszk-dev/vidshare/internal/client"
	"github.com/hszk-dev/vidshare/internal/format"
	"github.com/hszk-dev/vidshare/internal/loader"
	"github.com/hszk-dev/vidshare/internal/player"
)

const (
	NoVideo          = "No video available"
	TitlePlaceholder = "Video Title"
	AnonymousChannel = "Anonymous"
	EmptyFeed        = "No videos yet."
	expandHint       = "(run with --expand to show more)"
	collapseHint     = "(showing full description)"
)

// RenderFeed writes the landing grid, one row per item.
func RenderFeed(w io.Writer, items []loader.FeedItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, EmptyFeed)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCHANNEL\tVIEWS\tUPLOADED\tLINK")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			orDefault(it.Title, TitlePlaceholder),
			orDefault(it.Channel, AnonymousChannel),
			it.Views,
			it.UploadTime,
			it.Link,
		)
	}
	return tw.Flush()
}

// Detail is the state RenderDetail draws from.
type Detail struct {
	Video       client.VideoDetail
	Loaded      bool
	Description []string
	CanExpand   bool
	Expanded    bool
}

// DetailFrom snapshots a DetailLoader.
func DetailFrom(l *loader.DetailLoader) Detail {
	v, ok := l.Video()
	return Detail{
		Video:       v,
		Loaded:      ok,
		Description: l.Description(),
		CanExpand:   l.CanExpand(),
		Expanded:    l.Expanded(),
	}
}

// RenderDetail writes the watch page. An unresolved video renders the
// NoVideo placeholder.
func RenderDetail(w io.Writer, d Detail) error {
	if !d.Loaded {
		_, err := fmt.Fprintln(w, NoVideo)
		return err
	}

	var b strings.Builder
	v := d.Video
	fmt.Fprintf(&b, "%s\n", orDefault(v.Title, TitlePlaceholder))
	fmt.Fprintf(&b, "%s · %s · %s views\n",
		orDefault(v.Account.Username, AnonymousChannel),
		format.UploadDate(v.UploadAt),
		format.Views(v.Views),
	)
	if v.Video != "" {
		fmt.Fprintf(&b, "media: %s\n", v.Video)
	}
	b.WriteString("\n")

	for _, line := range d.Description {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if d.CanExpand {
		if d.Expanded {
			b.WriteString(collapseHint + "\n")
		} else {
			b.WriteString(expandHint + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PlaybackStatus is a one-line summary of the player. Times are shown
// only once metadata has loaded.
func PlaybackStatus(s player.PlaybackState) string {
	parts := []string{"[" + s.State.String() + "]"}

	if s.Loaded() {
		parts = append(parts, format.Time(s.CurrentTime)+" / "+format.Time(s.Duration))
	}

	if s.IsMuted {
		parts = append(parts, "muted")
	} else {
		parts = append(parts, fmt.Sprintf("vol %d%%", int(s.Volume*100+0.5)))
	}

	if s.IsFullscreen {
		parts = append(parts, "fullscreen")
	}
	return strings.Join(parts, " ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
