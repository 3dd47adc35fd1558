package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/vidshare/internal/client"
	"github.com/hszk-dev/vidshare/internal/loader"
	"github.com/hszk-dev/vidshare/internal/player"
	"github.com/hszk-dev/vidshare/internal/present"
)

func newFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List every video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mount := loader.NewMount()
			defer mount.Unmount()

			feed := loader.NewFeedLoader(a.api, mount, loader.WithLogger(a.logger), loader.WithClock(a.now))
			return present.RenderFeed(cmd.OutOrStdout(), feed.Load(cmd.Context()))
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		expand bool
		volume float64
	)

	cmd := &cobra.Command{
		Use:   "watch <video-id>",
		Short: "Show a video's page and record a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mount := loader.NewMount()
			defer mount.Unmount()

			detail := loader.NewDetailLoader(a.api, mount, loader.WithLogger(a.logger))
			detail.Load(ctx, args[0])
			defer detail.Wait()

			if expand {
				detail.ToggleDescription()
			}
			out := cmd.OutOrStdout()
			if err := present.RenderDetail(out, present.DetailFrom(detail)); err != nil {
				return err
			}

			v, ok := detail.Video()
			if !ok || v.Video == "" {
				return nil
			}
			state := attachPlayer(a, v.Video, volume)
			_, err := fmt.Fprintf(out, "\nplayer: %s\n", present.PlaybackStatus(state))
			return err
		},
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "show the full description")
	cmd.Flags().Float64Var(&volume, "volume", 1, "player volume from 0 to 1")
	return cmd
}

// attachPlayer binds a controller to src at the given volume and returns
// the state after every event already queued has been applied.
func attachPlayer(a *app, src string, volume float64) player.PlaybackState {
	transport := player.NewMemoryTransport()
	host := player.NewMemoryHost()
	ctrl := player.NewController(transport, host, player.WithLogger(a.logger))

	if err := ctrl.Attach(src); err != nil {
		a.logger.Warn("failed to attach player", "source", src, "error", err)
	}
	defer ctrl.Detach()

	ctrl.SetVolume(volume)
	ctrl.Drain(transport.Events(), host.Events())
	return ctrl.State()
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show an account and its videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			var (
				profile *client.Profile
				catalog []client.VideoSummary
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				profile, err = a.api.Profile(ctx, username)
				return err
			})
			g.Go(func() error {
				var err error
				catalog, err = a.api.ListAll(ctx)
				if err != nil {
					a.logger.Warn("failed to load catalog for profile", "username", username, "error", err)
					catalog = nil
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("profile %s: %w", username, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", profile.Username)
			fmt.Fprintf(out, "joined %s · %d videos · %d blogs\n\n",
				profile.TimeCreated.Format("January 2, 2006"), len(profile.Video), len(profile.Blogs))

			return present.RenderFeed(out, ownedItems(profile, catalog, a.now()))
		},
	}
}

// ownedItems keeps the catalog entries listed on the profile.
func ownedItems(p *client.Profile, catalog []client.VideoSummary, now time.Time) []loader.FeedItem {
	owned := make(map[string]struct{}, len(p.Video))
	for _, ref := range p.Video {
		owned[ref.VideoID] = struct{}{}
	}

	items := make([]loader.FeedItem, 0, len(owned))
	for _, v := range catalog {
		if _, ok := owned[v.VideoID]; ok {
			items = append(items, loader.NewFeedItem(v, now))
		}
	}
	return items
}
