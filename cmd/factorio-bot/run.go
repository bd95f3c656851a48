package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/protocol"
)

func runCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect, download the map, and stay in the live heartbeat loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, m, err := rf.session()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn := protocol.New(log, m, nil, nil)
			defer conn.Close()

			go logEvents(log, conn.Events())

			if err := conn.Connect(ctx, cfg.ServerAddress, cfg.Username); err != nil {
				return err
			}
			if err := conn.DownloadMap(ctx); err != nil {
				return err
			}

			err = conn.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	return cmd
}

// logEvents drains a Connection's event channel onto log until it
// closes, so the CLI surfaces lifecycle/desync/action-status events
// without the caller having to select on them directly.
func logEvents(log zerolog.Logger, events <-chan botio.Event) {
	for ev := range events {
		e := log.Info()
		if ev.Kind == botio.EventError || ev.Kind == botio.EventDesync {
			e = log.Warn()
		}
		e.Str("event", ev.String()).Uint32("tick", ev.Tick).AnErr("err", ev.Err).Msg("event")
	}
}
