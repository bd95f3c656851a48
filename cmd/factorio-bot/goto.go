package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ancillary-agi/factorio-headless-client/internal/botio"
	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
	"github.com/ancillary-agi/factorio-headless-client/internal/follow"
	"github.com/ancillary-agi/factorio-headless-client/internal/protocol"
)

func gotoCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goto X Y",
		Short: "Connect, download the map, and walk to tile (X, Y)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("goto: parse X: %w", err)
			}
			y, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("goto: parse Y: %w", err)
			}

			cfg, log, m, err := rf.session()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn := protocol.New(log, m, nil, nil)
			defer conn.Close()

			done := make(chan follow.Status, 1)
			go watchArrival(conn.Events(), done)

			if err := conn.Connect(ctx, cfg.ServerAddress, cfg.Username); err != nil {
				return err
			}
			if err := conn.DownloadMap(ctx); err != nil {
				return err
			}
			if err := conn.Goto(codec.TilePos{X: int32(x), Y: int32(y)}); err != nil {
				return err
			}

			ticker := time.NewTicker(protocol.HeartbeatInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case status := <-done:
					log.Info().Str("status", status.String()).Msg("goto finished")
					return nil
				case <-ticker.C:
					if err := conn.Poll(); err != nil {
						return err
					}
				}
			}
		},
	}
	return cmd
}

// watchArrival relays the first terminal action-status event to done,
// so the goto loop above can stop polling once the pursuit ends.
func watchArrival(events <-chan botio.Event, done chan<- follow.Status) {
	for ev := range events {
		if ev.Kind != botio.EventActionStatus {
			continue
		}
		switch ev.ActionStatus {
		case follow.StatusArrived, follow.StatusNoPath, follow.StatusInterrupted, follow.StatusError:
			done <- ev.ActionStatus
			return
		}
	}
}
