package pathfind

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// Goal pairs one caller's start/goal request inside a FindMany batch.
type Goal struct {
	Start, End codec.TilePos
}

// FindMany runs a batch of independent searches concurrently, used when
// several bots (or several candidate goals for one bot) need paths at
// once. It bounds concurrency implicitly through errgroup and returns
// the first error encountered, cancelling the rest via ctx.
func FindMany(ctx context.Context, goals []Goal, w Walkability, maxNodes int) ([][]codec.TilePos, error) {
	results := make([][]codec.TilePos, len(goals))
	g, ctx := errgroup.WithContext(ctx)

	for i, goal := range goals {
		i, goal := i, goal
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			path, err := Find(goal.Start, goal.End, w, maxNodes)
			if err != nil {
				return err
			}
			results[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
