package pathfind

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ancillary-agi/factorio-headless-client/internal/codec"
)

// Async dispatches Find calls onto the default Go scheduler so a caller
// can kick off full-map A* without blocking the heartbeat-pumping main
// loop (SPEC_FULL §4.0 "background pathfinding dispatch"). Concurrent
// requests for the same (start, goal, maxNodes) collapse into a single
// search via singleflight.
type Async struct {
	group   singleflight.Group
	w       Walkability
	maxNodes int
}

// NewAsync returns an Async pathfinder backed by w.
func NewAsync(w Walkability, maxNodes int) *Async {
	return &Async{w: w, maxNodes: maxNodes}
}

// Find runs A* on a background goroutine, respecting ctx cancellation.
func (a *Async) Find(ctx context.Context, start, goal codec.TilePos) ([]codec.TilePos, error) {
	key := fmt.Sprintf("%d,%d->%d,%d", start.X, start.Y, goal.X, goal.Y)

	type result struct {
		path []codec.TilePos
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		path, err, _ := a.group.Do(key, func() (any, error) {
			return Find(start, goal, a.w, a.maxNodes)
		})
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{path: path.([]codec.TilePos)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.path, r.err
	}
}
