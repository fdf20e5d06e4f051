package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/csync"
	"github.com/yumosx/looplist/internal/recycle"
)

// flingEvery is how many frames pass between two flings of a bench engine.
const flingEvery = 90

// EngineResult is what one bench engine did.
type EngineResult struct {
	Frames  int                      `json:"frames"`
	Elapsed time.Duration            `json:"elapsed"`
	Scroll  float64                  `json:"scroll"`
	Pools   map[string]recycle.Stats `json:"pools"`
	Err     string                   `json:"error,omitempty"`
}

// BenchResult summarizes a bench run.
type BenchResult struct {
	Engines  int                           `json:"engines"`
	Frames   int                           `json:"frames"`
	Elapsed  time.Duration                 `json:"elapsed"`
	PerFrame time.Duration                 `json:"per_frame"`
	Totals   recycle.Stats                 `json:"totals"`
	Results  *csync.Map[int, EngineResult] `json:"results"`
}

// Bench scrolls engines independent lists, each on its own goroutine, for
// frames frames. Engines share nothing, not even their template registry.
func Bench(ctx context.Context, cfg *config.Config, sizer Sizer, engines, frames int) (*BenchResult, error) {
	if engines <= 0 || frames <= 0 {
		return nil, fmt.Errorf("bench needs at least one engine and one frame, got %d and %d", engines, frames)
	}
	res := &BenchResult{
		Engines: engines,
		Frames:  frames,
		Results: csync.NewMap[int, EngineResult](),
	}

	start := time.Now()
	var wg sync.WaitGroup
	for id := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engineSizer := sizer
			engineSizer.Seed += uint64(id)
			res.Results.Set(id, runEngine(ctx, cfg, engineSizer, id, frames))
		}()
	}
	wg.Wait()
	res.Elapsed = time.Since(start)
	res.PerFrame = res.Elapsed / time.Duration(engines*frames)

	var failed int
	for _, r := range res.Results.Seq2() {
		if r.Err != "" {
			failed++
		}
		for _, s := range r.Pools {
			res.Totals = res.Totals.Add(s)
		}
	}
	if failed > 0 {
		return res, fmt.Errorf("%d of %d engines failed", failed, engines)
	}
	return res, ctx.Err()
}

func runEngine(ctx context.Context, cfg *config.Config, sizer Sizer, id, frames int) EngineResult {
	var r EngineResult
	h, err := NewHost(cfg, sizer)
	if err != nil {
		r.Err = err.Error()
		return r
	}

	start := time.Now()
	c := h.Controller()
	for i := range frames {
		if ctx.Err() != nil {
			break
		}
		if i%flingEvery == 0 {
			// Alternate direction so bounded lists keep moving.
			v := 4000.0
			if (i/flingEvery+id)%2 == 1 {
				v = -v
			}
			c.AdjustVelocity(v)
		}
		if err := h.Tick(); err != nil {
			slog.Error("Bench engine failed", "engine", id, "frame", i, "error", err)
			r.Err = err.Error()
			break
		}
		r.Frames++
	}
	r.Elapsed = time.Since(start)
	r.Scroll = c.Scroll()
	r.Pools = h.registry.Stats()
	return r
}
