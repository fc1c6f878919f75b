// Package cliplist walks the paginated clip list and accumulates every
// chunk into one collection.
package cliplist

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/barmania-cli/internal/metrics"
	"github.com/sells-group/barmania-cli/internal/model"
	"github.com/sells-group/barmania-cli/pkg/barmania"
)

// Options configures a Paginator.
type Options struct {
	Count    int
	Category string
	Sort     string
	Delay    time.Duration

	// Sleep pauses between chunks. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Metrics may be nil.
	Metrics *metrics.Fetch
}

// Result is the accumulated collection and how the loop ended.
type Result struct {
	Clips     []model.Clip
	Total     int  // expected total from the first chunk; 0 when it was not a number
	TotalSeen bool // false when no chunk returned records
	Chunks    int  // chunks that returned records
	LastChunk int  // index of the final request
	Reason    Reason
	Err       error // diagnostic for Failed terminations
}

// Failed reports whether the loop ended on an error rather than end of data.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Paginator drives sequential chunk requests.
type Paginator struct {
	client barmania.Client
	opts   Options
}

// New creates a Paginator over client.
func New(client barmania.Client, opts Options) *Paginator {
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	return &Paginator{client: client, opts: opts}
}

// Run fetches chunks 0, 1, 2, ... until a termination condition is met. It
// never returns an error: fetch and parse failures end the loop and are
// reported on the Result together with the clips collected so far.
func (p *Paginator) Run(ctx context.Context) *Result {
	log := zap.L().With(zap.String("category", p.opts.Category), zap.String("sort", p.opts.Sort))
	res := &Result{Clips: []model.Clip{}}

	for chunk := 0; ; chunk++ {
		res.LastChunk = chunk

		out := p.Step(ctx, chunk)
		switch out.Kind {
		case Done:
			log.Info("no more results", zap.Int("chunk", chunk), zap.String("reason", string(out.Reason)))
			return p.finish(res, out.Reason, nil)
		case Failed:
			log.Warn("stopping at chunk", zap.Int("chunk", chunk), zap.String("reason", string(out.Reason)), zap.Error(out.Err))
			return p.finish(res, out.Reason, out.Err)
		}

		var totalErr error
		if !res.TotalSeen {
			first := out.Clips[0]
			if !first.IsObject() {
				err := eris.New("cliplist: first record is not an object")
				log.Warn("stopping at chunk", zap.Int("chunk", chunk), zap.String("reason", string(ReasonParseError)), zap.Error(err))
				return p.finish(res, ReasonParseError, err)
			}
			total, ok := first.Total()
			res.Total = total
			res.TotalSeen = true
			if ok {
				p.opts.Metrics.SetExpected(total)
				log.Info("total clips", zap.Int("total", total))
			} else {
				totalErr = eris.Errorf("cliplist: total %v is not a number", first.Get("total"))
			}
		}

		res.Clips = append(res.Clips, out.Clips...)
		res.Chunks++
		p.opts.Metrics.ObserveChunk(len(out.Clips))
		log.Info("chunk fetched",
			zap.Int("chunk", chunk),
			zap.Int("fetched", len(out.Clips)),
			zap.Int("total_so_far", len(res.Clips)),
		)

		if totalErr != nil {
			log.Warn("stopping at chunk", zap.Int("chunk", chunk), zap.String("reason", string(ReasonParseError)), zap.Error(totalErr))
			return p.finish(res, ReasonParseError, totalErr)
		}
		if len(res.Clips) >= res.Total {
			return p.finish(res, ReasonTotalReached, nil)
		}

		if err := p.opts.Sleep(ctx, p.opts.Delay); err != nil {
			log.Warn("stopping at chunk", zap.Int("chunk", chunk), zap.String("reason", string(ReasonCancelled)), zap.Error(err))
			return p.finish(res, ReasonCancelled, err)
		}
	}
}

// Step requests one chunk and classifies the reply.
func (p *Paginator) Step(ctx context.Context, chunk int) Outcome {
	resp, err := p.client.ClipChunk(ctx, barmania.ChunkQuery{
		Count:    p.opts.Count,
		Category: p.opts.Category,
		Sort:     p.opts.Sort,
		Chunk:    chunk,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{Kind: Failed, Reason: ReasonCancelled, Err: err}
		}
		return Outcome{Kind: Failed, Reason: ReasonFetchError, Err: err}
	}
	p.opts.Metrics.ObserveRequest(resp.Elapsed)
	if !resp.OK() {
		zap.L().Warn("clip list answered with non-success status", zap.Int("chunk", chunk), zap.Int("status", resp.StatusCode))
	}

	return Classify(resp.Body)
}

func (p *Paginator) finish(res *Result, reason Reason, err error) *Result {
	res.Reason = reason
	res.Err = err
	p.opts.Metrics.ObserveTermination(string(reason))
	return res
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
