package search

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// flight is one shared embedding computation. It runs detached from the
// caller that started it and is abandoned only when every caller waiting on
// it has gone away.
type flight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters []context.Context
}

// join attaches ctx to the live flight for key, starting a new one when none
// exists, and returns the channel delivering its result. The returned release
// must be called once the caller stops waiting.
func (o *Orchestrator) join(ctx context.Context, key string, run func(f *flight) (*EmbedResult, error)) (<-chan singleflight.Result, func() bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	f := o.flights[key]
	if f == nil || f.ctx.Err() != nil {
		o.flightSeq++
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{
			key:    key + "#" + strconv.FormatUint(o.flightSeq, 10),
			ctx:    fctx,
			cancel: cancel,
		}
		o.flights[key] = f
	}
	f.waiters = append(f.waiters, ctx)

	ch := o.inflight.DoChan(f.key, func() (interface{}, error) {
		defer o.land(key, f)
		return run(f)
	})

	release := context.AfterFunc(ctx, func() { o.abandonIfIdle(key, f) })
	return ch, release
}

// land retires f once its computation has returned.
func (o *Orchestrator) land(key string, f *flight) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flights[key] == f {
		delete(o.flights, key)
	}
	f.cancel()
}

func (o *Orchestrator) abandonIfIdle(key string, f *flight) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if f.liveLocked() != nil {
		if o.flights[key] == f {
			delete(o.flights, key)
		}
		f.cancel()
	}
}

// abandoned reports the cancellation error once no caller is waiting on f.
func (o *Orchestrator) abandoned(f *flight) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return f.liveLocked()
}

func (f *flight) liveLocked() error {
	var err error
	for _, w := range f.waiters {
		if w.Err() == nil {
			return nil
		}
		err = w.Err()
	}
	if err == nil {
		err = context.Canceled
	}
	return err
}
