package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

const (
	defaultRetryInterval = 15 * time.Second
	maxBackoff           = 2 * time.Minute
)

// Loader runs recipe requests in the background and publishes their results
// into the store. Only the newest pending request is kept; a load that fell
// back to the bundled list is retried with exponential backoff until the API
// answers or a new request arrives.
type Loader struct {
	repo       *recipe.Repository
	store      *state.Store
	log        *slog.Logger
	retryEvery time.Duration
	requests   chan state.Query
}

// NewLoader builds a Loader. retryEvery <= 0 disables retries.
func NewLoader(repo *recipe.Repository, store *state.Store, log *slog.Logger, retryEvery time.Duration) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		repo:       repo,
		store:      store,
		log:        log,
		retryEvery: retryEvery,
		requests:   make(chan state.Query, 1),
	}
}

// Request queues q, replacing any request still waiting. It never blocks.
func (l *Loader) Request(q state.Query) {
	l.store.Begin(q)
	for {
		select {
		case l.requests <- q:
			return
		default:
		}
		select {
		case <-l.requests:
		default:
		}
	}
}

// Load runs q synchronously and records the result.
func (l *Loader) Load(ctx context.Context, q state.Query) recipe.Result {
	l.store.Begin(q)
	res := l.fetch(ctx, q)
	l.store.Update(q, res)
	l.log.Debug("recipes loaded",
		"query", q.Label(),
		"count", len(res.Recipes),
		"source", res.Source.String(),
	)
	return res
}

func (l *Loader) fetch(ctx context.Context, q state.Query) recipe.Result {
	switch q.Kind {
	case state.QuerySearch:
		return l.repo.Search(ctx, q.Text)
	case state.QueryIngredient:
		return l.repo.ByIngredient(ctx, q.Text)
	case state.QueryFallback:
		return l.repo.Fallback(ctx)
	default:
		return l.repo.Random(ctx, recipe.DefaultRandomCount)
	}
}

// Start launches the background goroutine. It returns immediately; the
// goroutine exits when ctx is cancelled.
func (l *Loader) Start(ctx context.Context) {
	go func() {
		var (
			timer *time.Timer
			retry <-chan time.Time
			last  state.Query
		)
		stopTimer := func() {
			if timer != nil {
				timer.Stop()
				timer = nil
			}
			retry = nil
		}
		defer stopTimer()

		for {
			select {
			case <-ctx.Done():
				return
			case q := <-l.requests:
				last = q
			case <-retry:
				l.log.Info("retrying recipe load", "query", last.Label())
			}
			stopTimer()

			res := l.Load(ctx, last)
			if ctx.Err() != nil {
				return
			}
			if res.Err != nil && l.retryEvery > 0 {
				failures := l.store.Snapshot().ConsecutiveFailures
				wait := calculateBackoff(failures-1, l.retryEvery)
				l.log.Warn("recipe load fell back to bundled list",
					"query", last.Label(),
					"error", res.Err,
					"retry_in", wait,
				)
				timer = time.NewTimer(wait)
				retry = timer.C
			}
		}
	}()
}

// calculateBackoff doubles base for every failure beyond the first, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures >= 30 {
		return maxBackoff
	}
	d := base << failures
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}
