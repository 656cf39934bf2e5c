package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"licensedesk/entity"
	"licensedesk/lib/sl"
)

const DefaultInterval = 3 * time.Second

// Reader is the read side of the backend API.
type Reader interface {
	Users(ctx context.Context) ([]entity.User, error)
	Licenses(ctx context.Context) ([]entity.License, error)
	Tickets(ctx context.Context) ([]entity.Ticket, error)
	Activities(ctx context.Context) ([]entity.ActivityLogEntry, error)
	Executions(ctx context.Context) ([]entity.ExecutionRecord, error)
	Accounts(ctx context.Context) ([]entity.Account, error)
}

type PollerOptions struct {
	Interval    time.Duration
	Collections []Collection
	Metrics     *Metrics
}

// Poller refetches every enabled collection on a fixed interval.
// Each collection is fetched in its own goroutine; a failure keeps that
// collection's previous snapshot and affects nothing else. Ticks do not wait
// for earlier fetches, so a slow response may land after a newer one: the
// store keeps whichever completes last.
type Poller struct {
	api         Reader
	store       *Store
	interval    time.Duration
	collections []Collection
	metrics     *Metrics
	log         *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewPoller(api Reader, store *Store, opts PollerOptions, log *slog.Logger) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	collections := opts.Collections
	if len(collections) == 0 {
		collections = AllCollections()
	}
	return &Poller{
		api:         api,
		store:       store,
		interval:    interval,
		collections: collections,
		metrics:     opts.Metrics,
		log:         log.With(sl.Module("console.poller")),
		now:         time.Now,
	}
}

func (p *Poller) Collections() []Collection {
	result := make([]Collection, len(p.collections))
	copy(result, p.collections)
	return result
}

// Enabled reports whether this build mirrors the collection.
func (p *Poller) Enabled(c Collection) bool {
	for _, v := range p.collections {
		if v == c {
			return true
		}
	}
	return false
}

// Start fetches everything immediately, then on every interval until Stop or ctx is done.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("poller already running")
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.log.With(
		slog.Duration("interval", p.interval),
		slog.Int("collections", len(p.collections)),
	).Info("poller started")

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(ctx)
		for {
			select {
			case <-ticker.C:
				p.tick(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop cancels in-flight fetches and returns once none of them can write to the store.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("poller stopped")
}

// tick launches one independent fetch per collection without waiting for them.
func (p *Poller) tick(ctx context.Context) {
	for _, c := range p.collections {
		p.wg.Add(1)
		go func(c Collection) {
			defer p.wg.Done()
			_ = p.fetch(ctx, c)
		}(c)
	}
}

// Refresh fetches the given collections (all enabled ones when none are given)
// and waits for them. Disabled collections are skipped.
func (p *Poller) Refresh(ctx context.Context, cols ...Collection) error {
	if len(cols) == 0 {
		cols = p.collections
	}
	var wg sync.WaitGroup
	errs := make([]error, len(cols))
	for i, c := range cols {
		if !p.Enabled(c) {
			continue
		}
		wg.Add(1)
		go func(i int, c Collection) {
			defer wg.Done()
			errs[i] = p.fetch(ctx, c)
		}(i, c)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (p *Poller) fetch(ctx context.Context, c Collection) error {
	var n int
	var err error
	switch c {
	case Users:
		n, err = load(ctx, p, p.api.Users, &p.store.users)
	case Licenses:
		n, err = load(ctx, p, p.api.Licenses, &p.store.licenses)
	case Tickets:
		n, err = load(ctx, p, p.api.Tickets, &p.store.tickets)
	case Activities:
		n, err = load(ctx, p, p.api.Activities, &p.store.activities)
	case Executions:
		n, err = load(ctx, p, p.api.Executions, &p.store.executions)
	case Accounts:
		n, err = load(ctx, p, p.api.Accounts, &p.store.accounts)
	default:
		err = fmt.Errorf("unknown collection: %q", c)
	}

	at := p.now()
	p.metrics.observe(c, n, err, float64(at.Unix()))
	if err != nil {
		if ctx.Err() == nil {
			p.log.With(slog.String("collection", string(c))).Error("fetch failed", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", c, err)
	}
	p.log.With(
		slog.String("collection", string(c)),
		slog.Int("count", n),
	).Debug("snapshot updated")
	return nil
}

func load[T any](ctx context.Context, p *Poller, get func(context.Context) ([]T, error), dst *slot[T]) (int, error) {
	items, err := get(ctx)
	if err != nil {
		return 0, err
	}
	// a cancelled poller must not overwrite state after teardown
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	put(p.store, dst, items, p.now())
	return len(items), nil
}
