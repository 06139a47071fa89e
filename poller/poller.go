package poller

import (
	"context"
	"log"
	"sync"
	"time"
)

// FetchFunc retrieves one fresh value from the backend.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// DegradeFunc decides what to publish when a fetch fails. It receives the
// last published value (and whether one exists) and returns the value to
// expose while the backend is unreachable.
type DegradeFunc[T any] func(last T, hadLast bool, err error) (T, bool)

// Poller periodically fetches a value and keeps the latest successful
// result available. The first fetch fires immediately on Start; subsequent
// fetches fire on the ticker regardless of whether an earlier fetch is
// still in flight. Last write wins: a slow in-flight fetch that lands
// after Stop is discarded.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	degrade  DegradeFunc[T]

	mu      sync.RWMutex
	current T
	ok      bool
	stopped bool
	lastErr error
	fetched time.Time

	readyCh   chan struct{}
	readyOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func New[T any](name string, interval time.Duration, fetch FetchFunc[T]) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		readyCh:  make(chan struct{}),
	}
}

// OnError installs a degrade policy. Without one, failures keep the previous
// snapshot untouched.
func (p *Poller[T]) OnError(degrade DegradeFunc[T]) *Poller[T] {
	p.degrade = degrade
	return p
}

// Seed publishes an initial value before any fetch completes, typically
// a cached snapshot from a previous run. It does not mark the poller ready.
func (p *Poller[T]) Seed(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ok || p.stopped {
		return
	}
	p.current = v
	p.ok = true
}

func (p *Poller[T]) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// Each tick launches its fetch in its own goroutine so a slow
		// response never holds up the schedule. Completions publish
		// under the mutex, last write wins.
		go p.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go p.poll(ctx)
			}
		}
	}()
}

func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

// Snapshot returns the latest published value. ok is false until the first
// value lands (via fetch, degrade, or Seed).
func (p *Poller[T]) Snapshot() (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.ok
}

// Ready closes once the first fetch attempt has resolved, success or not.
func (p *Poller[T]) Ready() <-chan struct{} {
	return p.readyCh
}

func (p *Poller[T]) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *Poller[T]) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetched
}

// Refresh runs one fetch out of band, on top of the regular cadence.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	return p.poll(ctx)
}

func (p *Poller[T]) poll(ctx context.Context) error {
	v, err := p.fetch(ctx)
	defer p.readyOnce.Do(func() { close(p.readyCh) })

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return err
	}
	if err != nil {
		p.lastErr = err
		log.Printf("[poller:%s] fetch failed: %v", p.name, err)
		if p.degrade != nil {
			if degraded, publish := p.degrade(p.current, p.ok, err); publish {
				p.current = degraded
				p.ok = true
			}
		}
		return err
	}
	p.current = v
	p.ok = true
	p.lastErr = nil
	p.fetched = time.Now()
	return nil
}
