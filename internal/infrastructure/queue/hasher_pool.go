package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicehub/marketplace/internal/api/metrics"
)

const channelBuffer = 256

// ErrPoolClosed is returned for jobs submitted after Close.
var ErrPoolClosed = errors.New("hasher pool closed")

type jobKind int

const (
	jobHash jobKind = iota
	jobCompare
)

type job struct {
	kind     jobKind
	hash     []byte
	password []byte
	result   chan result
}

type result struct {
	hash []byte
	err  error
}

// HasherPool runs bcrypt on a fixed set of workers so that a burst of
// logins cannot occupy more CPUs than configured. Callers block only their
// own goroutine and give up when their context is cancelled.
type HasherPool struct {
	jobs    chan job
	cost    int
	log     zerolog.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	closeCh chan struct{}
}

// NewHasherPool starts numWorkers workers hashing at the given bcrypt cost.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewHasherPool(numWorkers, cost int, log zerolog.Logger) *HasherPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	p := &HasherPool{
		jobs:    make(chan job, channelBuffer),
		cost:    cost,
		log:     log,
		closeCh: make(chan struct{}),
	}
	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(i)
	}
	return p
}

// Hash returns the bcrypt hash of password.
func (p *HasherPool) Hash(ctx context.Context, password string) (string, error) {
	res, err := p.submit(ctx, job{kind: jobHash, password: []byte(password)})
	if err != nil {
		return "", err
	}
	return string(res.hash), res.err
}

// Compare returns nil when password matches hash.
func (p *HasherPool) Compare(ctx context.Context, hash, password string) error {
	res, err := p.submit(ctx, job{kind: jobCompare, hash: []byte(hash), password: []byte(password)})
	if err != nil {
		return err
	}
	return res.err
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *HasherPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.closeCh)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *HasherPool) submit(ctx context.Context, j job) (result, error) {
	j.result = make(chan result, 1)

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return result{}, ErrPoolClosed
	}
	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		p.mu.RUnlock()
		return result{}, ctx.Err()
	}
	p.mu.RUnlock()

	select {
	case res := <-j.result:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

func (p *HasherPool) runWorker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.closeCh:
			p.drain(id)
			return
		case j := <-p.jobs:
			p.process(id, j)
		}
	}
}

// drain finishes jobs that were queued before Close.
func (p *HasherPool) drain(id int) {
	for {
		select {
		case j := <-p.jobs:
			p.process(id, j)
		default:
			return
		}
	}
}

func (p *HasherPool) process(id int, j job) {
	start := time.Now()
	var res result
	switch j.kind {
	case jobHash:
		res.hash, res.err = bcrypt.GenerateFromPassword(j.password, p.cost)
		metrics.HashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	case jobCompare:
		res.err = bcrypt.CompareHashAndPassword(j.hash, j.password)
		metrics.HashDuration.WithLabelValues("compare").Observe(time.Since(start).Seconds())
	}
	if res.err != nil && !errors.Is(res.err, bcrypt.ErrMismatchedHashAndPassword) {
		p.log.Warn().Err(res.err).Int("worker_id", id).Msg("bcrypt job failed")
	}
	metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	j.result <- res
}
