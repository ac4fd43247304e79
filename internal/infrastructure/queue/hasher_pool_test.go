package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestPool(t *testing.T, workers int) *HasherPool {
	t.Helper()
	p := NewHasherPool(workers, bcrypt.MinCost, zerolog.Nop())
	t.Cleanup(p.Close)
	return p
}

func TestHasherPool_HashAndCompare(t *testing.T) {
	p := newTestPool(t, 2)
	ctx := context.Background()

	hash, err := p.Hash(ctx, "pw123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123456" || hash == "" {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if err := p.Compare(ctx, hash, "pw123456"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := p.Compare(ctx, hash, "wrong"); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestHasherPool_Concurrent(t *testing.T) {
	p := newTestPool(t, 3)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := p.Hash(ctx, "secret")
			if err != nil {
				errs <- err
				return
			}
			errs <- p.Compare(ctx, h, "secret")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

func TestHasherPool_CancelledContext(t *testing.T) {
	p := newTestPool(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the submit or the wait observes the cancellation; a
	// completed hash is also acceptable if the worker won the race.
	if _, err := p.Hash(ctx, "pw"); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHasherPool_Closed(t *testing.T) {
	p := NewHasherPool(1, bcrypt.MinCost, zerolog.Nop())
	p.Close()
	p.Close() // idempotent

	if _, err := p.Hash(context.Background(), "pw"); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}
