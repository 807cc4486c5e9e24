// Package signal turns SIGINT and SIGTERM into context cancellation so the
// daemon can save its snapshot before exiting.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context when SIGINT or SIGTERM arrives and remembers
// which signal it was.
type Handler struct {
	ctx    context.Context
	cancel context.CancelFunc
	ch     chan os.Signal
	done   chan struct{}

	mu  sync.Mutex
	got os.Signal
}

// Setup registers the handler. onSignal, if non-nil, runs on the handler
// goroutine before the context is cancelled. Call Stop when done.
//
//	h := signal.Setup(context.Background(), func(s os.Signal) {
//	    logging.Warn("received " + s.String() + ", saving...")
//	})
//	defer h.Stop()
//	run(h.Context())
func Setup(parent context.Context, onSignal func(os.Signal)) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		ch:     make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}
	signal.Notify(h.ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(h.done)
		select {
		case s := <-h.ch:
			h.mu.Lock()
			h.got = s
			h.mu.Unlock()
			if onSignal != nil {
				onSignal(s)
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return h
}

// Context is cancelled by a signal, by the parent, or by Stop.
func (h *Handler) Context() context.Context { return h.ctx }

// Received returns the signal that cancelled the context, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.got
}

// Stop unregisters the handler and waits for its goroutine to exit.
func (h *Handler) Stop() {
	signal.Stop(h.ch)
	h.cancel()
	<-h.done
}
