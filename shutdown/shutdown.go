// Package shutdown runs cleanup hooks when a render is interrupted: partial
// output is removed before the photo cache is closed.
package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/flanksource/commons/logger"
)

const (
	PriorityOutput  = 0
	PriorityDefault = 100
	PriorityCache   = 300
)

type hook struct {
	label    string
	priority int
	seq      int
	fn       func()
}

var (
	hooks    []hook
	seq      int
	hooksMux sync.Mutex
)

// AddHook registers a shutdown hook with default priority
func AddHook(label string, fn func()) {
	AddHookWithPriority(label, PriorityDefault, fn)
}

// AddHookWithPriority registers a hook; lower priorities run first, equal
// priorities in registration order.
func AddHookWithPriority(label string, priority int, fn func()) {
	hooksMux.Lock()
	defer hooksMux.Unlock()
	seq++
	hooks = append(hooks, hook{label: label, priority: priority, seq: seq, fn: fn})
}

// Shutdown runs and clears every registered hook. A panicking hook is logged
// and does not stop the others.
func Shutdown() {
	hooksMux.Lock()
	pending := hooks
	hooks = nil
	hooksMux.Unlock()

	if len(pending) == 0 {
		return
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].priority != pending[j].priority {
			return pending[i].priority < pending[j].priority
		}
		return pending[i].seq < pending[j].seq
	})

	logger.Debugf("Executing %d shutdown hooks", len(pending))
	for _, h := range pending {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("Panic in shutdown hook %s: %v", h.label, r)
				}
			}()
			logger.Debugf("Executing shutdown hook: %s (priority=%d)", h.label, h.priority)
			h.fn()
		}()
	}
}

// RemoveOnInterrupt registers a hook deleting path, returning a function that
// keeps the file once it is complete.
func RemoveOnInterrupt(path string) (keep func()) {
	var mu sync.Mutex
	done := false
	AddHookWithPriority("remove "+path, PriorityOutput, func() {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to remove partial output %s: %v", path, err)
		}
	})
	return func() {
		mu.Lock()
		done = true
		mu.Unlock()
	}
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM. The first
// signal cancels the context so the render stops at the next section; a
// second one runs the hooks and exits.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(os.Stderr, "\nReceived %s, stopping (press Ctrl+C again to force exit)\n", sig)
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			return
		}
		select {
		case <-sigChan:
			Shutdown()
			os.Exit(1)
		case <-parent.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
