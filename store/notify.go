package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Notifier fans change signals out to in-process subscribers. Each subscriber owns a
// goroutine that reloads the snapshot after a signal, so a burst of saves collapses into
// one reload that reflects the last committed write.
type Notifier struct {
	logger *zap.Logger

	mu   sync.Mutex
	next int
	subs map[int]chan struct{}
}

func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger, subs: make(map[int]chan struct{})}
}

// Notify signals every subscriber without blocking.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe calls fn with load's result after every Notify.
func (n *Notifier) Subscribe(ctx context.Context, load func(context.Context) (Snapshot, error), fn func(Snapshot)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = ch
	n.mu.Unlock()

	go func() {
		defer func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		}()
		for {
			select {
			case <-subCtx.Done():
				return
			case <-ch:
				snap, err := load(subCtx)
				if err != nil {
					if subCtx.Err() == nil {
						n.logger.Warn("snapshot reload failed", zap.Error(err))
					}
					continue
				}
				fn(snap)
			}
		}
	}()

	return cancel, nil
}

// Len reports the number of live subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
