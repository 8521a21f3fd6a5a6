package daemon

import (
	"sync"

	"quill/internal/types"
)

// AuthEventBroker fans auth state transitions out to SSE subscribers. A
// slow subscriber drops events rather than blocking the publisher.
type AuthEventBroker struct {
	mu   sync.Mutex
	subs map[chan types.AuthEvent]struct{}
}

func NewAuthEventBroker() *AuthEventBroker {
	return &AuthEventBroker{subs: map[chan types.AuthEvent]struct{}{}}
}

func (b *AuthEventBroker) Subscribe() (<-chan types.AuthEvent, func()) {
	ch := make(chan types.AuthEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *AuthEventBroker) Publish(event types.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
