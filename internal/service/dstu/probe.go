package dstu

import (
	"sync"
)

// Probe exposes the navigator's derived can-go-back / can-go-forward booleans
// to embedding shells that render outside the component tree owning
// navigation state. It is an explicit handle with a single writer (the
// Navigator); consumers only read or subscribe.
type Probe struct {
	mu      sync.RWMutex
	canBack bool
	canFwd  bool
	subs    map[int]func(canBack, canForward bool)
	nextID  int
}

func newProbe() *Probe {
	return &Probe{subs: make(map[int]func(bool, bool))}
}

// CanGoBack returns the last published back-navigation state.
func (p *Probe) CanGoBack() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canBack
}

// CanGoForward returns the last published forward-navigation state.
func (p *Probe) CanGoForward() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canFwd
}

// Subscribe registers a callback fired on every state change, and immediately
// with the current state. The returned function removes the subscription.
func (p *Probe) Subscribe(fn func(canBack, canForward bool)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	canBack, canFwd := p.canBack, p.canFwd
	p.mu.Unlock()

	fn(canBack, canFwd)

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// set publishes new state; only the Navigator calls it.
func (p *Probe) set(canBack, canFwd bool) {
	p.mu.Lock()
	changed := p.canBack != canBack || p.canFwd != canFwd
	p.canBack = canBack
	p.canFwd = canFwd
	subs := make([]func(bool, bool), 0, len(p.subs))
	if changed {
		for _, fn := range p.subs {
			subs = append(subs, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(canBack, canFwd)
	}
}
