package recipes

import (
	"sort"
	"sync"
)

// BusyState is a reference-counted loading indicator. Every upload holds its
// own token, so the indicator stays on until the last in-flight upload
// releases. Listeners are called on every busy/idle transition, in order.
type BusyState struct {
	notify sync.Mutex

	edit      sync.Mutex
	inFlight  map[string]int
	total     int
	listeners []func(busy bool)
}

func NewBusyState() *BusyState {
	return &BusyState{inFlight: make(map[string]int)}
}

// OnChange registers a listener. Listeners run while the transition is
// held, so they may read the state but must not Acquire or release.
func (b *BusyState) OnChange(listener func(busy bool)) {
	b.edit.Lock()
	defer b.edit.Unlock()
	b.listeners = append(b.listeners, listener)
}

// Acquire marks an operation on key as in flight and returns its release
// func. Calling release more than once has no effect.
func (b *BusyState) Acquire(key string) (release func()) {
	b.update(key, 1)

	var once sync.Once
	return func() {
		once.Do(func() { b.update(key, -1) })
	}
}

func (b *BusyState) update(key string, delta int) {
	b.notify.Lock()
	defer b.notify.Unlock()

	b.edit.Lock()
	wasBusy := b.total > 0
	b.total += delta
	b.inFlight[key] += delta
	if b.inFlight[key] <= 0 {
		delete(b.inFlight, key)
	}
	isBusy := b.total > 0
	listeners := append([]func(bool){}, b.listeners...)
	b.edit.Unlock()

	if wasBusy != isBusy {
		for _, listener := range listeners {
			listener(isBusy)
		}
	}
}

func (b *BusyState) Busy() bool {
	return b.InFlight() > 0
}

func (b *BusyState) InFlight() int {
	b.edit.Lock()
	defer b.edit.Unlock()
	return b.total
}

// Keys returns the sorted keys of the operations currently in flight.
func (b *BusyState) Keys() []string {
	b.edit.Lock()
	defer b.edit.Unlock()

	keys := make([]string, 0, len(b.inFlight))
	for key := range b.inFlight {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
