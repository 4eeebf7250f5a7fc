// Package events allows websocket clients to register for and receive the
// node's staking event stream.
package events

import (
	"fmt"
	"sync"
)

// Events fans event lines out to subscriber channels keyed by a
// unique id.
type Events struct {
	m  map[string]chan string
	mu sync.RWMutex
}

// New constructs an events value for use.
func New() *Events {
	return &Events{
		m: make(map[string]chan string),
	}
}

// Shutdown closes every subscriber channel and empties the registry.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Acquire returns the channel registered under the id, creating and
// registering one when needed.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	// A message is dropped if the websocket receiver is not ready to
	// receive. This buffer gives a slow receiver room before messages
	// start being lost.
	const messageBuffer = 100

	evt.m[id] = make(chan string, messageBuffer)
	return evt.m[id]
}

// Release closes the channel registered under the id and removes it
// from the registry.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Send delivers the message to every subscriber channel without ever
// blocking on a receiver.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- s:
		default:
		}
	}
}
