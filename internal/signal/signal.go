// Package signal is the change-notification bus connecting programs,
// stages, bindings and buffers.
//
// A Sender keeps weak handles to its subscribers. A subscriber that has
// been closed or collected is skipped and pruned on the next Notify, so
// subscriptions never keep an object alive.
package signal

import (
	"fmt"
	"weak"
)

// Kind identifies a notification.
type Kind int

const (
	// Changed is a generic state mutation of the sender.
	Changed Kind = iota
	// Recompiled is emitted by a stage after every compilation attempt.
	Recompiled
	// Relinked is emitted by a program after a successful link.
	Relinked
	// Interleaved is emitted by an output switching to one shared buffer.
	Interleaved
	// Deinterleaved is emitted by an output switching to per-varying buffers.
	Deinterleaved
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Changed:
		return "Changed"
	case Recompiled:
		return "Recompiled"
	case Relinked:
		return "Relinked"
	case Interleaved:
		return "Interleaved"
	case Deinterleaved:
		return "Deinterleaved"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Handler reacts to a notification. It returns false if it ignored it.
type Handler interface {
	HandleSignal(kind Kind, sender any) bool
}

type slot struct {
	h      Handler
	closed bool
}

// Receiver is the subscribable endpoint of a Handler.
// The owner keeps the Receiver; senders only hold weak handles to it.
type Receiver struct {
	s *slot
}

// NewReceiver returns a receiver delivering to h.
func NewReceiver(h Handler) *Receiver {
	return &Receiver{s: &slot{h: h}}
}

// Close detaches the receiver from every sender it is subscribed to.
// Senders prune it lazily.
func (r *Receiver) Close() {
	r.s.closed = true
}

// Closed reports whether Close was called.
func (r *Receiver) Closed() bool {
	return r.s.closed
}

// Sender publishes notifications to subscribed receivers in
// subscription order. The zero value is ready to use.
type Sender struct {
	subs []weak.Pointer[slot]
}

// Subscribe adds r. Subscribing twice has no effect.
func (s *Sender) Subscribe(r *Receiver) {
	if r == nil || r.s.closed {
		return
	}
	wp := weak.Make(r.s)
	for _, sub := range s.subs {
		if sub == wp {
			return
		}
	}
	s.subs = append(s.subs, wp)
}

// Unsubscribe removes r. It is a no-op if r is not subscribed.
// A receiver removed by a handler during Notify is not called for the
// remainder of that notification.
func (s *Sender) Unsubscribe(r *Receiver) {
	if r == nil {
		return
	}
	if i := s.index(weak.Make(r.s)); i >= 0 {
		s.subs = append(s.subs[:i], s.subs[i+1:]...)
	}
}

// Subscribed reports whether r is a live subscriber.
func (s *Sender) Subscribed(r *Receiver) bool {
	if r == nil || r.s.closed {
		return false
	}
	return s.index(weak.Make(r.s)) >= 0
}

// Notify delivers kind to every live subscriber synchronously and
// returns how many handled it. Receivers subscribed by a handler during
// delivery are not called for this notification, and receivers
// unsubscribed by one are skipped.
func (s *Sender) Notify(kind Kind, sender any) int {
	if len(s.subs) == 0 {
		return 0
	}
	snapshot := make([]weak.Pointer[slot], len(s.subs))
	copy(snapshot, s.subs)

	handled := 0
	dead := false
	for _, wp := range snapshot {
		sl := wp.Value()
		if sl == nil || sl.closed {
			dead = true
			continue
		}
		if s.index(wp) < 0 {
			continue
		}
		if sl.h.HandleSignal(kind, sender) {
			handled++
		}
	}
	if dead {
		s.prune()
	}
	return handled
}

// Len returns the number of live subscribers.
func (s *Sender) Len() int {
	n := 0
	for _, wp := range s.subs {
		if sl := wp.Value(); sl != nil && !sl.closed {
			n++
		}
	}
	return n
}

func (s *Sender) index(wp weak.Pointer[slot]) int {
	for i, sub := range s.subs {
		if sub == wp {
			return i
		}
	}
	return -1
}

func (s *Sender) prune() {
	live := s.subs[:0]
	for _, wp := range s.subs {
		if sl := wp.Value(); sl != nil && !sl.closed {
			live = append(live, wp)
		}
	}
	clear(s.subs[len(live):])
	s.subs = live
}
