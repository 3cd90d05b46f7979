// Package notify carries the transient success and error messages shown to
// an operator after a dialog action.
package notify

import (
	"log"
	"sync"
)

// Variant selects the toast styling.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a titled, transient message.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Success returns a "Success" toast.
func Success(description string) Toast {
	return Toast{Title: "Success", Description: description, Variant: VariantDefault}
}

// Failure returns an "Error" toast.
func Failure(description string) Toast {
	return Toast{Title: "Error", Description: description, Variant: VariantDestructive}
}

// Notifier displays toasts.
type Notifier interface {
	Notify(t Toast)
}

// Func adapts a function to Notifier.
type Func func(t Toast)

// Notify calls f(t).
func (f Func) Notify(t Toast) { f(t) }

// Log writes toasts to the standard logger.
type Log struct{}

// Notify logs t.
func (Log) Notify(t Toast) {
	log.Printf("[%s] %s: %s", t.Variant, t.Title, t.Description)
}

// Inbox queues toasts until the client collects them.
type Inbox struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify queues t.
func (i *Inbox) Notify(t Toast) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.toasts = append(i.toasts, t)
}

// Drain returns the queued toasts and empties the inbox.
func (i *Inbox) Drain() []Toast {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.toasts
	i.toasts = nil
	return out
}

// Multi fans a toast out to several notifiers.
type Multi []Notifier

// Notify forwards t to every notifier.
func (m Multi) Notify(t Toast) {
	for _, n := range m {
		n.Notify(t)
	}
}
