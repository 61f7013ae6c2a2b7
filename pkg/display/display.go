// Package display holds the Output Targets: the addressable regions that show
// one action's latest status text or result.
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
)

// Target identifies an output region by its stable selector.
type Target string

// Output regions known to the client.
const (
	Health   Target = "health"
	Classic  Target = "classic_out"
	Classify Target = "classify_out"
	Lotto    Target = "lotto_out"
)

// Targets lists every output region in display order.
var Targets = []Target{Health, Classic, Classify, Lotto}

// Empty is the content of a region that has not been written yet.
const Empty = "–"

// Display receives rendered values for output regions.
type Display interface {
	Set(t Target, v any)
}

// Format renders v for display. Strings are used verbatim, errors as their
// message, and anything else as indented JSON.
func Format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case error:
		return v.Error()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// Board is a concurrency-safe set of output regions. Each region keeps its
// rendered text and a revision that increments on every write.
type Board struct {
	mu   sync.RWMutex
	text map[Target]string
	rev  map[Target]uint64
}

// NewBoard creates a Board with every known region set to [Empty].
func NewBoard() *Board {
	b := &Board{
		text: make(map[Target]string, len(Targets)),
		rev:  make(map[Target]uint64, len(Targets)),
	}

	for _, t := range Targets {
		b.text[t] = Empty
	}

	return b
}

// Set renders v with [Format] and stores it in region t.
func (b *Board) Set(t Target, v any) {
	s := Format(v)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.text[t] = s
	b.rev[t]++
}

// Get returns the current text of region t.
func (b *Board) Get(t Target) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s, ok := b.text[t]
	if !ok {
		return Empty
	}
	return s
}

// Revision returns how many times region t has been written.
func (b *Board) Revision(t Target) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.rev[t]
}

// Snapshot returns a copy of every region's text.
func (b *Board) Snapshot() map[Target]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return maps.Clone(b.text)
}
