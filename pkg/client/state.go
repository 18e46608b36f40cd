package client

import "github.com/mchmarny/menuview/pkg/menu"

// Kind is the phase of a menu load.
type Kind int

const (
	// Loading is the initial state, before the fetch settles.
	Loading Kind = iota
	// Loaded holds the fetched items.
	Loaded
	// Empty means the fetch failed or returned no items.
	Empty
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// State is the outcome of a menu load. Items is only set when Kind is Loaded.
type State struct {
	Kind  Kind
	Items []menu.Item
}

// IsEmpty reports whether there is nothing to list, either because the load
// failed or because it yielded no items.
func (s State) IsEmpty() bool {
	return s.Kind == Empty || (s.Kind == Loaded && len(s.Items) == 0)
}
