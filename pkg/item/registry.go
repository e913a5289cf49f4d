package item

import (
	"sort"
	"strings"

	"github.com/vango-dev/scene/internal/errors"
)

// Factory creates a new item of one kind with default property values.
type Factory func() Item

// Registry maps kind names to factories. Build one per scene tree with
// NewRegistry; it is not safe for concurrent registration.
type Registry struct {
	kinds map[string]Factory
}

// NewRegistry returns a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Factory)}
	r.Register(KindRectangle, func() Item { return NewRectangle() })
	r.Register(KindBorderRectangle, func() Item { return NewBorderRectangle() })
	r.Register(KindText, func() Item { return NewText() })
	r.Register(KindImage, func() Item { return NewImage() })
	r.Register(KindTouchArea, func() Item { return NewTouchArea() })
	r.Register(KindFlickable, func() Item { return NewFlickable() })
	r.Register(KindListViewItem, func() Item { return NewListViewItem() })
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.kinds[kind] = f
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.kinds[kind]
	return ok
}

// New creates an item of the given kind.
func (r *Registry) New(kind string) (Item, error) {
	f, ok := r.kinds[kind]
	if !ok {
		return nil, errors.New("E104").
			WithDetailf("kind %q", kind).
			WithSuggestion("known kinds: " + strings.Join(r.Kinds(), ", "))
	}
	return f(), nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
