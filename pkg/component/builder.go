package component

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
	"github.com/vango-dev/scene/pkg/repeater"
)

// Builder compiles element hierarchies against an item registry.
type Builder struct {
	registry    *item.Registry
	logger      *slog.Logger
	repeaterOpt []repeater.Option
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger handed to every repeater.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRepeaterOptions adds options applied to every repeater created by
// instances of compiled definitions.
func WithRepeaterOptions(opts ...repeater.Option) Option {
	return func(b *Builder) { b.repeaterOpt = append(b.repeaterOpt, opts...) }
}

// NewBuilder returns a builder resolving kinds with reg. A nil reg uses the
// built-in kinds.
func NewBuilder(reg *item.Registry, opts ...Option) *Builder {
	if reg == nil {
		reg = item.NewRegistry()
	}
	b := &Builder{registry: reg}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Registry returns the builder's item registry.
func (b *Builder) Registry() *item.Registry {
	return b.registry
}

// Definition is a compiled component: the item tree shared by all its
// instances and what to create in each arena slot and repeater.
type Definition struct {
	builder *Builder
	tree    *itemtree.Tree
	slots   []*Element
	repeats []repeatDef
	names   map[string]int
}

type repeatDef struct {
	name string
	decl *Repeat
	def  *Definition
}

// Compile flattens root into a validated item tree. Children are laid out
// breadth first, so the children of every item occupy one contiguous range.
// Repeated templates are compiled recursively into their own definitions.
func (b *Builder) Compile(root *Element) (*Definition, error) {
	return b.compile(root, "")
}

func (b *Builder) compile(root *Element, path string) (*Definition, error) {
	if root == nil {
		return nil, errors.New("E103").WithDetail(where(path, "component has no root element"))
	}
	if root.Repeat != nil {
		return nil, errors.New("E103").WithDetail(where(path, "root element cannot be repeated"))
	}

	def := &Definition{builder: b, names: make(map[string]int)}
	order := []*Element{root}
	nodes := make([]itemtree.Node, 0, 8)

	for i := 0; i < len(order); i++ {
		el := order[i]
		if el.Repeat != nil {
			node, err := b.compileRepeat(def, el, path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			continue
		}

		if !b.registry.Has(el.Kind) {
			return nil, errors.New("E104").
				WithDetail(where(path, fmt.Sprintf("element %q has kind %q", describe(el), el.Kind))).
				WithSuggestion("known kinds: " + strings.Join(b.registry.Kinds(), ", "))
		}
		slot := len(def.slots)
		def.slots = append(def.slots, el)
		if el.Name != "" {
			if prev, dup := def.names[el.Name]; dup {
				return nil, errors.New("E103").
					WithDetail(where(path, fmt.Sprintf("item name %q used by slots %d and %d", el.Name, prev, slot)))
			}
			def.names[el.Name] = slot
		}

		if len(el.Children) == 0 {
			nodes = append(nodes, itemtree.ItemNode(slot, 0, 0))
			continue
		}
		nodes = append(nodes, itemtree.ItemNode(slot, len(el.Children), len(order)))
		order = append(order, el.Children...)
	}

	tree, err := itemtree.New(nodes, len(def.slots), len(def.repeats))
	if err != nil {
		return nil, err
	}
	def.tree = tree
	return def, nil
}

func (b *Builder) compileRepeat(def *Definition, el *Element, path string) (itemtree.Node, error) {
	r := el.Repeat
	index := len(def.repeats)
	name := r.Name
	if name == "" {
		name = fmt.Sprintf("repeater%d", index)
	}
	switch {
	case el.Kind != "" || len(el.Children) > 0:
		return itemtree.Node{}, errors.New("E103").
			WithDetail(where(path, fmt.Sprintf("repeated element %q cannot have a kind or children of its own", name)))
	case r.Template == nil:
		return itemtree.Node{}, errors.New("E103").
			WithDetail(where(path, fmt.Sprintf("repeated element %q has no template", name)))
	case r.Model == nil:
		return itemtree.Node{}, errors.New("E103").
			WithDetail(where(path, fmt.Sprintf("repeated element %q has no model", name)))
	}

	sub, err := b.compile(r.Template, joinPath(path, name))
	if err != nil {
		return itemtree.Node{}, err
	}
	def.repeats = append(def.repeats, repeatDef{name: name, decl: r, def: sub})
	return itemtree.DynamicNode(index), nil
}

func describe(el *Element) string {
	if el.Name != "" {
		return el.Name
	}
	return "<unnamed>"
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}

func where(path, msg string) string {
	if path == "" {
		return msg
	}
	return path + ": " + msg
}

// ItemTree returns the compiled tree.
func (d *Definition) ItemTree() *itemtree.Tree {
	return d.tree
}

// Slots returns the number of items per instance.
func (d *Definition) Slots() int {
	return len(d.slots)
}

// Repeaters returns the number of repeaters per instance.
func (d *Definition) Repeaters() int {
	return len(d.repeats)
}
