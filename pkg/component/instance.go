package component

import (
	"fmt"
	"strings"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/itemtree"
	"github.com/vango-dev/scene/pkg/property"
	"github.com/vango-dev/scene/pkg/repeater"
)

// WindowProperties are the properties a component shares with the window
// showing it.
type WindowProperties struct {
	Width  property.Property[float32]
	Height property.Property[float32]
}

// Instance is a live component: an arena of items laid out by its
// definition's tree plus one repeater per dynamic node.
type Instance struct {
	def       *Definition
	arena     *item.Arena
	repeaters []*repeater.Repeater[any]
	parent    itemtree.Component
	window    *WindowProperties

	// ModelIndex and ModelData are set by the repeater that created the
	// instance.
	ModelIndex property.Property[int]
	ModelData  property.Property[any]
}

// New creates an instance: every item with its default values, then every
// element's Setup in slot order, then one repeater per dynamic node with
// its model attached. Repeated content is built on the first Sync.
func (d *Definition) New() (*Instance, error) {
	inst := d.alloc()
	if err := inst.setup(); err != nil {
		inst.Dispose()
		return nil, err
	}
	return inst, nil
}

func (d *Definition) alloc() *Instance {
	inst := &Instance{
		def:   d,
		arena: item.NewArena(len(d.slots)),
	}
	inst.ModelIndex.SetName("model_index")
	inst.ModelData.SetName("model_data")
	for _, el := range d.slots {
		// Kinds were checked at compile time.
		it, _ := d.builder.registry.New(el.Kind)
		inst.arena.Add(it)
	}
	return inst
}

func (inst *Instance) setup() error {
	d := inst.def
	for slot, el := range d.slots {
		if el.Setup == nil {
			continue
		}
		if err := el.Setup(inst.arena.At(slot), inst); err != nil {
			return fmt.Errorf("setup %s: %w", describe(el), err)
		}
	}

	for _, rd := range d.repeats {
		opts := append([]repeater.Option{
			repeater.WithName(rd.name),
			repeater.WithLogger(d.builder.logger),
		}, d.builder.repeaterOpt...)
		r := repeater.New(rd.def.factory(), opts...)
		inst.repeaters = append(inst.repeaters, r)

		m, err := rd.decl.Model(inst)
		if err != nil {
			return fmt.Errorf("model of %s: %w", rd.name, err)
		}
		r.SetModel(m)
	}
	return nil
}

// factory builds repeated instances of d. Setup runs in UpdateData, once
// model_index and model_data hold the instance's element, so bindings
// reading them see real values from the start.
func (d *Definition) factory() repeater.Factory[any] {
	return func() repeater.Instance[any] {
		return &repeated{Instance: d.alloc()}
	}
}

// repeated is an instance created by a repeater. Setup errors cannot be
// returned through UpdateData; they are kept and reported by Sync.
type repeated struct {
	*Instance
	ready bool
	err   error
}

func (r *repeated) UpdateData(index int, data any) {
	r.Instance.UpdateData(index, data)
	if !r.ready {
		r.ready = true
		r.err = r.setup()
	}
}

func (r *repeated) Sync() error {
	if r.err != nil {
		return r.err
	}
	return r.Instance.Sync()
}

// ItemTree returns the tree shared by all instances of the definition.
func (inst *Instance) ItemTree() *itemtree.Tree {
	return inst.def.tree
}

// Items returns the instance's arena.
func (inst *Instance) Items() *item.Arena {
	return inst.arena
}

// Dynamic returns the repeater behind dynamic node content r.
func (inst *Instance) Dynamic(r int) itemtree.Dynamic {
	if r < 0 || r >= len(inst.repeaters) {
		return nil
	}
	return inst.repeaters[r]
}

// Repeater returns repeater r.
func (inst *Instance) Repeater(r int) *repeater.Repeater[any] {
	return inst.repeaters[r]
}

// RepeaterNamed returns the repeater declared with name.
func (inst *Instance) RepeaterNamed(name string) (*repeater.Repeater[any], bool) {
	for i, rd := range inst.def.repeats {
		if rd.name == name && i < len(inst.repeaters) {
			return inst.repeaters[i], true
		}
	}
	return nil, false
}

// SetParent sets the back reference to the component holding this
// instance's repeater.
func (inst *Instance) SetParent(parent itemtree.Component) {
	inst.parent = parent
}

// Parent returns the component holding this instance, or nil for a root.
func (inst *Instance) Parent() itemtree.Component {
	return inst.parent
}

// ParentInstance returns the enclosing instance, or nil.
func (inst *Instance) ParentInstance() *Instance {
	p, _ := inst.parent.(*Instance)
	return p
}

// UpdateData stores the instance's model index and element.
func (inst *Instance) UpdateData(index int, data any) {
	inst.ModelIndex.Set(index)
	inst.ModelData.Set(data)
}

// Sync brings every repeater, at any depth, in line with its model.
func (inst *Instance) Sync() error {
	for _, r := range inst.repeaters {
		if _, err := r.Sync(inst); err != nil {
			return err
		}
	}
	return nil
}

// WindowProperties returns the window properties of the root instance.
func (inst *Instance) WindowProperties() *WindowProperties {
	if p, ok := inst.parent.(interface{ WindowProperties() *WindowProperties }); ok {
		return p.WindowProperties()
	}
	if inst.window == nil {
		inst.window = &WindowProperties{}
		inst.window.Width.SetName("window.width")
		inst.window.Height.SetName("window.height")
	}
	return inst.window
}

// Item returns the item declared with name.
func (inst *Instance) Item(name string) (item.Item, bool) {
	slot, ok := inst.def.names[name]
	if !ok {
		return nil, false
	}
	return inst.arena.At(slot), true
}

// Lookup resolves "item.property" to the property or callback of a named
// item. Unknown items and properties fail with E105.
func (inst *Instance) Lookup(path string) (any, error) {
	name, prop, ok := strings.Cut(path, ".")
	if !ok {
		return nil, errors.New("E105").
			WithDetailf("%q is not of the form item.property", path)
	}
	it, ok := inst.Item(name)
	if !ok {
		return nil, errors.New("E105").WithDetailf("no item named %q", name)
	}
	v, ok := it.Lookup(prop)
	if !ok {
		return nil, errors.New("E105").
			WithDetailf("%s %q has no property %q", it.Kind(), name, prop)
	}
	return v, nil
}

// Dispose releases every item and repeated instance.
func (inst *Instance) Dispose() {
	for _, r := range inst.repeaters {
		r.Dispose()
	}
	inst.repeaters = nil
	inst.arena.Dispose()
	inst.ModelIndex.Dispose()
	inst.ModelData.Dispose()
	if inst.window != nil {
		inst.window.Width.Dispose()
		inst.window.Height.Dispose()
	}
}
