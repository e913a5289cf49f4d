package component

import (
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/model"
)

// Element declares one node of a component: an item of a registered kind
// with its children, or, when Repeat is set, repeated content.
type Element struct {
	// Kind is the item kind. Empty for repeated content.
	Kind string

	// Name identifies the item inside its component for Instance.Item and
	// Instance.Lookup. Optional.
	Name string

	// Setup runs once per instance after every item of the instance
	// exists. It sets literal values and installs bindings.
	Setup SetupFunc

	Children []*Element

	// Repeat makes the element a dynamic node.
	Repeat *Repeat
}

// SetupFunc initialises the item created for an element.
type SetupFunc func(it item.Item, inst *Instance) error

// Repeat declares repeated content: one instance of Template per model
// element.
type Repeat struct {
	// Name is used in logs and metrics. Defaults to "repeater<N>".
	Name string

	// Model returns the model for the instance holding the repeater.
	Model func(inst *Instance) (model.Model[any], error)

	Template *Element
}
