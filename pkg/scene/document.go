package scene

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/scene/internal/errors"
)

// Document is a parsed scene file.
type Document struct {
	Name   string              `yaml:"name"`
	Window WindowDoc           `yaml:"window"`
	Models map[string]ModelDoc `yaml:"models"`
	Root   *ElementDoc         `yaml:"root"`

	// Source is the file name or URI the document was read from.
	Source string `yaml:"-"`
}

// WindowDoc is the initial window size.
type WindowDoc struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// ModelDoc declares a named model: either a list of elements or an integer
// count.
type ModelDoc struct {
	List  []any `yaml:"list"`
	Count *int  `yaml:"count"`
}

// ElementDoc declares an item or, with Repeat, repeated content.
type ElementDoc struct {
	Kind     string                 `yaml:"kind"`
	Name     string                 `yaml:"name"`
	Props    map[string]yaml.Node   `yaml:"props"`
	On       map[string][]ActionDoc `yaml:"on"`
	Children []*ElementDoc          `yaml:"children"`
	Repeat   *RepeatDoc             `yaml:"repeat"`

	line, column int
}

// UnmarshalYAML records the element's position for error reports.
func (e *ElementDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain ElementDoc
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line, e.column = n.Line, n.Column
	return nil
}

// RepeatDoc declares repeated content driven by a named model.
type RepeatDoc struct {
	Name     string      `yaml:"name"`
	Model    string      `yaml:"model"`
	Template *ElementDoc `yaml:"template"`
}

// ActionDoc is one callback action. Exactly one field is set.
type ActionDoc struct {
	Push   *ModelOp `yaml:"push"`
	Remove *ModelOp `yaml:"remove"`
	Count  *ModelOp `yaml:"count"`
	Set    *SetOp   `yaml:"set"`

	line, column int
}

// UnmarshalYAML records the action's position for error reports.
func (a *ActionDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain ActionDoc
	if err := n.Decode((*plain)(a)); err != nil {
		return err
	}
	a.line, a.column = n.Line, n.Column
	return nil
}

// ModelOp mutates a named model. Value and Index are expressions.
type ModelOp struct {
	Model string    `yaml:"model"`
	Value yaml.Node `yaml:"value"`
	Index yaml.Node `yaml:"index"`
}

// SetOp sets a property to the current value of an expression.
type SetOp struct {
	Target string    `yaml:"target"`
	Value  yaml.Node `yaml:"value"`
}

// Parse decodes a scene document. source names the document in errors.
func Parse(data []byte, source string) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid(source, 0, 0, "%v", err).Wrap(err)
	}
	doc.Source = source

	if doc.Root == nil {
		return nil, invalid(source, 0, 0, "document has no root element").
			WithSuggestion("add a top level 'root:' mapping with a kind")
	}
	for name, m := range doc.Models {
		if (m.List == nil) == (m.Count == nil) {
			return nil, invalid(source, 0, 0, "model %q must declare exactly one of list or count", name)
		}
	}
	if err := doc.check(doc.Root); err != nil {
		return nil, err
	}
	return &doc, nil
}

// check validates the structure that decoding cannot: element shape and
// model references.
func (d *Document) check(e *ElementDoc) error {
	if e.Repeat != nil {
		r := e.Repeat
		switch {
		case e.Kind != "" || e.Name != "" || len(e.Props) > 0 || len(e.Children) > 0 || len(e.On) > 0:
			return invalid(d.Source, e.line, e.column, "a repeat element cannot declare kind, name, props, on or children")
		case r.Template == nil:
			return invalid(d.Source, e.line, e.column, "repeat has no template")
		}
		if _, ok := d.Models[r.Model]; !ok {
			return invalid(d.Source, e.line, e.column, "repeat uses unknown model %q", r.Model).
				WithSuggestion("declare it under 'models:'")
		}
		return d.check(r.Template)
	}

	if e.Kind == "" {
		return invalid(d.Source, e.line, e.column, "element has no kind")
	}
	for _, actions := range e.On {
		for _, a := range actions {
			if err := d.checkAction(a); err != nil {
				return err
			}
		}
	}
	for _, c := range e.Children {
		if c == nil {
			return invalid(d.Source, e.line, e.column, "empty child element")
		}
		if err := d.check(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) checkAction(a ActionDoc) error {
	set := 0
	var op *ModelOp
	for _, m := range []*ModelOp{a.Push, a.Remove, a.Count} {
		if m != nil {
			set++
			op = m
		}
	}
	if a.Set != nil {
		set++
	}
	if set != 1 {
		return invalid(d.Source, a.line, a.column, "an action must have exactly one of push, remove, count or set")
	}
	if op != nil {
		if _, ok := d.Models[op.Model]; !ok {
			return invalid(d.Source, a.line, a.column, "action uses unknown model %q", op.Model)
		}
	}
	return nil
}

func invalid(source string, line, column int, format string, args ...any) *errors.Error {
	err := errors.New("E106").WithDetail(fmt.Sprintf(format, args...))
	if line > 0 {
		err = err.WithLocation(source, line, column)
	}
	return err
}
