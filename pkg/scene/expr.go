package scene

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/property"
)

// expr is a compiled expression. constant is set for literals, which are
// stored with Set instead of becoming bindings.
type expr struct {
	eval     func() any
	constant bool
}

// compiler resolves expressions against one instance.
type compiler struct {
	scene  *Scene
	source string
	inst   *component.Instance
}

func (c *compiler) compile(n *yaml.Node) (expr, error) {
	switch n.Kind {
	case 0:
		return expr{eval: func() any { return nil }, constant: true}, nil
	case yaml.ScalarNode:
		v, err := scalar(n)
		if err != nil {
			return expr{}, invalid(c.source, n.Line, n.Column, "%v", err)
		}
		return expr{eval: func() any { return v }, constant: true}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return expr{}, invalid(c.source, n.Line, n.Column, "an expression mapping must have exactly one of ref, add or mul")
		}
		op, arg := n.Content[0].Value, n.Content[1]
		switch op {
		case "ref":
			if arg.Kind != yaml.ScalarNode {
				return expr{}, invalid(c.source, arg.Line, arg.Column, "ref takes a property path")
			}
			get, err := c.resolve(arg.Value)
			if err != nil {
				return expr{}, located(err, c.source, arg)
			}
			return expr{eval: get}, nil
		case "add", "mul":
			return c.compileArith(op, arg)
		}
		return expr{}, invalid(c.source, n.Line, n.Column, "unknown expression %q", op).
			WithSuggestion("use ref, add or mul")
	}
	return expr{}, invalid(c.source, n.Line, n.Column, "unsupported expression")
}

func (c *compiler) compileArith(op string, arg *yaml.Node) (expr, error) {
	if arg.Kind != yaml.SequenceNode || len(arg.Content) == 0 {
		return expr{}, invalid(c.source, arg.Line, arg.Column, "%s takes a non-empty list", op)
	}
	operands := make([]func() any, len(arg.Content))
	constant := true
	for i, n := range arg.Content {
		e, err := c.compile(n)
		if err != nil {
			return expr{}, err
		}
		operands[i] = e.eval
		constant = constant && e.constant
	}

	if op == "mul" {
		return expr{constant: constant, eval: func() any {
			product := 1.0
			for _, o := range operands {
				product *= toNumber(o())
			}
			return product
		}}, nil
	}
	return expr{constant: constant, eval: func() any {
		values := make([]any, len(operands))
		text := false
		for i, o := range operands {
			values[i] = o()
			if _, ok := values[i].(string); ok {
				text = true
			}
		}
		if text {
			var b strings.Builder
			for _, v := range values {
				b.WriteString(toString(v))
			}
			return b.String()
		}
		sum := 0.0
		for _, v := range values {
			sum += toNumber(v)
		}
		return sum
	}}, nil
}

func scalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!int", "!!float":
		return strconv.ParseFloat(n.Value, 64)
	case "!!bool":
		return strconv.ParseBool(n.Value)
	case "!!null":
		return nil, nil
	}
	return n.Value, nil
}

// resolve returns a reader for path: a model count, written
// models.<name>.count, or a property as seen from the compiler's instance.
func (c *compiler) resolve(path string) (func() any, error) {
	if rest, ok := strings.CutPrefix(path, "models."); ok {
		name, field, _ := strings.Cut(rest, ".")
		m, ok := c.scene.models[name]
		if !ok || field != "count" {
			return nil, errors.New("E105").WithDetailf("%q is not a model count; use models.<name>.count", path)
		}
		return func() any { return m.Len() }, nil
	}
	return resolve(c.inst, path)
}

// resolve returns a reader for the property at path, as seen from inst.
func resolve(inst *component.Instance, path string) (func() any, error) {
	target, err := lookup(inst, path)
	if err != nil {
		return nil, err
	}
	return reader(target)
}

// lookup finds the property or callback at path.
func lookup(inst *component.Instance, path string) (any, error) {
	switch path {
	case "window.width":
		return &inst.WindowProperties().Width, nil
	case "window.height":
		return &inst.WindowProperties().Height, nil
	case "model.index":
		return &inst.ModelIndex, nil
	case "model.data":
		return &inst.ModelData, nil
	}
	if rest, ok := strings.CutPrefix(path, "parent."); ok {
		parent := inst.ParentInstance()
		if parent == nil {
			return nil, errors.New("E105").WithDetailf("%q: the root instance has no parent", path)
		}
		return lookup(parent, rest)
	}
	return inst.Lookup(path)
}

func reader(target any) (func() any, error) {
	switch p := target.(type) {
	case *property.Property[float32]:
		return func() any { return p.Get() }, nil
	case *property.Property[string]:
		return func() any { return p.Get() }, nil
	case *property.Property[bool]:
		return func() any { return p.Get() }, nil
	case *property.Property[int]:
		return func() any { return p.Get() }, nil
	case *property.Property[item.Color]:
		return func() any { return p.Get() }, nil
	case *property.Property[any]:
		return func() any { return p.Get() }, nil
	}
	return nil, errors.New("E105").WithDetailf("%T cannot be read in an expression", target)
}

// assign stores e into target: literals with Set, anything else as a
// binding. Literals are type checked here; bindings convert leniently on
// every evaluation.
func assign(target any, e expr) error {
	if e.constant {
		return setLiteral(target, e.eval())
	}
	switch p := target.(type) {
	case *property.Property[float32]:
		p.SetBinding(func() float32 { return float32(toNumber(e.eval())) })
	case *property.Property[string]:
		p.SetBinding(func() string { return toString(e.eval()) })
	case *property.Property[bool]:
		p.SetBinding(func() bool { return toBool(e.eval()) })
	case *property.Property[int]:
		p.SetBinding(func() int { return int(toNumber(e.eval())) })
	case *property.Property[item.Color]:
		p.SetBinding(func() item.Color { return toColor(e.eval()) })
	case *property.Property[any]:
		p.SetBinding(e.eval)
	default:
		return errors.New("E105").WithDetailf("%T cannot be bound", target)
	}
	return nil
}

func setLiteral(target any, v any) error {
	mismatch := func(want string) error {
		return errors.New("E105").WithDetailf("expected %s, got %v (%T)", want, v, v)
	}
	switch p := target.(type) {
	case *property.Property[float32]:
		f, ok := asNumber(v)
		if !ok {
			return mismatch("a number")
		}
		p.Set(float32(f))
	case *property.Property[int]:
		f, ok := asNumber(v)
		if !ok || f != float64(int(f)) {
			return mismatch("an integer")
		}
		p.Set(int(f))
	case *property.Property[string]:
		p.Set(toString(v))
	case *property.Property[bool]:
		b, ok := v.(bool)
		if !ok {
			return mismatch("a boolean")
		}
		p.Set(b)
	case *property.Property[item.Color]:
		s, ok := v.(string)
		if !ok {
			return mismatch("a color")
		}
		color, err := item.ParseColor(s)
		if err != nil {
			return errors.New("E105").WithDetail(err.Error())
		}
		p.Set(color)
	case *property.Property[any]:
		p.Set(v)
	default:
		return errors.New("E105").WithDetailf("%T cannot be set", target)
	}
	return nil
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32)
	case item.Color:
		return s.String()
	}
	return fmt.Sprint(v)
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return toNumber(v) != 0
}

func toColor(v any) item.Color {
	switch c := v.(type) {
	case item.Color:
		return c
	case string:
		color, _ := item.ParseColor(c)
		return color
	}
	return item.Color(uint32(toNumber(v)))
}

// located attaches n's position to err when it is a structured error
// without one.
func located(err error, source string, n *yaml.Node) error {
	if se, ok := err.(*errors.Error); ok && se.Location == nil {
		return se.WithLocation(source, n.Line, n.Column)
	}
	return err
}
