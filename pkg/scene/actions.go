package scene

import (
	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/property"
)

// actions compiles a callback's action list against the compiler's
// instance. Expressions are evaluated when the callback fires, untracked.
func (s *Scene) actions(c *compiler, docs []ActionDoc) (func() error, error) {
	steps := make([]func() error, 0, len(docs))
	for _, a := range docs {
		step, err := s.action(c, a)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return func() (err error) {
		property.Untracked(func() {
			for _, step := range steps {
				if err = step(); err != nil {
					return
				}
			}
		})
		return err
	}, nil
}

func (s *Scene) action(c *compiler, a ActionDoc) (func() error, error) {
	switch {
	case a.Push != nil:
		m := s.models[a.Push.Model]
		value, err := c.compile(&a.Push.Value)
		if err != nil {
			return nil, err
		}
		return func() error { return m.Push(value.eval()) }, nil

	case a.Remove != nil:
		m := s.models[a.Remove.Model]
		index, err := c.compile(&a.Remove.Index)
		if err != nil {
			return nil, err
		}
		return func() error { return m.Remove(int(toNumber(index.eval()))) }, nil

	case a.Count != nil:
		m := s.models[a.Count.Model]
		value, err := c.compile(&a.Count.Value)
		if err != nil {
			return nil, err
		}
		return func() error { return m.SetCount(int(toNumber(value.eval()))) }, nil

	case a.Set != nil:
		target, err := lookup(c.inst, a.Set.Target)
		if err != nil {
			return nil, located(err, s.doc.Source, &a.Set.Value)
		}
		value, err := c.compile(&a.Set.Value)
		if err != nil {
			return nil, err
		}
		return func() error {
			return setLiteral(target, value.eval())
		}, nil
	}
	return nil, errors.New("E106").WithDetail("empty action")
}
