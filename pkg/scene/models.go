package scene

import (
	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/model"
)

// Model is a named scene model: a list or a counter.
type Model struct {
	name  string
	list  *model.Vec[any]
	count *model.Count
	m     model.Model[any]
}

func newModel(name string, doc ModelDoc) *Model {
	m := &Model{name: name}
	if doc.Count != nil {
		m.count = model.NewCount(*doc.Count)
		m.m = model.Erase[int](m.count)
		return m
	}
	m.list = model.NewVec(doc.List...)
	m.m = m.list
	return m
}

// Name returns the model's name.
func (m *Model) Name() string {
	return m.name
}

// Model returns the model as seen by repeaters.
func (m *Model) Model() model.Model[any] {
	return m.m
}

// Len returns the current element count.
func (m *Model) Len() int {
	return m.m.Count()
}

// Push appends v to a list model.
func (m *Model) Push(v any) error {
	if m.list == nil {
		return m.wrongKind("push")
	}
	m.list.Push(v)
	return nil
}

// Remove deletes element i of a list model.
func (m *Model) Remove(i int) error {
	if m.list == nil {
		return m.wrongKind("remove")
	}
	if n := m.list.Count(); i < 0 || i >= n {
		return errors.New("E102").WithDetailf("model %q: remove index %d, count %d", m.name, i, n)
	}
	m.list.Remove(i)
	return nil
}

// SetCount sets the element count of a counter model.
func (m *Model) SetCount(n int) error {
	if m.count == nil {
		return m.wrongKind("count")
	}
	m.count.SetCount(n)
	return nil
}

func (m *Model) wrongKind(op string) error {
	kind := "list"
	if m.count != nil {
		kind = "count"
	}
	return errors.New("E106").WithDetailf("%s is not supported by %s model %q", op, kind, m.name)
}
