package scene

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/model"
)

// Scene is a compiled document ready to be instantiated.
type Scene struct {
	doc    *Document
	def    *component.Definition
	models map[string]*Model
	logger *slog.Logger
}

type options struct {
	registry   *item.Registry
	logger     *slog.Logger
	builderOpt []component.Option
}

// Option configures Compile.
type Option func(*options)

// WithRegistry resolves item kinds with reg instead of the built-ins.
func WithRegistry(reg *item.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithLogger sets the logger for callbacks and repeaters.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBuilderOptions passes options to the component builder.
func WithBuilderOptions(opts ...component.Option) Option {
	return func(o *options) { o.builderOpt = append(o.builderOpt, opts...) }
}

// Compile turns the document into a component definition. Property
// expressions are resolved later, per instance.
func Compile(doc *Document, opts ...Option) (*Scene, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &Scene{
		doc:    doc,
		models: make(map[string]*Model, len(doc.Models)),
		logger: o.logger,
	}
	for name, m := range doc.Models {
		s.models[name] = newModel(name, m)
	}

	if o.registry == nil {
		o.registry = item.NewRegistry()
	}
	if err := s.checkKinds(o.registry, doc.Root); err != nil {
		return nil, err
	}

	b := component.NewBuilder(o.registry, append([]component.Option{component.WithLogger(o.logger)}, o.builderOpt...)...)
	def, err := b.Compile(s.element(doc.Root))
	if err != nil {
		return nil, err
	}
	s.def = def
	return s, nil
}

// checkKinds reports unknown kinds with their document position.
func (s *Scene) checkKinds(reg *item.Registry, doc *ElementDoc) error {
	if doc.Repeat != nil {
		return s.checkKinds(reg, doc.Repeat.Template)
	}
	if !reg.Has(doc.Kind) {
		return errors.New("E104").
			WithDetailf("kind %q", doc.Kind).
			WithSuggestion("known kinds: "+strings.Join(reg.Kinds(), ", ")).
			WithLocation(s.doc.Source, doc.line, doc.column)
	}
	for _, c := range doc.Children {
		if err := s.checkKinds(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the document name.
func (s *Scene) Name() string {
	return s.doc.Name
}

// Document returns the parsed document.
func (s *Scene) Document() *Document {
	return s.doc
}

// Definition returns the compiled component.
func (s *Scene) Definition() *component.Definition {
	return s.def
}

// Model returns the named model.
func (s *Scene) Model(name string) (*Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

// ModelNames returns the model names in sorted order.
func (s *Scene) ModelNames() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates the root instance and sizes its window properties
// from the document.
func (s *Scene) Instantiate() (*component.Instance, error) {
	inst, err := s.def.New()
	if err != nil {
		return nil, err
	}
	wp := inst.WindowProperties()
	wp.Width.Set(s.doc.Window.Width)
	wp.Height.Set(s.doc.Window.Height)
	return inst, nil
}

func (s *Scene) element(doc *ElementDoc) *component.Element {
	if doc.Repeat != nil {
		r := doc.Repeat
		return &component.Element{
			Repeat: &component.Repeat{
				Name: r.Name,
				Model: func(*component.Instance) (model.Model[any], error) {
					m, ok := s.models[r.Model]
					if !ok {
						return nil, invalid(s.doc.Source, doc.line, doc.column, "repeat uses unknown model %q", r.Model)
					}
					return m.Model(), nil
				},
				Template: s.element(r.Template),
			},
		}
	}

	el := &component.Element{
		Kind:  doc.Kind,
		Name:  doc.Name,
		Setup: s.setup(doc),
	}
	for _, c := range doc.Children {
		el.Children = append(el.Children, s.element(c))
	}
	return el
}

// setup returns the function applying doc's props and callbacks to the
// item created for it in each instance.
func (s *Scene) setup(doc *ElementDoc) component.SetupFunc {
	if len(doc.Props) == 0 && len(doc.On) == 0 {
		return nil
	}
	return func(it item.Item, inst *component.Instance) error {
		c := &compiler{scene: s, source: s.doc.Source, inst: inst}

		for _, name := range sortedKeys(doc.Props) {
			n := doc.Props[name]
			target, ok := it.Lookup(name)
			if !ok {
				return invalid(s.doc.Source, n.Line, n.Column, "%s has no property %q", it.Kind(), name)
			}
			e, err := c.compile(&n)
			if err != nil {
				return err
			}
			if err := assign(target, e); err != nil {
				return located(err, s.doc.Source, &n)
			}
		}

		for _, name := range sortedKeys(doc.On) {
			target, ok := it.Lookup(name)
			cb, isCallback := target.(*item.Callback)
			if !ok || !isCallback {
				return invalid(s.doc.Source, doc.line, doc.column, "%s has no callback %q", it.Kind(), name)
			}
			run, err := s.actions(c, doc.On[name])
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s.%s", describe(doc), name)
			cb.SetHandler(func() {
				if err := run(); err != nil {
					s.logger.Error("callback failed", slog.String("callback", label), slog.Any("error", err))
				}
			})
		}
		return nil
	}
}

func describe(doc *ElementDoc) string {
	if doc.Name != "" {
		return doc.Name
	}
	return doc.Kind
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
