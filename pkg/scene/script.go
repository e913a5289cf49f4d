package scene

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/window"
)

// Script replays steps against a scene.
//
//	scene: list.yaml
//	steps:
//	  - event: {kind: pressed, x: 20, y: 20}
//	    expect: {result: grab_mouse, grab: "#1"}
//	  - action: {push: {model: names, value: delta}}
//	    expect: {instances: {rows: 3}, props: {title.text: "3 rows"}}
type Script struct {
	// Scene is the location of the scene, relative paths being resolved
	// by the caller.
	Scene string `yaml:"scene"`
	Steps []Step `yaml:"steps"`

	Source string `yaml:"-"`
}

// Step is one script step. Resize, Action and Event run in that order,
// then Expect is checked.
type Step struct {
	Resize *WindowDoc `yaml:"resize"`
	Action *ActionDoc `yaml:"action"`
	Event  *EventDoc  `yaml:"event"`
	Expect *Expect    `yaml:"expect"`

	line int
}

// UnmarshalYAML records the step's line for reports.
func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	type plain Step
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.line = n.Line
	return nil
}

// EventDoc is a pointer event in window coordinates.
type EventDoc struct {
	Kind string  `yaml:"kind"`
	X    float32 `yaml:"x"`
	Y    float32 `yaml:"y"`
}

// Expect lists the checks of a step. Empty fields are not checked.
type Expect struct {
	// Result is the dispatch result: ignored, accepted or grab_mouse.
	Result string `yaml:"result"`

	// Grab is the grab after the step, formatted like input.Grab.String.
	Grab string `yaml:"grab"`

	// Instances maps root repeater names to their instance count.
	Instances map[string]int `yaml:"instances"`

	// Props maps property paths to their expected value as text.
	Props map[string]yaml.Node `yaml:"props"`
}

// ParseScript decodes a script.
func ParseScript(data []byte, source string) (*Script, error) {
	var sc Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, invalid(source, 0, 0, "%v", err).Wrap(err)
	}
	sc.Source = source
	for _, st := range sc.Steps {
		if st.Event != nil {
			if _, err := item.ParseMouseEventKind(st.Event.Kind); err != nil {
				return nil, invalid(source, st.line, 0, "%v", err)
			}
		}
		if st.Expect != nil && st.Expect.Result != "" {
			if _, err := item.ParseInputEventResult(st.Expect.Result); err != nil {
				return nil, invalid(source, st.line, 0, "%v", err)
			}
		}
	}
	return &sc, nil
}

// StepObserver is told the outcome of every step: "ok" or "failed".
type StepObserver interface {
	ScriptStep(outcome string)
}

// StepReport is the outcome of one step.
type StepReport struct {
	Index    int      `json:"index"`
	Line     int      `json:"line"`
	Event    string   `json:"event,omitempty"`
	Result   string   `json:"result,omitempty"`
	Grab     string   `json:"grab"`
	Failures []string `json:"failures,omitempty"`
}

// Report is the outcome of a script run.
type Report struct {
	Script string       `json:"script"`
	Steps  []StepReport `json:"steps"`
}

// Failed returns the number of failed steps.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if len(s.Failures) > 0 {
			n++
		}
	}
	return n
}

// Write prints one line per step and the failures under it.
func (r *Report) Write(w io.Writer) error {
	for _, s := range r.Steps {
		status := "ok  "
		if len(s.Failures) > 0 {
			status = "FAIL"
		}
		line := fmt.Sprintf("%s step %d (line %d)", status, s.Index+1, s.Line)
		if s.Event != "" {
			line += fmt.Sprintf(": %s -> %s, grab %s", s.Event, s.Result, s.Grab)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, f := range s.Failures {
			if _, err := fmt.Fprintf(w, "     %s\n", f); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d steps, %d failed\n", len(r.Steps), r.Failed())
	return err
}

// Run executes the script on w, whose root must be an instance of s. Every
// step runs even after a failure. The error is E108 when a check failed,
// or the first step error that prevented checking.
func (sc *Script) Run(ctx context.Context, s *Scene, w *window.Window, obs StepObserver) (*Report, error) {
	report := &Report{Script: sc.Source, Steps: make([]StepReport, 0, len(sc.Steps))}

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sr, err := sc.step(ctx, s, w, i, st)
		if err != nil {
			return report, err
		}
		report.Steps = append(report.Steps, sr)
		if obs != nil {
			if len(sr.Failures) > 0 {
				obs.ScriptStep("failed")
			} else {
				obs.ScriptStep("ok")
			}
		}
	}

	if n := report.Failed(); n > 0 {
		return report, errors.New("E108").
			WithDetailf("%s: %d of %d steps failed", sc.Source, n, len(report.Steps))
	}
	return report, nil
}

func (sc *Script) step(ctx context.Context, s *Scene, w *window.Window, i int, st Step) (StepReport, error) {
	sr := StepReport{Index: i, Line: st.line}

	if st.Resize != nil {
		w.Resize(st.Resize.Width, st.Resize.Height)
	}

	if st.Action != nil {
		var err error
		w.Do(func(root *component.Instance) {
			var run func() error
			run, err = s.actions(&compiler{scene: s, source: sc.Source, inst: root}, []ActionDoc{*st.Action})
			if err == nil {
				err = run()
			}
		})
		if err != nil {
			return sr, err
		}
	}

	var result item.InputEventResult
	if st.Event != nil {
		kind, _ := item.ParseMouseEventKind(st.Event.Kind)
		ev := item.MouseEvent{Pos: item.Point{X: st.Event.X, Y: st.Event.Y}, Kind: kind}
		var err error
		result, err = w.Dispatch(ctx, ev)
		if err != nil {
			return sr, err
		}
		sr.Event = fmt.Sprintf("%s %s", kind, ev.Pos)
		sr.Result = result.String()
	} else if err := w.Sync(); err != nil {
		return sr, err
	}
	sr.Grab = w.Grab().String()

	if st.Expect != nil {
		sr.Failures = sc.check(s, w, st, result)
	}
	return sr, nil
}

func (sc *Script) check(s *Scene, w *window.Window, st Step, result item.InputEventResult) []string {
	exp := st.Expect
	var failures []string

	if exp.Result != "" {
		if st.Event == nil {
			failures = append(failures, "result expected but the step has no event")
		} else if want, _ := item.ParseInputEventResult(exp.Result); want != result {
			failures = append(failures, fmt.Sprintf("result: got %s, want %s", result, want))
		}
	}
	if exp.Grab != "" {
		if got := w.Grab().String(); got != exp.Grab {
			failures = append(failures, fmt.Sprintf("grab: got %s, want %s", got, exp.Grab))
		}
	}

	w.Do(func(root *component.Instance) {
		for _, name := range sortedKeys(exp.Instances) {
			want := exp.Instances[name]
			r, ok := root.RepeaterNamed(name)
			if !ok {
				failures = append(failures, fmt.Sprintf("instances: no repeater %q", name))
				continue
			}
			if r.Len() != want {
				failures = append(failures, fmt.Sprintf("instances %s: got %d, want %d", name, r.Len(), want))
			}
		}

		for _, path := range sortedKeys(exp.Props) {
			want := exp.Props[path].Value
			get, err := (&compiler{scene: s, source: sc.Source, inst: root}).resolve(path)
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			if got := toString(get()); got != want {
				failures = append(failures, fmt.Sprintf("%s: got %q, want %q", path, got, want))
			}
		}
	})
	return failures
}
