package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scene/internal/errors"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/scene"
	"github.com/vango-dev/scene/pkg/window"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		scriptPath string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "Replay a script or stdin events against a scene",
		Long: `Run loads a scene and drives it with pointer events.

With --script, the script's steps run in order and their expectations
are checked; the command fails when any step fails. The scene argument
may be omitted when the script names its scene.

Without --script, events are read from stdin, one JSON object per line:
  {"kind":"pressed","x":20,"y":260}

Examples:
  scene run --script scenes/list_script.yaml
  scene run list.yaml < events.jsonl
  scene run s3://scenes/list.yaml --script check.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if scriptPath != "" {
				return runScript(ctx, e, args, scriptPath, jsonOut, cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return errors.New("E140").WithDetail("run needs a scene or --script")
			}
			return runEvents(ctx, e, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Script to replay")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the script report as JSON")

	return cmd
}

func runScript(ctx context.Context, e *env, args []string, path string, jsonOut bool, out io.Writer) error {
	data, err := e.loader.Fetch(ctx, path)
	if err != nil {
		return err
	}
	script, err := scene.ParseScript(data, path)
	if err != nil {
		return err
	}

	location := script.Scene
	if len(args) > 0 {
		location = args[0]
	} else if location == "" {
		return errors.New("E140").WithDetail(path + " names no scene; pass one as an argument")
	} else if !strings.Contains(location, "://") && !filepath.IsAbs(location) && !strings.Contains(path, "://") {
		location = filepath.Join(filepath.Dir(path), location)
	}

	s, w, err := e.open(ctx, location)
	if err != nil {
		return err
	}
	defer w.Close()

	report, runErr := script.Run(ctx, s, w, e.metrics)
	if report != nil {
		if jsonOut {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else if err := report.Write(out); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if !jsonOut {
		success("%s: %d steps passed", path, len(report.Steps))
	}
	return nil
}

type eventLine struct {
	Kind string  `json:"kind"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

func runEvents(ctx context.Context, e *env, location string, in io.Reader, out io.Writer) error {
	_, w, err := e.open(ctx, location)
	if err != nil {
		return err
	}
	defer w.Close()

	events := make(chan item.MouseEvent)
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		readErr <- readEvents(ctx, in, events)
	}()

	if err := w.Run(ctx, events); err != nil {
		return err
	}
	if err := <-readErr; err != nil {
		return err
	}

	printStats(out, w)
	return nil
}

func readEvents(ctx context.Context, in io.Reader, events chan<- item.MouseEvent) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var ev eventLine
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return errors.New("E140").WithDetailf("stdin line %d: %v", line, err)
		}
		kind, err := item.ParseMouseEventKind(ev.Kind)
		if err != nil {
			return errors.New("E140").WithDetailf("stdin line %d: %v", line, err)
		}
		select {
		case events <- item.MouseEvent{Pos: item.Point{X: ev.X, Y: ev.Y}, Kind: kind}:
		case <-ctx.Done():
			return nil
		}
	}
	return scanner.Err()
}

func printStats(out io.Writer, w *window.Window) {
	st := w.Stats()
	fmt.Fprintf(out, "%d events: %d ignored, %d accepted, %d grabbed, %d errors; grab %s\n",
		st.Events, st.Ignored, st.Accepted, st.Grabbed, st.Errors, w.Grab())
}
