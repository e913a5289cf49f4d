package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/scene/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "scene",
		Short: "Run and inspect reactive item-tree scenes",
		Long: `Scene loads declarative item trees, binds their properties and
drives them with pointer events.

  • Lazy property bindings with cycle detection
  • Repeaters driven by list and count models
  • Mouse grab tracking across repeated instances
  • Scripted replays with expectations
  • Debug server with tree inspection, metrics and event injection`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to scene.json (default: nearest in the working directory or its parents)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		runCmd(&flags),
		treeCmd(&flags),
		serveCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var se *errors.Error
		if stderrors.As(err, &se) {
			errors.Fprint(os.Stderr, se)
			if se != err {
				fmt.Fprintf(os.Stderr, "  (%s)\n", err)
			}
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
