package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/scene/internal/config"
	"github.com/vango-dev/scene/pkg/component"
	"github.com/vango-dev/scene/pkg/input"
	"github.com/vango-dev/scene/pkg/metrics"
	"github.com/vango-dev/scene/pkg/property"
	"github.com/vango-dev/scene/pkg/repeater"
	"github.com/vango-dev/scene/pkg/scene"
	"github.com/vango-dev/scene/pkg/window"
)

type globalFlags struct {
	config  string
	verbose bool
}

// env is the wiring shared by the commands.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	loader   *scene.Loader
}

func newEnv(flags *globalFlags) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithSubsystem(cfg.Metrics.Subsystem),
		metrics.WithConstLabels(cfg.Metrics.ConstLabels),
		metrics.WithRegistry(reg),
	)
	property.SetObserver(m)

	var client scene.ObjectGetter
	if cfg.S3.Enabled() {
		client = scene.NewS3Client(scene.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  m,
		loader:   scene.NewLoader(client),
	}, nil
}

// open loads the scene at location and puts an instance of it in a window.
func (e *env) open(ctx context.Context, location string) (*scene.Scene, *window.Window, error) {
	s, err := e.loader.Load(ctx, e.cfg.ScenePath(location),
		scene.WithLogger(e.logger),
		scene.WithBuilderOptions(component.WithRepeaterOptions(repeater.WithObserver(e.metrics))),
	)
	if err != nil {
		return nil, nil, err
	}
	root, err := s.Instantiate()
	if err != nil {
		return nil, nil, err
	}

	w := window.New(root,
		window.WithLogger(e.logger),
		window.WithDispatcher(input.NewDispatcher(
			input.WithLogger(e.logger),
			input.WithObserver(e.metrics),
		)),
		window.WithTracerName(e.cfg.Tracing.Tracer),
		window.WithObserver(e.metrics),
	)
	return s, w, nil
}
