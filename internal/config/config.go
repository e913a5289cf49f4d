package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vango-dev/scene/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "scene.json"

	// DefaultScenes is the default directory holding scene documents.
	DefaultScenes = "scenes"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultDebugAddr is the default debug server address.
	DefaultDebugAddr = "localhost:6070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "scene"

	// DefaultTracer is the default tracer name for window dispatch spans.
	DefaultTracer = "scene/window"
)

// Config represents the complete scene.json configuration.
type Config struct {
	// Scenes is the directory relative scene paths are resolved against.
	Scenes string `json:"scenes,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Debug contains debug server configuration.
	Debug DebugConfig `json:"debug,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// S3 configures s3:// scene sources.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// DebugConfig contains debug server settings.
type DebugConfig struct {
	// Enabled starts the debug server with run and serve.
	Enabled bool `json:"enabled,omitempty"`

	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is inserted between namespace and name.
	Subsystem string `json:"subsystem,omitempty"`

	// ConstLabels are added to every metric.
	ConstLabels map[string]string `json:"constLabels,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Tracer is the tracer name used for dispatch spans.
	Tracer string `json:"tracer,omitempty"`
}

// S3Config contains S3 client settings.
type S3Config struct {
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`

	// UsePathStyle addresses buckets as endpoint/bucket.
	UsePathStyle bool `json:"usePathStyle,omitempty"`

	// AccessKeyID and SecretAccessKey are static credentials. The
	// environment variables AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY
	// are used when they are empty.
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
}

// Enabled reports whether an S3 client should be built.
func (s S3Config) Enabled() bool {
	return s.Region != "" || s.Endpoint != ""
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for scene.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No scene.json found in " + filepath.Dir(path)).
				WithSuggestion("Create scene.json or run without a config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse scene.json: " + err.Error()).
			WithSuggestion("Check that scene.json is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	cfg.applyEnv()

	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or ".".
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Scenes == "" {
		c.Scenes = DefaultScenes
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Debug.Addr == "" {
		c.Debug.Addr = DefaultDebugAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.Tracer == "" {
		c.Tracing.Tracer = DefaultTracer
	}
}

func (c *Config) applyEnv() {
	if c.S3.AccessKeyID == "" {
		c.S3.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
		c.S3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.level(); err != nil {
		return errors.New("E122").
			WithDetailf("log.level %q: %v", c.Log.Level, err).
			WithSuggestion("use debug, info, warn or error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E122").
			WithDetailf("log.format %q", c.Log.Format).
			WithSuggestion("use text or json")
	}
	if !metricName.MatchString(c.Metrics.Namespace) {
		return errors.New("E122").
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if c.Metrics.Subsystem != "" && !metricName.MatchString(c.Metrics.Subsystem) {
		return errors.New("E122").
			WithDetailf("metrics.subsystem %q is not a valid metric name part", c.Metrics.Subsystem)
	}
	if c.Debug.Enabled && !strings.Contains(c.Debug.Addr, ":") {
		return errors.New("E122").
			WithDetailf("debug.addr %q must be host:port", c.Debug.Addr)
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return errors.New("E122").
			WithDetail("s3 credentials need both accessKeyId and secretAccessKey")
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// Logger builds the logger described by the log section. Invalid levels
// fall back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ScenePath resolves a scene location. URIs and absolute paths are
// returned unchanged; relative paths are tried against the working
// directory first, then against the scenes directory.
func (c *Config) ScenePath(location string) string {
	if strings.Contains(location, "://") || filepath.IsAbs(location) {
		return location
	}
	if _, err := os.Stat(location); err == nil {
		return location
	}
	dir := c.Scenes
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Dir(), dir)
	}
	return filepath.Join(dir, location)
}

// DebugURL returns the base URL of the debug server.
func (c *Config) DebugURL() string {
	return fmt.Sprintf("http://%s", c.Debug.Addr)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing scene.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No scene.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or
// the nearest parent holding scene.json. Without one, the defaults are
// returned.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		cfg := New()
		cfg.applyEnv()
		return cfg, nil
	}

	return Load(root)
}
