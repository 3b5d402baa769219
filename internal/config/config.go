package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/hfs/internal/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the file names Load looks for, in order.
var ConfigFileNames = []string{"hfs.yaml", "hfs.yml", "hfs.json"}

const (
	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultReadTimeout is the default request read deadline.
	DefaultReadTimeout = "10s"

	// DefaultWriteTimeout is the default response write deadline.
	DefaultWriteTimeout = "10s"

	// DefaultShutdownTimeout is the default graceful shutdown bound.
	DefaultShutdownTimeout = "30s"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "hfs"

	// DefaultFilesDir is the default DiskStore directory.
	DefaultFilesDir = "data"
)

// Config represents the complete hfs configuration.
type Config struct {
	// Server contains listener and deadline configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Parser contains request parser configuration.
	Parser ParserConfig `json:"parser" yaml:"parser"`

	// Admin contains admin listener configuration.
	Admin AdminConfig `json:"admin" yaml:"admin"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Files contains object store configuration for /files.
	Files FilesConfig `json:"files" yaml:"files"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains listener settings. Durations use time.ParseDuration
// syntax ("10s", "1m30s"); "0" disables a deadline.
type ServerConfig struct {
	Address         string `json:"address,omitempty" yaml:"address,omitempty"`
	ReadTimeout     string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout    string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// ParserConfig contains request parser settings.
type ParserConfig struct {
	// LenientCookies skips malformed cookie segments instead of
	// rejecting the request.
	LenientCookies bool `json:"lenientCookies,omitempty" yaml:"lenientCookies,omitempty"`
}

// AdminConfig contains admin listener settings.
type AdminConfig struct {
	// Address is the admin listen address. Empty disables the listener.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// MetricsNamespace is the Prometheus namespace (default: "hfs").
	MetricsNamespace string `json:"metricsNamespace,omitempty" yaml:"metricsNamespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled adds the tracing middleware.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// TracerName is the tracer name (default: "hfs").
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`

	// IncludeParams records route captures as span attributes.
	IncludeParams bool `json:"includeParams,omitempty" yaml:"includeParams,omitempty"`
}

// FilesConfig contains object store settings.
type FilesConfig struct {
	// Backend is "disk", "s3", or empty to disable /files.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Dir is the DiskStore directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// MaxSize is the largest object accepted by PUT, in bytes (0 = no limit).
	MaxSize int64 `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`

	// ReadOnly registers only GET /files/*key.
	ReadOnly bool `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`

	// S3 configures the S3 backend.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config contains S3 bucket settings.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region          string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty" yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" yaml:"secretAccessKey,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         DefaultAddress,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Admin: AdminConfig{
			MetricsNamespace: DefaultMetricsNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			TracerName: "hfs",
		},
		Files: FilesConfig{
			Dir: DefaultFilesDir,
		},
	}
}

// Load reads configuration from the specified directory, trying each of
// ConfigFileNames in turn.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigLoad).
		WithDetail("No " + strings.Join(ConfigFileNames, ", ") + " found in " + dir).
		WithSuggestion("Create hfs.yaml or pass --config")
}

// LoadOrDefault is Load, except that a directory without a config file
// yields the defaults instead of an error.
func LoadOrDefault(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigLoad).
				WithDetail("No config file at " + path).
				WithSuggestion("Check the --config path")
		}
		return nil, errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, decodeError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// decodeError points a decode failure at its line when the decoder
// reports one.
func decodeError(path string, data []byte, err error) *errors.Error {
	format := "JSON"
	if isYAML(path) {
		format = "YAML"
	}
	e := errors.New(errors.CodeConfigLoad).
		WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
		WithSuggestion("Check that " + filepath.Base(path) + " is valid " + format)

	line := 0
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		line = lineAt(data, syntaxErr.Offset)
	case stderrors.As(err, &typeErr):
		line = lineAt(data, typeErr.Offset)
	default:
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
	}
	if line > 0 {
		e = e.WithLocation(path, line, 0)
	}
	return e
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveTo writes the configuration to the specified path, as YAML or
// JSON by extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Admin.MetricsNamespace == "" {
		c.Admin.MetricsNamespace = DefaultMetricsNamespace
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "hfs"
	}

	if c.Files.Dir == "" {
		c.Files.Dir = DefaultFilesDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("server.address must not be empty")
	}

	durations := []struct{ name, value string }{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		if _, err := parseDuration(d.value); err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetailf("%s: %v", d.name, err).
				WithSuggestion("Use a duration such as \"10s\" or \"1m\"")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}

	if c.Files.MaxSize < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("files.maxSize must not be negative")
	}
	switch c.Files.Backend {
	case "":
	case "disk":
		if c.Files.Dir == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("files.dir is required for the disk backend")
		}
	case "s3":
		if c.Files.S3.Bucket == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("files.s3.bucket is required for the s3 backend")
		}
		if (c.Files.S3.AccessKeyID == "") != (c.Files.S3.SecretAccessKey == "") {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("files.s3.accessKeyId and files.s3.secretAccessKey must be set together")
		}
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("files.backend %q is not one of disk, s3", c.Files.Backend)
	}

	return nil
}

// parseDuration accepts time.ParseDuration syntax and rejects negative
// values.
func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, stderrors.New("must not be negative")
	}
	return d, nil
}

// ReadTimeoutDuration returns the parsed read deadline. Call Validate
// first; unparseable values yield 0.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.ReadTimeout)
	return d
}

// WriteTimeoutDuration returns the parsed write deadline.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.WriteTimeout)
	return d
}

// ShutdownTimeoutDuration returns the parsed shutdown bound.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := parseDuration(s.ShutdownTimeout)
	return d
}

// FilesDir returns the DiskStore directory, resolved against the config
// file's directory when relative.
func (c *Config) FilesDir() string {
	if filepath.IsAbs(c.Files.Dir) {
		return c.Files.Dir
	}
	return filepath.Join(c.Dir(), c.Files.Dir)
}
