package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/fetcher"
	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/pipeline"
)

const (
	// AppName is used for XDG directory names.
	AppName = "cyberwatchdog"

	// TokenEnvVar is the environment variable holding the classifier token.
	TokenEnvVar = "HF_API_TOKEN"

	// DefaultEnvFile is the dotenv file consulted for TokenEnvVar.
	DefaultEnvFile = ".env"

	// DefaultListenAddress is where the HTTP API listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultDBFile is the history database file name inside DBDir.
	DefaultDBFile = "history.db"
)

// Config holds every option of a cyberwatchdog run.
// It is built once from defaults, the config file and CLI flags and then
// passed down explicitly.
type Config struct {
	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration

	// UserAgent is sent with every page fetch.
	UserAgent string

	// MaxBodySize caps how many bytes of a page are read. 0 means the default.
	MaxBodySize int64

	// ClassifierEndpoint is the inference API base URL; the model is appended.
	ClassifierEndpoint string

	// ClassifierModel is the zero-shot model identifier.
	ClassifierModel string

	// ClassifierTimeout bounds a single classification request.
	ClassifierTimeout time.Duration

	// APIToken authenticates against the classifier. When empty the
	// classifier is disabled and verdicts rely on heuristics alone.
	APIToken string

	// EnvFile is the dotenv file read for the API token.
	EnvFile string

	// Concurrency is the number of assessments run at once for --list.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit config file. When empty, .cyberwatchdog
	// is searched in the current and home directories.
	ConfigFilePath string

	// Labels overrides entries of the Nepali label table.
	Labels map[string]string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// SaveToDB stores every result in the history database.
	SaveToDB bool

	// DBDir is the directory of the history database.
	DBDir string

	// ListenAddress is the address of the HTTP API.
	ListenAddress string

	// Targets are the URLs given on the command line.
	Targets []string

	// Text is raw text given with --text.
	Text string

	// InputFile is a local file assessed as raw text.
	InputFile string

	// ListFile is a file with one URL per line.
	ListFile string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		FetchTimeout:       fetcher.DefaultTimeout,
		UserAgent:          fetcher.DefaultUserAgent,
		MaxBodySize:        fetcher.DefaultMaxBodySize,
		ClassifierEndpoint: classifier.DefaultEndpoint,
		ClassifierModel:    classifier.DefaultModel,
		ClassifierTimeout:  classifier.DefaultTimeout,
		EnvFile:            DefaultEnvFile,
		Concurrency:        pipeline.DefaultConcurrency,
		DBDir:              XDGDataDir(),
		ListenAddress:      DefaultListenAddress,
		Labels:             map[string]string{},
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/cyberwatchdog.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory, e.g. ~/.config/cyberwatchdog.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DBPath returns the history database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DBDir, DefaultDBFile)
}

// ClassifierEnabled reports whether an API token is configured.
func (c *Config) ClassifierEnabled() bool {
	return c.APIToken != ""
}

// Validate checks the options shared by every command.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ClassifierTimeout <= 0 {
		return ErrInvalidClassifierTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.ClassifierModel == "" {
		return ErrEmptyModel
	}

	u, err := url.Parse(c.ClassifierEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	for code := range c.Labels {
		if !model.Code(code).Known() {
			return fmt.Errorf("%w: %q", ErrUnknownLabelCode, code)
		}
	}

	return nil
}

// RequireTarget checks that exactly one kind of assess target is set.
func (c *Config) RequireTarget() error {
	kinds := 0
	if len(c.Targets) > 0 {
		kinds++
	}
	if c.Text != "" {
		kinds++
	}
	if c.InputFile != "" {
		kinds++
	}
	if c.ListFile != "" {
		kinds++
	}

	switch {
	case kinds == 0:
		return ErrNoTarget
	case kinds > 1:
		return ErrConflictingTargets
	default:
		return nil
	}
}
