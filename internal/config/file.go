package config

import "time"

// File is the structure of the .cyberwatchdog YAML file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	Classifier ClassifierSection `yaml:"classifier,omitempty"`
	Fetch      FetchSection      `yaml:"fetch,omitempty"`
	Server     ServerSection     `yaml:"server,omitempty"`
	History    HistorySection    `yaml:"history,omitempty"`

	// Concurrency is the number of parallel assessments for --list.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Labels overrides Nepali labels keyed by indicator code.
	Labels map[string]string `yaml:"labels,omitempty"`
}

// ClassifierSection configures the zero-shot classifier.
// The API token is deliberately absent; see TokenEnvVar.
type ClassifierSection struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	Model    string        `yaml:"model,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// FetchSection configures page acquisition.
type FetchSection struct {
	UserAgent   string        `yaml:"userAgent,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	MaxBodySize int64         `yaml:"maxBodySize,omitempty"`
}

// ServerSection configures the HTTP API.
type ServerSection struct {
	Listen string `yaml:"listen,omitempty"`
}

// HistorySection configures the assessment history database.
type HistorySection struct {
	Dir string `yaml:"dir,omitempty"`
}

// Apply copies every non-zero value of f into c.
// Labels are merged; entries from f win.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}

	if f.Classifier.Endpoint != "" {
		c.ClassifierEndpoint = f.Classifier.Endpoint
	}
	if f.Classifier.Model != "" {
		c.ClassifierModel = f.Classifier.Model
	}
	if f.Classifier.Timeout != 0 {
		c.ClassifierTimeout = f.Classifier.Timeout
	}

	if f.Fetch.UserAgent != "" {
		c.UserAgent = f.Fetch.UserAgent
	}
	if f.Fetch.Timeout != 0 {
		c.FetchTimeout = f.Fetch.Timeout
	}
	if f.Fetch.MaxBodySize != 0 {
		c.MaxBodySize = f.Fetch.MaxBodySize
	}

	if f.Server.Listen != "" {
		c.ListenAddress = f.Server.Listen
	}
	if f.History.Dir != "" {
		c.DBDir = f.History.Dir
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}

	if len(f.Labels) > 0 {
		if c.Labels == nil {
			c.Labels = make(map[string]string, len(f.Labels))
		}
		for code, label := range f.Labels {
			c.Labels[code] = label
		}
	}
}
