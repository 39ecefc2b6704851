package config

import (
	"fmt"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the Smart Voyage client.
//
// Units: every interval is a time.Duration.
type Config struct {
	// hosted auth platform (GoTrue-compatible) and its public key
	AuthURL string
	AnonKey string

	// itinerary generation
	FunctionsURL        string
	GenerationTransport string
	GenerationGRPCAddr  string

	StorageDSN  string
	RedirectURL string

	RefreshMargin        time.Duration
	RefreshCheckInterval time.Duration

	ExportDir string
	LogFile   string

	// itinerary sharing; disabled while S3BaseEndpoint or S3Bucket is empty
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	ShareLinkTTL   time.Duration
}

// LoadDefaults populates c with sensible defaults for a local development
// stack.
func (c *Config) LoadDefaults() {
	c.AuthURL = "http://127.0.0.1:54321"
	c.FunctionsURL = "http://127.0.0.1:54321"
	c.GenerationTransport = TransportHTTP
	c.GenerationGRPCAddr = "127.0.0.1:50051"
	c.StorageDSN = "voyage.db"
	c.RedirectURL = "http://localhost:8080/"
	c.RefreshMargin = time.Minute
	c.RefreshCheckInterval = 15 * time.Second
	c.ExportDir = "exports"
	c.LogFile = "voyage.log"
	c.S3Region = "us-east-1"
	c.ShareLinkTTL = 24 * time.Hour
}

// SharingEnabled reports whether an object store is configured.
func (c *Config) SharingEnabled() bool {
	return c.S3BaseEndpoint != "" && c.S3Bucket != ""
}

func (c *Config) Validate() error {
	switch c.GenerationTransport {
	case TransportHTTP, TransportGRPC:
	default:
		return fmt.Errorf("unknown generation transport %q (want %s or %s)", c.GenerationTransport, TransportHTTP, TransportGRPC)
	}
	if c.AuthURL == "" {
		return fmt.Errorf("auth url is required")
	}
	if c.RefreshCheckInterval <= 0 {
		return fmt.Errorf("refresh check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
