package profile

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Profile is the configuration to start the server and the CLI.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string `validate:"oneof=prod dev demo"`
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int `validate:"min=1,max=65535"`
	// Version is the current version of server
	Version string

	// LogLevel is one of debug, info, warn, error
	LogLevel string `validate:"oneof=debug info warn error"`
	// LogFormat is text or json
	LogFormat string `validate:"oneof=text json"`

	// MaxTextBytes bounds the size of a single text accepted by the API.
	MaxTextBytes int `validate:"min=1"`
	// RateLimitPerSecond and RateLimitBurst configure per-client limiting.
	// A zero rate disables limiting.
	RateLimitPerSecond float64 `validate:"min=0"`
	RateLimitBurst     int     `validate:"min=0"`

	CacheCapacity int           `validate:"min=0"`
	CacheTTL      time.Duration `validate:"min=0"`

	// ScanTimeout bounds one scan request.
	ScanTimeout time.Duration `validate:"min=0"`
	// BatchConcurrency bounds documents scanned in parallel by a batch request.
	BatchConcurrency int `validate:"min=1,max=64"`
}

// Default returns a profile filled with the built-in defaults.
func Default() *Profile {
	return &Profile{
		Mode:               "dev",
		Addr:               "",
		Port:               8081,
		Version:            "dev",
		LogLevel:           "info",
		LogFormat:          "text",
		MaxTextBytes:       64 << 10,
		RateLimitPerSecond: 10,
		RateLimitBurst:     20,
		CacheCapacity:      1024,
		CacheTTL:           10 * time.Minute,
		ScanTimeout:        5 * time.Second,
		BatchConcurrency:   4,
	}
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Address returns the host:port the server listens on.
func (p *Profile) Address() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// Level returns the slog level for LogLevel, info when unknown.
func (p *Profile) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(p.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds a slog logger writing to stderr in the configured format.
func (p *Profile) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: p.Level(), AddSource: p.IsDev() && p.Level() == slog.LevelDebug}
	if p.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	p.LogLevel = strings.ToLower(strings.TrimSpace(p.LogLevel))
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	p.LogFormat = strings.ToLower(strings.TrimSpace(p.LogFormat))
	if p.LogFormat == "" {
		p.LogFormat = "text"
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			slog.Error("invalid profile", slog.String("field", fe.Field()), slog.String("tag", fe.Tag()))
			return errors.Wrapf(err, "invalid profile field %s", fe.Field())
		}
		return errors.Wrap(err, "failed to validate profile")
	}
	return nil
}
