package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/vnchrono/internal/profile"
	"github.com/hrygo/vnchrono/server"
)

// envKeyReplacer maps flag names to env names, "cache-ttl" to VNCHRONO_CACHE_TTL.
var envKeyReplacer = strings.NewReplacer("-", "_")

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "vnchrono",
		Short: `Recognizes Vietnamese date and time expressions in free text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			logger := instanceProfile.NewLogger()
			slog.SetDefault(logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := server.NewServer(ctx, instanceProfile, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(c)

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			printGreetings(instanceProfile)

			// A serving failure ends the command with its error.
			var serveErr error
			select {
			case <-c:
			case <-ctx.Done():
			case serveErr = <-s.Err():
			}
			s.Shutdown(context.WithoutCancel(ctx))
			return serveErr
		},
	}
)

func init() {
	defaults := profile.Default()
	viper.SetDefault("mode", defaults.Mode)
	viper.SetDefault("port", defaults.Port)
	viper.SetDefault("log-level", defaults.LogLevel)
	viper.SetDefault("log-format", defaults.LogFormat)
	viper.SetDefault("max-text-bytes", defaults.MaxTextBytes)
	viper.SetDefault("rate-limit", defaults.RateLimitPerSecond)
	viper.SetDefault("rate-burst", defaults.RateLimitBurst)
	viper.SetDefault("cache-capacity", defaults.CacheCapacity)
	viper.SetDefault("cache-ttl", defaults.CacheTTL)
	viper.SetDefault("scan-timeout", defaults.ScanTimeout)
	viper.SetDefault("batch-concurrency", defaults.BatchConcurrency)

	flags := rootCmd.PersistentFlags()
	flags.String("mode", defaults.Mode, `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", defaults.Port, "port of server")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", defaults.LogFormat, "log format: text or json")
	flags.Int("max-text-bytes", defaults.MaxTextBytes, "largest text accepted by the API, in bytes")
	flags.Float64("rate-limit", defaults.RateLimitPerSecond, "requests per second allowed per client, 0 disables limiting")
	flags.Int("rate-burst", defaults.RateLimitBurst, "burst of requests allowed per client")
	flags.Int("cache-capacity", defaults.CacheCapacity, "number of cached scan results, 0 disables the cache")
	flags.Duration("cache-ttl", defaults.CacheTTL, "lifetime of a cached scan result")
	flags.Duration("scan-timeout", defaults.ScanTimeout, "time limit of one scan request")
	flags.Int("batch-concurrency", defaults.BatchConcurrency, "documents scanned in parallel by batch requests")

	for _, name := range []string{
		"mode", "addr", "port", "log-level", "log-format", "max-text-bytes", "rate-limit",
		"rate-burst", "cache-capacity", "cache-ttl", "scan-timeout", "batch-concurrency",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("vnchrono")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, parseCmd, recognizersCmd)
}

// loadProfile builds the profile from flags, environment and defaults.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:               viper.GetString("mode"),
		Addr:               viper.GetString("addr"),
		Port:               viper.GetInt("port"),
		Version:            version,
		LogLevel:           viper.GetString("log-level"),
		LogFormat:          viper.GetString("log-format"),
		MaxTextBytes:       viper.GetInt("max-text-bytes"),
		RateLimitPerSecond: viper.GetFloat64("rate-limit"),
		RateLimitBurst:     viper.GetInt("rate-burst"),
		CacheCapacity:      viper.GetInt("cache-capacity"),
		CacheTTL:           viper.GetDuration("cache-ttl"),
		ScanTimeout:        viper.GetDuration("scan-timeout"),
		BatchConcurrency:   viper.GetInt("batch-concurrency"),
	}
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func printGreetings(profile *profile.Profile) {
	if profile.IsDev() {
		println("Development mode is enabled")
	}
	fmt.Printf(`---
Server profile
version: %s
address: %s
mode: %s
---
`, profile.Version, profile.Address(), profile.Mode)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
