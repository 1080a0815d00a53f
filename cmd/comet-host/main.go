// comet-host is a sample embedding host. It loads every .cdp package in a
// directory into a registry, reports what loaded, and tears the registry
// down on shutdown.
//
// The trust anchor is compiled in: replace public-key.pem with your own
// signing identity's public key and rebuild. It is deliberately not a
// runtime option.
package main

import (
	_ "embed"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cometdp/comet/pkg/pack"
	"github.com/cometdp/comet/pkg/registry"
	"github.com/cometdp/comet/pkg/sdk"
	"github.com/cometdp/comet/pkg/trust"
)

//go:embed public-key.pem
var trustAnchorPEM []byte

// Config holds the host configuration
type Config struct {
	PluginDir    string
	HostVersion  string
	PluginConfig string
	Strict       bool
	LogLevel     string
}

func main() {
	config := parseFlags()
	logger := setupLogger(config.LogLevel)

	anchor, err := trust.ParsePublicKeyPEM(trustAnchorPEM)
	if err != nil {
		logger.Fatalf("Invalid embedded trust anchor: %v", err)
	}

	opts := registry.Options{
		HostVersion: config.HostVersion,
		Strict:      config.Strict,
		Logger:      logger,
	}
	if config.PluginConfig != "" {
		opts.Config = &config.PluginConfig
	}

	reg, err := registry.New(trust.NewKeyVerifier(anchor), opts)
	if err != nil {
		logger.Fatalf("Failed to create registry: %v", err)
	}

	entries, err := os.ReadDir(config.PluginDir)
	if err != nil {
		logger.Fatalf("Failed to read plugin directory %s: %v", config.PluginDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), pack.FileExtension) {
			continue
		}
		path := filepath.Join(config.PluginDir, entry.Name())
		if err := reg.Load(path); err != nil {
			logger.Warnf("Failed to load plugin %s: %v", path, err)
		}
	}

	logger.Infof("Loaded %d plugins (host version %s): %v",
		reg.Len(), reg.HostVersion(), reg.Names())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Received shutdown signal, tearing down registry")
	if err := reg.Close(); err != nil {
		logger.Errorf("Registry teardown reported errors: %v", err)
	}
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.PluginDir, "plugins", getEnv("COMET_PLUGIN_DIR", "./plugins"), "Directory of .cdp plugin packages")
	flag.StringVar(&config.HostVersion, "host-version", sdk.Version, "Host semantic version for plugin compatibility checks")
	flag.StringVar(&config.PluginConfig, "plugin-config", "", "Optional configuration string passed to every plugin")
	flag.BoolVar(&config.Strict, "strict", false, "Reject packages with mismatched format/api version stamps")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	return config
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
