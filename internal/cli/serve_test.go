package cli

import (
	"testing"

	"resumerefiner/internal/config"

	"github.com/spf13/pflag"
)

func newServeFlagSet(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	registerServeFlags(flags)
	return flags
}

func loadedServerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.Server.TLS.Mode = "disabled"
	return cfg
}

func TestApplyServeFlags(t *testing.T) {
	t.Run("changed flags override loaded config", func(t *testing.T) {
		flags := newServeFlagSet(t)
		for name, value := range map[string]string{
			"port":      "9999",
			"host":      "0.0.0.0",
			"tls-mode":  "server",
			"cert-file": "/etc/tls/server.crt",
			"key-file":  "/etc/tls/server.key",
			"ca-file":   "/etc/tls/ca.crt",
		} {
			if err := flags.Set(name, value); err != nil {
				t.Fatalf("Failed to set flag %s: %v", name, err)
			}
		}

		cfg := loadedServerConfig()
		applyServeFlags(flags, cfg)

		if cfg.Server.Port != "9999" {
			t.Errorf("Port = %q, want 9999", cfg.Server.Port)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("Host = %q, want 0.0.0.0", cfg.Server.Host)
		}
		if cfg.Server.TLS.Mode != "server" {
			t.Errorf("TLS.Mode = %q, want server", cfg.Server.TLS.Mode)
		}
		if cfg.Server.TLS.CertFile != "/etc/tls/server.crt" {
			t.Errorf("TLS.CertFile = %q", cfg.Server.TLS.CertFile)
		}
		if cfg.Server.TLS.KeyFile != "/etc/tls/server.key" {
			t.Errorf("TLS.KeyFile = %q", cfg.Server.TLS.KeyFile)
		}
		if cfg.Server.TLS.CAFile != "/etc/tls/ca.crt" {
			t.Errorf("TLS.CAFile = %q", cfg.Server.TLS.CAFile)
		}
	})

	t.Run("unset flags keep loaded config", func(t *testing.T) {
		flags := newServeFlagSet(t)
		cfg := loadedServerConfig()
		applyServeFlags(flags, cfg)

		if cfg.Server.Port != "8080" {
			t.Errorf("Port = %q, want loaded value 8080", cfg.Server.Port)
		}
		if cfg.Server.Host != "localhost" {
			t.Errorf("Host = %q, want loaded value localhost", cfg.Server.Host)
		}
		if cfg.Server.TLS.Mode != "disabled" {
			t.Errorf("TLS.Mode = %q, want loaded value disabled", cfg.Server.TLS.Mode)
		}
	})

	t.Run("partial overrides leave the rest alone", func(t *testing.T) {
		flags := newServeFlagSet(t)
		if err := flags.Set("port", "9443"); err != nil {
			t.Fatalf("Failed to set flag: %v", err)
		}

		cfg := loadedServerConfig()
		applyServeFlags(flags, cfg)

		if cfg.Server.Port != "9443" {
			t.Errorf("Port = %q, want 9443", cfg.Server.Port)
		}
		if cfg.Server.Host != "localhost" {
			t.Errorf("Host = %q, want loaded value localhost", cfg.Server.Host)
		}
	})
}
