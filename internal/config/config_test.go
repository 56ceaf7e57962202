package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
listen_addr: ":9090"
policy_path: config/phase_policy.json
db:
  driver: sqlite
  dsn: ledger.db
signing_key:
  key_id: ops-1
  private_key_path: /etc/phasegate/key
auth:
  dev_token: secret
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen_addr %q", cfg.ListenAddr)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.DSN != "ledger.db" {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
	if cfg.SigningKey.KeyID != "ops-1" {
		t.Fatalf("unexpected key id %q", cfg.SigningKey.KeyID)
	}
	if cfg.Auth.DevToken != "secret" {
		t.Fatalf("unexpected dev token %q", cfg.Auth.DevToken)
	}
}

func TestLoadExpandsEnvReferences(t *testing.T) {
	t.Setenv("PHASEGATE_TEST_DSN", "expanded.db")
	cfg, err := Load(writeConfig(t, `
listen_addr: ":8080"
policy_path: policy.json
db:
  driver: sqlite
  dsn: ${PHASEGATE_TEST_DSN}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.DSN != "expanded.db" {
		t.Fatalf("expected env expansion, got %q", cfg.DB.DSN)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("PHASEGATE_LISTEN_ADDR", ":7070")
	cfg, err := Load(writeConfig(t, `
listen_addr: ":8080"
policy_path: policy.json
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Fatalf("env must win over file, got %q", cfg.ListenAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{ListenAddr: ":8080", PolicyPath: "policy.json"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing listen addr", func(c *Config) { c.ListenAddr = "" }, "listen_addr"},
		{"missing policy path", func(c *Config) { c.PolicyPath = "" }, "policy_path"},
		{"driver without dsn", func(c *Config) { c.DB.Driver = "sqlite" }, "db.dsn"},
		{"unknown driver", func(c *Config) { c.DB = DBConfig{Driver: "oracle", DSN: "x"} }, "unsupported"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PHASEGATE_POLICY_PATH", "env-policy.json")
	t.Setenv("PHASEGATE_DB_DRIVER", "postgres")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.PolicyPath != "env-policy.json" || cfg.DB.Driver != "postgres" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
