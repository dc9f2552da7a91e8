package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mwork/points-api/internal/domain/points"
	"github.com/mwork/points-api/internal/pkg/metrics"
)

func newPointsServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := points.NewService(points.NewLedger(), metrics.New(prometheus.NewRegistry()))
	r := chi.NewRouter()
	r.Mount("/points", points.NewHandler(svc).Routes())

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when default file is missing", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg != DefaultConfig() {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, "server_url = \"http://points.internal:9000\"\ntimeout = \"3s\"\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerURL != "http://points.internal:9000" || cfg.Timeout != 3*time.Second {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("explicit missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Fatal("expected error for missing explicit config")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		if _, err := LoadConfig(writeConfig(t, "server_url = \n")); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "not a url", cfg: Config{ServerURL: "points", Timeout: time.Second}, want: "server_url: Invalid URL format"},
		{name: "empty url", cfg: Config{Timeout: time.Second}, want: "server_url: This field is required"},
		{name: "zero timeout", cfg: Config{ServerURL: defaultServerURL}, want: "timeout: Value must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestCommandsAgainstServer(t *testing.T) {
	server := newPointsServer(t)
	path := writeConfig(t, "server_url = \""+server.URL+"\"\ntimeout = \"2s\"\n")

	for _, args := range [][]string{
		{"transaction", "--payer", "DANNON", "--points", "300", "--timestamp", "2020-10-31T10:00:00Z"},
		{"transaction", "--payer", "UNILEVER", "--points", "200", "--timestamp", "2020-10-31T11:00:00Z"},
		{"transaction", "--payer", "DANNON", "--points=-200", "--timestamp", "2020-10-31T15:00:00Z"},
		{"transaction", "--payer", "MILLER COORS", "--points", "10000", "--timestamp", "2020-11-01T14:00:00Z"},
		{"transaction", "--payer", "DANNON", "--points", "1000", "--timestamp", "2020-11-02T14:00:00Z"},
	} {
		out, err := run(t, append([]string{"--config", path}, args...)...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if !strings.HasPrefix(out, "Recorded ") {
			t.Fatalf("unexpected output %q", out)
		}
	}

	out, err := run(t, "--config", path, "spend", "5000")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	var deltas []points.PayerDelta
	if err := json.Unmarshal([]byte(out), &deltas); err != nil {
		t.Fatalf("decode spend output %q: %v", out, err)
	}
	if len(deltas) != 3 || deltas[0] != (points.PayerDelta{Payer: "DANNON", Points: -100}) {
		t.Fatalf("unexpected deltas %+v", deltas)
	}

	out, err = run(t, "--config", path, "balances")
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	var balances map[string]int
	if err := json.Unmarshal([]byte(out), &balances); err != nil {
		t.Fatalf("decode balances output %q: %v", out, err)
	}
	if balances["DANNON"] != 1000 || balances["UNILEVER"] != 0 || balances["MILLER COORS"] != 5300 {
		t.Fatalf("unexpected balances %v", balances)
	}

	out, err = run(t, "--config", path, "transactions")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	var entries []points.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode transactions output %q: %v", out, err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	_, err = run(t, "--config", path, "spend", "100000")
	if err == nil || err.Error() != points.MsgInsufficientPoints {
		t.Fatalf("expected %q, got %v", points.MsgInsufficientPoints, err)
	}

	_, err = run(t, "--config", path, "spend", "0")
	if err == nil || err.Error() != points.MsgInvalidAmount {
		t.Fatalf("expected %q, got %v", points.MsgInvalidAmount, err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	server := newPointsServer(t)
	path := writeConfig(t, "server_url = \"http://127.0.0.1:1\"\n")

	out, err := run(t, "--config", path, "--server", server.URL, "--timeout", "1s", "balances")
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if strings.TrimSpace(out) != "{}" {
		t.Fatalf("expected empty balances, got %q", out)
	}
}

func TestCommandArgumentErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad server url", args: []string{"--server", "not a url", "balances"}, want: "server_url: Invalid URL format"},
		{name: "bad timeout", args: []string{"--timeout", "soon", "balances"}, want: "invalid --timeout"},
		{name: "non numeric spend", args: []string{"spend", "ten"}, want: "whole number"},
		{name: "bad timestamp", args: []string{"transaction", "--payer", "A", "--points", "1", "--timestamp", "today"}, want: "invalid --timestamp"},
		{name: "missing payer", args: []string{"transaction", "--points", "1"}, want: "payer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
