package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dreamware/stranalyzer/internal/api"
	"github.com/dreamware/stranalyzer/internal/server"
	"github.com/dreamware/stranalyzer/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestGetenv tests the getenv utility function
func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      string
		expected string
	}{
		{
			name:     "environment variable set",
			key:      "STRANALYZER_TEST_VAR",
			value:    "test_value",
			def:      "default",
			expected: "test_value",
		},
		{
			name:     "environment variable not set",
			key:      "STRANALYZER_UNSET_VAR",
			value:    "",
			def:      "default_value",
			expected: "default_value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := getenv(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

// execute runs the root command with args and returns its output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// startServer runs an in-process API server for client commands
func startServer(t *testing.T) string {
	t.Helper()
	srv := server.New(storage.NewMemoryStore())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})
	return ts.URL
}

// TestVersionCommand tests the version subcommand
func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "stranalyzer version "+Version) {
		t.Errorf("Unexpected version output %q", out)
	}
}

// TestClientCommands drives add, get, list, query and delete against a
// live server
func TestClientCommands(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, "--addr", addr, "add", "racecar")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	var rec storage.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("add output is not a record: %v\n%s", err, out)
	}
	if !rec.Properties.IsPalindrome || rec.Properties.Length != 7 {
		t.Errorf("Unexpected record %+v", rec)
	}
	if !strings.Contains(out, "\n  \"id\"") {
		t.Errorf("Expected indented JSON, got %q", out)
	}

	if _, err := execute(t, "--addr", addr, "add", "hello world"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Duplicate add surfaces the server error
	_, err = execute(t, "--addr", addr, "add", "racecar")
	if api.StatusCode(err) != http.StatusConflict {
		t.Errorf("Expected 409 error, got %v", err)
	}

	out, err = execute(t, "--addr", addr, "get", "hello world")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !strings.Contains(out, `"word_count": 2`) {
		t.Errorf("Unexpected get output %s", out)
	}

	out, err = execute(t, "--addr", addr, "list", "--is-palindrome", "--max-length", "10")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var list api.ListResponse
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("list output: %v\n%s", err, out)
	}
	if list.Count != 1 || list.Data[0].Value != "racecar" {
		t.Errorf("Unexpected list %+v", list)
	}
	if list.FiltersApplied.MinLength != nil {
		t.Error("Unset flags must not be sent")
	}

	out, err = execute(t, "--addr", addr, "list", "--is-palindrome=false")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("list output: %v\n%s", err, out)
	}
	if list.Count != 1 || list.Data[0].Value != "hello world" {
		t.Errorf("Unexpected list %+v", list)
	}

	out, err = execute(t, "--addr", addr, "query", "strings", "longer", "than", "8", "characters")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	var q api.QueryResponse
	if err := json.Unmarshal([]byte(out), &q); err != nil {
		t.Fatalf("query output: %v\n%s", err, out)
	}
	if q.InterpretedQuery.Original != "strings longer than 8 characters" || q.Count != 1 {
		t.Errorf("Unexpected query response %+v", q)
	}

	out, err = execute(t, "--addr", addr, "delete", "racecar")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, `deleted "racecar"`) {
		t.Errorf("Unexpected delete output %q", out)
	}

	_, err = execute(t, "--addr", addr, "get", "racecar")
	if api.StatusCode(err) != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %v", err)
	}
}

// TestClientCommandArgs tests argument validation
func TestClientCommandArgs(t *testing.T) {
	for _, args := range [][]string{
		{"add"},
		{"get", "a", "b"},
		{"delete"},
		{"query"},
		{"list", "extra"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("Expected argument error for %v", args)
		}
	}
}

// TestQueryCommandConflict verifies the conflict detail reaches the user
func TestQueryCommandConflict(t *testing.T) {
	addr := startServer(t)

	_, err := execute(t, "--addr", addr, "query", "longer than 10 and shorter than 5")
	if err == nil {
		t.Fatal("Expected error for conflicting query")
	}
	if !strings.Contains(err.Error(), "min_length (11) cannot be greater than max_length (4)") {
		t.Errorf("Conflict detail missing from %q", err.Error())
	}
}

// freePort returns a loopback address with a currently unused port
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// TestServeStartupAndShutdown runs the server until its context ends
func TestServeStartupAndShutdown(t *testing.T) {
	t.Setenv("STRANALYZER_METRICS", "true")
	t.Setenv("OTEL_TRACES_EXPORTER", "none")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listen := freePort(t)
	listening := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, serveOptions{
			listen:   listen,
			logLevel: "debug",
			logOut:   io.Discard,
			onListen: func(a net.Addr) { listening <- a },
		})
	}()

	var addr net.Addr
	select {
	case addr = <-listening:
	case err := <-done:
		t.Fatalf("runServe exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	base := "http://" + addr.String()
	c := api.NewClient(base)

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if h.Message != server.HealthMessage {
		t.Errorf("Unexpected health message %q", h.Message)
	}

	if _, err := c.Create(context.Background(), "noon"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("Failed to reach metrics endpoint: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "stranalyzer_store_records 1") {
		t.Errorf("Metrics missing store gauge")
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("Metrics missing Go runtime collector")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// TestServeConfigErrors tests failures before the listener opens
func TestServeConfigErrors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		err := runServe(context.Background(), serveOptions{
			configPath: filepath.Join(t.TempDir(), "missing.yaml"),
			logOut:     io.Discard,
		})
		if err == nil {
			t.Error("Expected error for missing config file")
		}
	})

	t.Run("invalid flag override", func(t *testing.T) {
		err := runServe(context.Background(), serveOptions{
			logLevel: "chatty",
			logOut:   io.Discard,
		})
		if err == nil {
			t.Error("Expected validation error for log level")
		}
	})

	t.Run("unknown trace exporter", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("telemetry:\n  trace_exporter: zipkin\n"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		err := runServe(context.Background(), serveOptions{configPath: path, logOut: io.Discard})
		if err == nil {
			t.Error("Expected validation error for exporter")
		}
	})

	t.Run("address in use", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Failed to create listener: %v", err)
		}
		defer l.Close()

		err = runServe(context.Background(), serveOptions{listen: l.Addr().String(), logOut: io.Discard})
		if err == nil || !strings.Contains(err.Error(), "listen") {
			t.Errorf("Expected listen error, got %v", err)
		}
	})
}

// TestLoadServeConfigPrecedence verifies flags beat environment and file
func TestLoadServeConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  listen: \"127.0.0.1:9001\"\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("STRANALYZER_LISTEN", "127.0.0.1:9002")

	cfg, err := loadServeConfig(serveOptions{configPath: path})
	if err != nil {
		t.Fatalf("loadServeConfig failed: %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:9002" {
		t.Errorf("Expected env to beat file, got %s", cfg.Server.Listen)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected file log level, got %s", cfg.Log.Level)
	}

	cfg, err = loadServeConfig(serveOptions{configPath: path, listen: "127.0.0.1:9003", logLevel: "debug"})
	if err != nil {
		t.Fatalf("loadServeConfig failed: %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:9003" || cfg.Log.Level != "debug" {
		t.Errorf("Expected flags to win, got %s/%s", cfg.Server.Listen, cfg.Log.Level)
	}
}
