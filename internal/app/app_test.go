package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dshills/bstviz/internal/config"
	"github.com/dshills/bstviz/internal/engine"
	"github.com/dshills/bstviz/internal/event/events"
)

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var logs, out bytes.Buffer
	opts.LogOutput = &logs
	opts.ScriptOutput = &out
	opts.ConfigOptions = append(opts.ConfigOptions, config.WithoutEnv())

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown() })
	return app, &logs, &out
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewApplication(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	if app.Engine() == nil {
		t.Error("expected engine to be initialized")
	}
	if app.EventBus() == nil {
		t.Error("expected event bus to be initialized")
	}
	if app.Config() == nil {
		t.Error("expected config to be initialized")
	}
	if app.Engine().MaxHistory() != engine.DefaultMaxHistory {
		t.Errorf("MaxHistory = %d", app.Engine().MaxHistory())
	}
	if app.IsWatching() {
		t.Error("watcher should not start by default")
	}
}

func TestNewApplication_AppliesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, `
[history]
maxEntries = 3

[tree]
minValue = 0
maxValue = 10
maxSize = 5
`)

	app, _, _ := newTestApp(t, Options{ConfigPath: path})
	e := app.Engine()

	if e.MaxHistory() != 3 {
		t.Errorf("MaxHistory = %d, want 3", e.MaxHistory())
	}
	if lo, hi := e.ValueRange(); lo != 0 || hi != 10 {
		t.Errorf("ValueRange = [%d, %d], want [0, 10]", lo, hi)
	}
	if e.MaxSize() != 5 {
		t.Errorf("MaxSize = %d, want 5", e.MaxSize())
	}
	if _, err := e.Insert(11); !errors.Is(err, engine.ErrValueOutOfRange) {
		t.Errorf("Insert(11) = %v, want ErrValueOutOfRange", err)
	}
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, "[tree]\nminValue = 10\nmaxValue = 0\n")

	_, err := New(Options{ConfigPath: path, ConfigOptions: []config.Option{config.WithoutEnv()}})
	if !errors.Is(err, ErrInitialization) {
		t.Fatalf("New() = %v, want ErrInitialization", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("New() = %v, want wrapped ErrValidationFailed", err)
	}
}

func TestApplication_RunString(t *testing.T) {
	app, _, out := newTestApp(t, Options{})

	err := app.RunString(context.Background(), `
tree.insert_all({5, 3, 8})
print(table.concat(tree.inorder(), ","))
`)
	if err != nil {
		t.Fatalf("RunString() = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "3,5,8" {
		t.Errorf("output = %q, want 3,5,8", got)
	}

	snap := app.Metrics().Snapshot()
	if snap.ScriptRuns != 1 {
		t.Errorf("ScriptRuns = %d, want 1", snap.ScriptRuns)
	}
	if snap.TopicCounts[events.TopicTreeBatchInserted] != 1 {
		t.Errorf("batch events = %d, want 1", snap.TopicCounts[events.TopicTreeBatchInserted])
	}
}

func TestApplication_RunScriptFile(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	path := filepath.Join(t.TempDir(), "build.lua")
	if err := os.WriteFile(path, []byte("tree.insert(1)\ntree.insert(2)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.RunScript(context.Background(), path); err != nil {
		t.Fatalf("RunScript() = %v", err)
	}
	if !slices.Equal(app.Engine().InOrder(), []int{1, 2}) {
		t.Errorf("InOrder = %v", app.Engine().InOrder())
	}
}

func TestApplication_RunStringError(t *testing.T) {
	app, logs, _ := newTestApp(t, Options{})

	err := app.RunString(context.Background(), `error("nope")`)
	var scriptErr *ScriptError
	if !errors.As(err, &scriptErr) {
		t.Fatalf("RunString() = %v, want *ScriptError", err)
	}
	if scriptErr.Source != "<string>" {
		t.Errorf("Source = %q", scriptErr.Source)
	}
	if !strings.Contains(logs.String(), "[ERROR]") {
		t.Errorf("expected error log, got %q", logs.String())
	}
	if app.Metrics().Snapshot().ScriptFailures != 1 {
		t.Error("failure not recorded")
	}
}

func TestApplication_DebugLogsEvents(t *testing.T) {
	app, logs, _ := newTestApp(t, Options{Debug: true})

	if _, err := app.Engine().Insert(7); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), string(events.TopicTreeNodeInserted)) {
		t.Errorf("expected event in debug log, got %q", logs.String())
	}
}

func TestApplication_LogLevelOverride(t *testing.T) {
	app, _, _ := newTestApp(t, Options{LogLevel: "error"})
	if app.Logger().Level() != LogLevelError {
		t.Errorf("Level = %v, want ERROR", app.Logger().Level())
	}
}

func TestApplication_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, "[history]\nmaxEntries = 3\n")
	app, _, _ := newTestApp(t, Options{ConfigPath: path})

	writeConfig(t, path, `
[history]
maxEntries = 7

[tree]
maxSize = 9

[logging]
level = "warn"

[script]
timeoutMs = 250
`)
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	if app.Engine().MaxHistory() != 7 {
		t.Errorf("MaxHistory = %d, want 7", app.Engine().MaxHistory())
	}
	if app.Engine().MaxSize() != 9 {
		t.Errorf("MaxSize = %d, want 9", app.Engine().MaxSize())
	}
	if app.Logger().Level() != LogLevelWarn {
		t.Errorf("Level = %v, want WARN", app.Logger().Level())
	}
	if app.Config().History.MaxEntries != 7 {
		t.Error("Config() not updated")
	}
	if app.script.Timeout() != 250*time.Millisecond {
		t.Errorf("script timeout = %v", app.script.Timeout())
	}
}

func TestApplication_ReloadInvalidKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, "[history]\nmaxEntries = 3\n")
	app, _, _ := newTestApp(t, Options{ConfigPath: path})

	writeConfig(t, path, "[history]\nmaxEntries = -1\n")
	if err := app.Reload(); err == nil {
		t.Fatal("Reload() succeeded for an invalid file")
	}
	if app.Engine().MaxHistory() != 3 {
		t.Errorf("MaxHistory = %d, want 3", app.Engine().MaxHistory())
	}
	if snap := app.Metrics().Snapshot(); snap.ReloadFailures != 1 {
		t.Errorf("ReloadFailures = %d, want 1", snap.ReloadFailures)
	}
}

func TestApplication_ReloadKeepsPinnedLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")
	app, _, _ := newTestApp(t, Options{ConfigPath: path, Debug: true})

	writeConfig(t, path, "[logging]\nlevel = \"error\"\n")
	if err := app.Reload(); err != nil {
		t.Fatal(err)
	}
	if app.Logger().Level() != LogLevelDebug {
		t.Errorf("Level = %v, want DEBUG", app.Logger().Level())
	}
}

func TestApplication_StartWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstviz.toml")
	writeConfig(t, path, "[history]\nmaxEntries = 3\n\n[watch]\ndebounceMs = 10\n")
	app, _, _ := newTestApp(t, Options{ConfigPath: path})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.StartWatcher(ctx); err != nil {
		t.Fatalf("StartWatcher() = %v", err)
	}
	if err := app.StartWatcher(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second StartWatcher() = %v, want ErrAlreadyRunning", err)
	}

	writeConfig(t, path, "[history]\nmaxEntries = 12\n\n[watch]\ndebounceMs = 10\n")

	deadline := time.Now().Add(3 * time.Second)
	for app.Engine().MaxHistory() != 12 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if app.Engine().MaxHistory() != 12 {
		t.Errorf("MaxHistory = %d after file change, want 12", app.Engine().MaxHistory())
	}
}

func TestApplication_StartWatcherWithoutFile(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	if err := app.StartWatcher(context.Background()); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("StartWatcher() = %v, want ErrNoConfigFile", err)
	}
}

func TestApplication_ShutdownIdempotent(t *testing.T) {
	app, err := New(Options{ConfigOptions: []config.Option{config.WithoutEnv()}, LogOutput: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}

	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if err := app.Shutdown(); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
	if err := app.RunString(context.Background(), "x = 1"); !errors.Is(err, ErrClosed) {
		t.Errorf("RunString after Shutdown = %v, want ErrClosed", err)
	}
	if err := app.StartWatcher(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("StartWatcher after Shutdown = %v, want ErrClosed", err)
	}
}
