// Package app wires configuration, logging, the event bus, the tree engine,
// the script runtime and the config watcher into one application, and
// manages their lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dshills/bstviz/internal/config"
	"github.com/dshills/bstviz/internal/config/watcher"
	"github.com/dshills/bstviz/internal/engine"
	"github.com/dshills/bstviz/internal/event"
	"github.com/dshills/bstviz/internal/script"
)

// Application is the central coordinator for all bstviz components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config  *config.Config
	logger  *Logger
	metrics *Metrics
	bus     *event.Bus
	subs    []*event.Subscription

	// Tree components
	engine *engine.Engine
	script *script.State

	watcher *watcher.Watcher

	// levelPinned is set when the log level came from Options and must
	// survive config reloads.
	levelPinned bool
	closed      bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses
	// defaults and the environment only.
	ConfigPath string

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option

	// Debug enables debug logging and tree validation after every change.
	Debug bool

	// LogLevel overrides the configured logging level.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// ScriptOutput receives script print output. Defaults to os.Stdout.
	ScriptOutput io.Writer
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.ConfigOptions...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.config = cfg

	// 2. Logger
	level := ParseLogLevel(cfg.Logging.Level)
	if app.opts.LogLevel != "" {
		level = ParseLogLevel(app.opts.LogLevel)
		app.levelPinned = true
	}
	if app.opts.Debug {
		level = LogLevelDebug
		app.levelPinned = true
	}
	app.logger = NewLogger(LoggerConfig{
		Level:  level,
		Output: app.opts.LogOutput,
		Prefix: cfg.Logging.Prefix,
	})

	// 3. Event bus
	busLog := app.logger.WithComponent("bus")
	app.bus = event.NewBus(
		event.WithPanicHandler(func(ev any, r any) {
			busLog.Error("handler panic on %s: %v", event.ToEnvelope(ev).Topic, r)
		}),
		event.WithErrorHandler(func(ev any, err error) {
			busLog.Warn("handler error on %s: %v", event.ToEnvelope(ev).Topic, err)
		}),
	)
	if err := app.subscribe(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	// 4. Engine
	engineOpts := []engine.Option{
		engine.WithMaxHistory(cfg.History.MaxEntries),
		engine.WithValueRange(cfg.Tree.MinValue, cfg.Tree.MaxValue),
		engine.WithMaxSize(cfg.Tree.MaxSize),
		engine.WithPublisher(app.bus),
	}
	if app.opts.Debug {
		engineOpts = append(engineOpts, engine.WithValidation())
	}
	app.engine = engine.New(engineOpts...)

	// 5. Script runtime
	out := app.opts.ScriptOutput
	if out == nil {
		out = os.Stdout
	}
	app.script = script.NewState(
		script.WithTimeout(cfg.Script.Timeout()),
		script.WithOutput(out),
	)
	script.Bind(app.script, app.engine)

	app.logger.Debug("initialized (config %q)", cfg.Path)
	return nil
}

// subscribe registers the application's own event handlers.
func (app *Application) subscribe() error {
	evLog := app.logger.WithComponent("engine")
	sub, err := app.bus.Subscribe("**", func(_ context.Context, ev any) error {
		env := event.ToEnvelope(ev)
		app.metrics.RecordEvent(env.Topic)
		if evLog.Enabled(LogLevelDebug) {
			evLog.Debug("%s %+v", env.Topic, env.Payload)
		}
		return nil
	})
	if err != nil {
		return err
	}
	app.subs = append(app.subs, sub)
	return nil
}

// RunScript executes the Lua file at path against the engine.
func (app *Application) RunScript(ctx context.Context, path string) error {
	return app.run(path, func() error {
		return app.script.DoFile(ctx, path)
	})
}

// RunString executes inline Lua code against the engine.
func (app *Application) RunString(ctx context.Context, code string) error {
	return app.run("<string>", func() error {
		return app.script.DoString(ctx, code)
	})
}

func (app *Application) run(source string, fn func() error) error {
	if app.isClosed() {
		return ErrClosed
	}

	timer := StartTimer()
	err := fn()
	elapsed := timer.Elapsed()
	app.metrics.RecordScript(elapsed, err)

	log := app.logger.WithComponent("script").WithField("source", source)
	if err != nil {
		log.Error("failed after %v: %v", elapsed, err)
		return &ScriptError{Source: source, Err: err}
	}
	log.Debug("completed in %v", elapsed)
	return nil
}

// StartWatcher reloads the configuration whenever its file changes, until
// ctx is cancelled or the application shuts down.
func (app *Application) StartWatcher(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return ErrClosed
	}
	if app.opts.ConfigPath == "" {
		return ErrNoConfigFile
	}
	if app.watcher != nil {
		return ErrAlreadyRunning
	}

	log := app.logger.WithComponent("watcher")
	w, err := watcher.New(
		watcher.WithDebounce(app.config.Watch.Debounce()),
		watcher.WithErrorHandler(func(err error) {
			log.Warn("%v", err)
		}),
	)
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	w.OnChange(func(ev watcher.Event) {
		log.Info("%s %s", ev.Op, ev.Path)
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		_ = app.Reload()
	})

	if err := w.Watch(app.opts.ConfigPath); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", app.opts.ConfigPath, err)
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return err
	}

	app.watcher = w
	log.Debug("watching %s", app.opts.ConfigPath)
	return nil
}

// Reload re-reads the configuration and applies it to the running
// components. An invalid file is reported and the current settings kept.
func (app *Application) Reload() error {
	cfg, err := config.Load(app.opts.ConfigPath, app.opts.ConfigOptions...)
	app.metrics.RecordReload(err)
	log := app.logger.WithComponent("config")
	if err != nil {
		log.Warn("reload failed, keeping current settings: %v", err)
		return err
	}

	app.mu.Lock()
	app.config = cfg
	pinned := app.levelPinned
	app.mu.Unlock()

	app.engine.SetMaxHistory(cfg.History.MaxEntries)
	if err := app.engine.SetValueRange(cfg.Tree.MinValue, cfg.Tree.MaxValue); err != nil {
		log.Warn("%v", err)
	}
	app.engine.SetMaxSize(cfg.Tree.MaxSize)
	app.script.SetTimeout(cfg.Script.Timeout())
	if !pinned {
		app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	}

	log.Info("reloaded %s", cfg.Path)
	return nil
}

// Shutdown stops the watcher and releases the script runtime.
// It is safe to call more than once.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	w := app.watcher
	app.watcher = nil
	subs := app.subs
	app.subs = nil
	app.mu.Unlock()

	errs := NewErrorList()
	if w != nil {
		errs.Add(w.Close())
	}
	for _, sub := range subs {
		errs.Add(app.bus.Unsubscribe(sub))
	}
	errs.Add(app.script.Close())

	app.logger.Debug("shutdown complete")
	return errs.AsError()
}

func (app *Application) isClosed() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.closed
}

// Engine returns the tree engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// EventBus returns the event bus.
func (app *Application) EventBus() *event.Bus {
	return app.bus
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// IsWatching reports whether the config watcher is running.
func (app *Application) IsWatching() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.watcher != nil && app.watcher.IsRunning()
}
