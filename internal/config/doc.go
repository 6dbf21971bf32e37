// Package config provides the configuration system for bstviz.
//
// Configuration is assembled from three layers, higher layers overriding
// lower:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually bstviz.toml
//  3. Environment variables with the BSTVIZ_ prefix
//
// Layers are plain maps merged with loader.DeepMerge and decoded onto the
// typed sections with go-toml, so every source is validated the same way.
//
// # Basic Usage
//
//	cfg, err := config.Load("bstviz.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.History.MaxEntries)
//
// A missing file is not an error; the defaults and environment still apply.
//
// # Environment Variables
//
// BSTVIZ_HISTORY_MAX_ENTRIES maps to history.maxEntries,
// BSTVIZ_TREE_MIN_VALUE to tree.minValue, and so on. BSTVIZ_LOG_LEVEL is an
// alias for logging.level.
//
// # Sub-packages
//
//   - loader: TOML and environment loading, deep merge
//   - watcher: fsnotify-based file watching for live reload
package config
