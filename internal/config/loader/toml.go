package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// IncludeKey is the top-level key naming files to layer underneath the
// current one.
const IncludeKey = "@include"

// ReadTOML reads the configuration file at path and resolves its includes.
// Included files are merged first so the including file wins; includes are
// resolved relative to the including file and may nest maxDepth levels.
//
// A missing root file yields nil, nil. A missing include is an error.
func ReadTOML(fsys FileSystem, path string, maxDepth int) (map[string]any, error) {
	r := includeReader{fs: fsys, maxDepth: maxDepth}
	cfg, err := r.read(path)
	var ie *IncludeError
	if errors.Is(err, fs.ErrNotExist) && !errors.As(err, &ie) {
		return nil, nil
	}
	return cfg, err
}

type includeReader struct {
	fs       FileSystem
	maxDepth int
	stack    []string
}

func (r *includeReader) read(path string) (map[string]any, error) {
	path = filepath.Clean(path)
	if slices.Contains(r.stack, path) {
		return nil, r.includeErr(path, ErrIncludeCycle)
	}
	if len(r.stack) > r.maxDepth {
		return nil, r.includeErr(path, ErrIncludeDepth)
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		if len(r.stack) > 0 {
			return nil, r.includeErr(path, err)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := decodeTOML(path, data)
	if err != nil {
		return nil, err
	}

	includes, err := includeList(cfg[IncludeKey])
	if err != nil {
		return nil, r.includeErr(path, err)
	}
	delete(cfg, IncludeKey)
	if len(includes) == 0 {
		return cfg, nil
	}

	r.stack = append(r.stack, path)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	base := make(map[string]any)
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		incCfg, err := r.read(inc)
		if err != nil {
			return nil, err
		}
		base = DeepMerge(base, incCfg)
	}
	return DeepMerge(base, cfg), nil
}

func (r *includeReader) includeErr(path string, err error) error {
	var ie *IncludeError
	if errors.As(err, &ie) {
		return err
	}
	chain := append(slices.Clone(r.stack), path)
	return &IncludeError{Chain: chain, Err: err}
}

func includeList(v any) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, ErrIncludeValue
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, ErrIncludeValue
	}
}

func decodeTOML(path string, data []byte) (map[string]any, error) {
	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	return cfg, nil
}
