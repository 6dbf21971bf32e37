// Package loader turns the bstviz configuration sources into plain maps.
//
// ReadTOML reads a bstviz.toml file together with the files it pulls in
// through "@include"; EnvLoader maps BSTVIZ_* variables onto the same key
// space. Config layers are combined with DeepMerge before decoding.
package loader

import "os"

// FileSystem reads configuration files. Tests substitute an in-memory one.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// DeepMerge merges src into dst and returns dst. Nested tables merge key by
// key; any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
