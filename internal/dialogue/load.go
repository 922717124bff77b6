package dialogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidContent is returned when a content file does not describe a valid store.
	ErrInvalidContent = errors.New("dialogue: invalid content")
	// ErrDuplicateKey is returned when two content files define the same node key.
	ErrDuplicateKey = errors.New("dialogue: duplicate node key")
	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("dialogue: unsupported content format")
)

// SupportedExtensions lists the content file extensions the loader reads.
var SupportedExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Parse decodes a single content file. The format is picked from the file
// extension of name. A file holds exactly one top-level mapping; every node
// must carry a unique non-empty key and an options list. Dangling next keys
// are allowed.
func Parse(name string, data []byte) (Store, error) {
	var raw map[string]*Node
	var err error

	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		raw, err = decodeJSON(data)
	case ".yaml", ".yml":
		raw, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidContent, name, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContent, name, err)
	}

	store := make(Store, len(raw))
	for key, node := range raw {
		if err := checkNode(key, node); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContent, name, err)
		}
		store[key] = node
	}
	return store, nil
}

// decodeJSON walks the top-level object token by token so repeated keys are
// caught instead of the last one silently winning.
func decodeJSON(data []byte) (map[string]*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object of nodes, got %v", tok)
	}

	raw := make(map[string]*Node)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a node key, got %v", tok)
		}
		if _, dup := raw[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		var node *Node
		if err := dec.Decode(&node); err != nil {
			return nil, fmt.Errorf("node %q: %w", key, err)
		}
		raw[key] = node
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the node object")
	}
	return raw, nil
}

// decodeYAML accepts a single document. Duplicate mapping keys are already
// rejected by yaml.v3.
func decodeYAML(data []byte) (map[string]*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	raw := make(map[string]*Node)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return raw, nil
		}
		return nil, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("content file must hold a single YAML document")
	}
	return raw, nil
}

func checkNode(key string, node *Node) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("empty node key")
	}
	if node == nil {
		return fmt.Errorf("node %q is null", key)
	}
	if node.Options == nil {
		return fmt.Errorf("node %q has no options list", key)
	}
	return nil
}

// LoadFS reads every supported content file under fsys and merges them into
// one store. Hidden files and directories are skipped.
func LoadFS(fsys fs.FS) (Store, error) {
	store := make(Store)
	origin := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !SupportedExtensions[strings.ToLower(path.Ext(p))] {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read content %q: %w", p, err)
		}
		file, err := Parse(p, data)
		if err != nil {
			return err
		}
		for key, node := range file {
			if prev, dup := origin[key]; dup {
				return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateKey, key, prev, p)
			}
			origin[key] = p
			store[key] = node
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadDir reads a content directory from disk.
func LoadDir(dir string) (Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %q: not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}
