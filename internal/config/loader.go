package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CSVCHUNK_"

// FileSystem is an abstraction for reading config files.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader builds Settings from a file and the environment.
type Loader struct {
	fs     FileSystem
	lookup func(string) (string, bool)
}

// NewLoader returns a Loader reading the OS file system and environment.
func NewLoader() *Loader {
	return &Loader{fs: OSFS{}, lookup: os.LookupEnv}
}

// NewLoaderWith returns a Loader with a custom file system and environment
// lookup.
func NewLoaderWith(fsys FileSystem, lookup func(string) (string, bool)) *Loader {
	return &Loader{fs: fsys, lookup: lookup}
}

// Load returns defaults overlaid with the file at path (if path is not
// empty) and then the environment. A named file that does not exist is an
// error.
func (l *Loader) Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if err := l.LoadFile(path, &s); err != nil {
			return Settings{}, err
		}
	}
	if err := l.ApplyEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile overlays s with the file at path. The format follows the file
// extension. Unknown keys are rejected.
func (l *Loader) LoadFile(path string, s *Settings) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(bytes.NewReader(data), s)
	case ".yaml", ".yml":
		err = decodeYAML(bytes.NewReader(data), s)
	default:
		return &ParseError{Path: path, Message: fmt.Sprintf("unsupported config format %q", ext)}
	}
	if err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

func decodeTOML(r io.Reader, s *Settings) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(s)
}

func decodeYAML(r io.Reader, s *Settings) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays s with CSVCHUNK_* variables. Empty values are treated
// as set.
func (l *Loader) ApplyEnv(s *Settings) error {
	strs := map[string]*string{
		"DELIMITER": &s.Delimiter,
		"QUOTE":     &s.Quote,
		"ESCAPE":    &s.Escape,
		"ENCODING":  &s.Encoding,
		"FORMAT":    &s.Format,
		"LOG_LEVEL": &s.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := l.lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CHUNK_SIZE":      &s.ChunkSize,
		"MAX_RECORD_SIZE": &s.MaxRecordSize,
	}
	for name, dst := range ints {
		v, ok := l.lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ValidationError{Key: EnvPrefix + name, Message: fmt.Sprintf("not an integer: %q", v), Err: err}
		}
		*dst = n
	}
	return nil
}
