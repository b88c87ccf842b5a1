package texcore

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML reads a TOML-encoded configuration file into dst, the same way
// the asset pipeline's shader loader decodes its `.toml` stage
// descriptors: read the whole file, then unmarshal into a plain struct
// tagged with `toml:"..."`.
func LoadTOML(path string, dst interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIOError, path, err)
	}
	if err := toml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIOError, path, err)
	}
	return nil
}

// SaveTOML writes dst back out as TOML, truncating any existing file.
// Useful for checking in a generation preset that was tuned
// interactively.
func SaveTOML(path string, src interface{}) error {
	raw, err := toml.Marshal(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIOError, path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrIOError, path, err)
	}
	return nil
}
