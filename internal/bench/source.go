package bench

import (
	"errors"
	"fmt"
	"os"
)

// ErrEmptySource is returned when the kernel file is missing or empty.
var ErrEmptySource = errors.New("empty kernel source")

// LoadKernelSource reads the kernel file at path. Relative paths depend on
// the current working directory.
func LoadKernelSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrEmptySource, path)
		}
		return "", fmt.Errorf("read kernel source: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptySource, path)
	}
	return string(data), nil
}
