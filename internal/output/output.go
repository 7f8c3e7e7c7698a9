package output

import (
	"fmt"
	"os"
)

// Prepare creates dir and any missing parents. An existing directory and
// its contents are left untouched.
func Prepare(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare output dir: %w", err)
	}
	return nil
}
