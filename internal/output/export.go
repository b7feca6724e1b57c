package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ExportReport writes the report to path, picking the format from the file
// extension: .html gets the standalone HTML report, anything else JSON. A
// sibling lock file guards the target so concurrent runs exporting to a
// shared path never interleave writes.
func ExportReport(path string, report RunReport) error {
	if path == "" {
		return fmt.Errorf("export path is empty")
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock export file: %w", err)
	}
	if !locked {
		return fmt.Errorf("export file %s is locked by another run", path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".html") {
		if err := GenerateHTMLReport(file, report); err != nil {
			return fmt.Errorf("write html export: %w", err)
		}
		return nil
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}
