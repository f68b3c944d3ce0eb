// Package ingest discovers the scans a run will process.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/letters-digitizer/constants"
)

// ListScans returns the names of supported scan files directly under dir,
// sorted for a stable batch order. Subdirectories and hidden files are
// skipped; unsupported extensions are filtered out here so the pipeline never
// sees them.
func ListScans(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if constants.IsAllowedExt(filepath.Ext(e.Name())) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
