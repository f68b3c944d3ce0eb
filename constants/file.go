package constants

import "strings"

// AllowedExtensions holds the scan formats accepted from the input directory.
// Textract submission always goes through the PDF produced by conversion.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
}

// Artifact suffixes written into each document's output directory.
const (
	SuffixRawText     = ".raw.txt"
	SuffixCoords      = ".coords.json"
	SuffixCorrected   = ".corrected.txt"
	SuffixEntities    = ".entities.json"
	SuffixEntitiesRaw = ".entities_raw.txt"
)

// RunSummaryFile is written to the output root at the end of a run.
const RunSummaryFile = "run_summary.json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a filename extension (with or without dot)
// belongs to a supported scan format.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
