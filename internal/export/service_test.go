package export

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeArtifact(t *testing.T, root, id, content string) {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".entities.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExportEntitiesXLSX(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "letter-002", `{"People":["Bram Stoker"],"Productions":[],"Companies":[],"Theaters":["Lyceum Theatre"],"Dates":[]}`)
	writeArtifact(t, root, "letter-001", `{"People":["Henry Irving","Ellen Terry"],"Productions":["The Bells"],"Companies":[],"Theaters":[],"Dates":["12 March 1888"]}`)
	// a letter whose extraction failed has no entities artifact
	if err := os.MkdirAll(filepath.Join(root, "letter-003"), 0o755); err != nil {
		t.Fatal(err)
	}

	svc := NewService(root, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b, err := svc.ExportEntitiesXLSX()
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Entities")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "letter-001" || rows[2][0] != "letter-002" {
		t.Fatalf("rows not sorted by letter id: %v", rows)
	}
	if rows[1][1] != "Henry Irving; Ellen Terry" {
		t.Fatalf("unexpected people cell: %q", rows[1][1])
	}
}
