package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/letters-digitizer/internal/common"
	"github.com/joseph-ayodele/letters-digitizer/internal/convert"
	"github.com/joseph-ayodele/letters-digitizer/internal/ocr"
	"github.com/joseph-ayodele/letters-digitizer/internal/storage"
)

// Preparer turns one raw scan into a submitted Textract job: upload the source
// JPG, convert to PDF, upload the PDF, start detection. Any step failing aborts
// only this document; the caller contains the returned error.
type Preparer struct {
	Store     storage.ObjectStore
	Converter convert.Converter
	Detector  ocr.Detector
	InputDir  string
	TmpDir    string
	OutputDir string
	Log       *slog.Logger
}

func NewPreparer(store storage.ObjectStore, conv convert.Converter, det ocr.Detector, inputDir, tmpDir, outputDir string, log *slog.Logger) *Preparer {
	if log == nil {
		log = slog.Default()
	}
	return &Preparer{
		Store:     store,
		Converter: conv,
		Detector:  det,
		InputDir:  inputDir,
		TmpDir:    tmpDir,
		OutputDir: outputDir,
		Log:       log,
	}
}

// Prepare processes one input filename. Key derivation is deterministic, so
// re-running after a crash overwrites remote objects rather than duplicating.
// Errors carry a common sentinel naming the failed step.
func (p *Preparer) Prepare(ctx context.Context, filename string) (JobRecord, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	srcPath := filepath.Join(p.InputDir, filename)
	jpgPath := filepath.Join(p.TmpDir, filename)
	pdfPath := filepath.Join(p.TmpDir, base+".pdf")
	jpgKey := filename
	pdfKey := base + ".pdf"

	docOutputDir := filepath.Join(p.OutputDir, base)
	if err := os.MkdirAll(docOutputDir, 0o755); err != nil {
		return JobRecord{}, common.WrapError(common.ErrSetup, err, "create output dir")
	}

	if err := p.Store.UploadFile(ctx, srcPath, jpgKey); err != nil {
		return JobRecord{}, common.WrapError(common.ErrUpload, err, "upload scan")
	}
	p.Log.Info("prepare.upload.ok", "id", base, "key", jpgKey)

	// Stage the scan in the batch tmp dir; conversion works on the copy and
	// the batch teardown wipes both files together.
	if err := copyFile(srcPath, jpgPath); err != nil {
		return JobRecord{}, common.WrapError(common.ErrSetup, err, "stage scan")
	}

	if err := p.Converter.ToPDF(ctx, jpgPath, pdfPath); err != nil {
		return JobRecord{}, common.WrapError(common.ErrConversion, err, "convert to pdf")
	}

	if err := p.Store.UploadFile(ctx, pdfPath, pdfKey); err != nil {
		return JobRecord{}, common.WrapError(common.ErrUpload, err, "upload pdf")
	}
	p.Log.Info("prepare.upload.ok", "id", base, "key", pdfKey)

	// Keep a local PDF copy with the artifacts for inspection.
	if err := copyFile(pdfPath, filepath.Join(docOutputDir, base+".pdf")); err != nil {
		return JobRecord{}, common.WrapError(common.ErrSetup, err, "copy pdf to output")
	}

	jobID, err := p.Detector.StartDetection(ctx, pdfKey)
	if err != nil {
		return JobRecord{}, common.WrapError(common.ErrOCR, err, "start detection")
	}
	p.Log.Info("prepare.submit.ok", "id", base, "job_id", jobID)

	return JobRecord{
		ID:        base,
		JobID:     jobID,
		OutputDir: docOutputDir,
		JPGKey:    jpgKey,
		PDFKey:    pdfKey,
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
