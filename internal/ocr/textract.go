package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/joseph-ayodele/letters-digitizer/internal/common"
)

// TextractDetector implements Detector against AWS Textract's asynchronous
// document-text-detection API.
type TextractDetector struct {
	client *textract.Client
	bucket string
	logger *slog.Logger
}

func NewTextractDetector(ctx context.Context, cfg common.AWSConfig, logger *slog.Logger) (*TextractDetector, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not set")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &TextractDetector{
		client: textract.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (d *TextractDetector) StartDetection(ctx context.Context, pdfKey string) (string, error) {
	out, err := d.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(d.bucket),
				Name:   aws.String(pdfKey),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("start text detection for %s: %w", pdfKey, err)
	}
	return aws.ToString(out.JobId), nil
}

func (d *TextractDetector) PollDetection(ctx context.Context, jobID string) (PollStatus, error) {
	out, err := d.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return PollStatus{}, fmt.Errorf("get detection status for job %s: %w", jobID, err)
	}
	return pollStatusFrom(out.JobStatus, aws.ToString(out.StatusMessage)), nil
}

func (d *TextractDetector) FetchResults(ctx context.Context, jobID, nextToken string) (*ResultsPage, error) {
	in := &textract.GetDocumentTextDetectionInput{JobId: aws.String(jobID)}
	if nextToken != "" {
		in.NextToken = aws.String(nextToken)
	}

	out, err := d.client.GetDocumentTextDetection(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("fetch detection results for job %s: %w", jobID, err)
	}

	page := &ResultsPage{NextToken: aws.ToString(out.NextToken)}
	for _, block := range out.Blocks {
		switch block.BlockType {
		case types.BlockTypeLine:
			page.Lines = append(page.Lines, aws.ToString(block.Text))
		case types.BlockTypeWord:
			w := WordInfo{
				Text:       aws.ToString(block.Text),
				Confidence: float64(aws.ToFloat32(block.Confidence)),
			}
			if block.Geometry != nil && block.Geometry.BoundingBox != nil {
				bb := block.Geometry.BoundingBox
				w.BoundingBox = BoundingBox{
					Top:    float64(bb.Top),
					Left:   float64(bb.Left),
					Width:  float64(bb.Width),
					Height: float64(bb.Height),
				}
			}
			page.Words = append(page.Words, w)
		}
	}
	return page, nil
}

func pollStatusFrom(status types.JobStatus, message string) PollStatus {
	switch status {
	case types.JobStatusSucceeded, types.JobStatusPartialSuccess:
		return PollStatus{State: StateSucceeded, Reason: message}
	case types.JobStatusFailed:
		return PollStatus{State: StateFailed, Reason: message}
	default:
		return PollStatus{State: StateInProgress}
	}
}

var _ Detector = (*TextractDetector)(nil)
