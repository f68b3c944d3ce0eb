package ocr

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHarvest_FollowsPaginationInOrder(t *testing.T) {
	det := &scriptedDetector{pages: []*ResultsPage{
		{Lines: []string{"Dear Sir"}, NextToken: "t1"},
		{Lines: []string{"I write to you"}, Words: []WordInfo{{Text: "write", Confidence: 98.5}}, NextToken: "t2"},
		{Lines: []string{"Yours truly"}},
	}}

	doc, err := NewHarvester(det, 0).Harvest(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.fetches != 3 {
		t.Fatalf("expected 3 fetches, got %d", det.fetches)
	}

	want := "Dear Sir\nI write to you\nYours truly"
	if got := strings.Join(doc.Lines, "\n"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if len(doc.Words) != 1 || doc.Words[0].Text != "write" {
		t.Fatalf("unexpected words: %+v", doc.Words)
	}
}

func TestHarvest_SinglePage(t *testing.T) {
	det := &scriptedDetector{pages: []*ResultsPage{
		{Lines: []string{"only page"}},
	}}

	doc, err := NewHarvester(det, 10).Harvest(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.fetches != 1 {
		t.Fatalf("expected 1 fetch, got %d", det.fetches)
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("unexpected lines: %v", doc.Lines)
	}
}

func TestHarvest_PageCapStopsRunawayCursor(t *testing.T) {
	// Every page claims another page exists.
	pages := make([]*ResultsPage, 8)
	for i := range pages {
		pages[i] = &ResultsPage{Lines: []string{"x"}, NextToken: "again"}
	}
	det := &scriptedDetector{pages: pages}

	if _, err := NewHarvester(det, 5).Harvest(context.Background(), "job-1"); err == nil {
		t.Fatal("expected error once page cap is exceeded")
	}
	if det.fetches != 5 {
		t.Fatalf("expected cap at 5 fetches, got %d", det.fetches)
	}
}
