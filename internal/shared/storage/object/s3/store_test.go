package s3

import (
	"testing"
)

func TestPublicURLIncludesRegion(t *testing.T) {
	s := &Store{bucket: "condition-documents", region: "us-east-1"}
	got := s.PublicURL("L1/R1/w2_1_ab.pdf")
	want := "https://condition-documents.s3.us-east-1.amazonaws.com/L1/R1/w2_1_ab.pdf"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestPublicURLWithoutRegion(t *testing.T) {
	s := &Store{bucket: "document-thumbnails"}
	got := s.PublicURL("L1/unassigned/thumb_scan_1_ab.jpg")
	want := "https://document-thumbnails.s3.amazonaws.com/L1/unassigned/thumb_scan_1_ab.jpg"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
