package object

import "testing"

func TestPrimaryKey(t *testing.T) {
	if got := PrimaryKey("L1", "R1", "w2_123_ab.pdf"); got != "L1/R1/w2_123_ab.pdf" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := PrimaryKey("L1", "", "w2_123_ab.pdf"); got != "L1/unassigned/w2_123_ab.pdf" {
		t.Fatalf("unexpected unassigned key %s", got)
	}
}

func TestThumbnailKeyMirrorsPrimary(t *testing.T) {
	got := ThumbnailKey("L1/R1/w2_123_ab.pdf")
	if got != "L1/R1/thumb_w2_123_ab.jpg" {
		t.Fatalf("unexpected thumbnail key %s", got)
	}
	got = ThumbnailKey("L1/unassigned/scan_9_ff.png")
	if got != "L1/unassigned/thumb_scan_9_ff.jpg" {
		t.Fatalf("unexpected thumbnail key %s", got)
	}
}
