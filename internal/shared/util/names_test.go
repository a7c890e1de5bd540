package util

import (
	"strings"
	"testing"
)

func TestUniqueFileNameKeepsExtension(t *testing.T) {
	got, err := UniqueFileName("w2.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "w2_") {
		t.Fatalf("expected base name prefix w2_, got %s", got)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected .pdf suffix, got %s", got)
	}
}

func TestUniqueFileNameNeverRepeats(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		got, err := UniqueFileName("statement.png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[got] {
			t.Fatalf("duplicate unique name %s", got)
		}
		seen[got] = true
	}
}

func TestUniqueFileNameRejectsTraversal(t *testing.T) {
	if _, err := UniqueFileName("../etc/passwd"); err == nil {
		t.Fatalf("expected error for traversal name")
	}
}

func TestReplaceExt(t *testing.T) {
	cases := map[string]string{
		"photo.jpeg":   "photo.pdf",
		"scan":         "scan.pdf",
		"a.b.c.webp":   "a.b.c.pdf",
		"already.pdf":  "already.pdf",
	}
	for in, want := range cases {
		if got := ReplaceExt(in, ".pdf"); got != want {
			t.Fatalf("ReplaceExt(%q) = %q, want %q", in, got, want)
		}
	}
}
