package zip

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	archive, err := ArchiveAssets([]Asset{
		{Filename: "Modern Minimal", MIME: "image/png", Data: []byte("one")},
		{Filename: "Modern Minimal", MIME: "image/png", Data: []byte("two")},
		{Filename: "promo", MIME: "video/mp4", Data: []byte("clip")},
	})
	if err != nil {
		t.Fatalf("archive assets: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("entries = %d, want 3", len(zr.File))
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		if names[f.Name] {
			t.Fatalf("duplicate entry %q", f.Name)
		}
		names[f.Name] = true
	}
	if !names["Modern Minimal.png"] || !names["Modern Minimal-2.png"] || !names["promo.mp4"] {
		t.Fatalf("unexpected entry names: %v", names)
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	archive, err := ArchiveAssets(nil)
	if err != nil {
		t.Fatalf("archive assets: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive))); err != nil {
		t.Fatalf("empty archive should still be valid: %v", err)
	}
}
