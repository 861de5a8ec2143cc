package mirror

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/astrovis/texfetch/internal/manifest"
)

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		BaseURL: "https://example.com/dl",
		Entries: []manifest.Entry{
			{LocalName: "earth.jpg", RemoteName: "2k_earth_daymap.jpg", Digest: strings.Repeat("ab", 32)},
			{LocalName: "moon.jpg", RemoteName: "2k_moon.jpg"},
		},
	}
}

func writeLocalFiles(t *testing.T, dir string, m *manifest.Manifest) {
	t.Helper()
	for _, e := range m.Entries {
		if err := os.WriteFile(filepath.Join(dir, e.LocalName), []byte("data for "+e.LocalName), 0644); err != nil {
			t.Fatalf("write %s: %v", e.LocalName, err)
		}
	}
}

func TestPushAndCheck(t *testing.T) {
	ctx := context.Background()
	m := testManifest()

	dir := t.TempDir()
	writeLocalFiles(t, dir, m)

	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	result, err := Push(ctx, bucket, dir, "textures", m, "run-1234")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if result.Pushed != 2 {
		t.Errorf("expected 2 pushed, got %d", result.Pushed)
	}

	// Objects exist with the original content.
	data, err := bucket.ReadAll(ctx, "textures/earth.jpg")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "data for earth.jpg" {
		t.Errorf("object content = %q", string(data))
	}

	// Metadata carries digest and run ID.
	attrs, err := bucket.Attributes(ctx, "textures/earth.jpg")
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if attrs.Metadata["sha256"] != m.Entries[0].Digest {
		t.Errorf("sha256 metadata = %q", attrs.Metadata["sha256"])
	}
	if attrs.Metadata["run_id"] != "run-1234" {
		t.Errorf("run_id metadata = %q", attrs.Metadata["run_id"])
	}
	if _, ok := attrs.Metadata["source_url"]; !ok {
		t.Error("expected source_url metadata")
	}

	check, err := Check(ctx, bucket, dir, "textures", m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !check.Valid {
		t.Errorf("expected valid mirror, errors: %v", check.Errors)
	}
	if check.Objects != 2 {
		t.Errorf("expected 2 objects checked, got %d", check.Objects)
	}
}

func TestPushMissingLocalFile(t *testing.T) {
	ctx := context.Background()
	m := testManifest()

	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	// Empty local dir: nothing has been fetched.
	if _, err := Push(ctx, bucket, t.TempDir(), "textures", m, "run-1"); err == nil {
		t.Error("expected error for missing local files")
	}
}

func TestCheckMissingObject(t *testing.T) {
	ctx := context.Background()
	m := testManifest()

	dir := t.TempDir()
	writeLocalFiles(t, dir, m)

	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	// Push only the first entry by hand.
	if err := bucket.WriteAll(ctx, "textures/earth.jpg", []byte("data for earth.jpg"), nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	check, err := Check(ctx, bucket, dir, "textures", m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if check.Valid {
		t.Error("expected invalid mirror")
	}
	if check.Missing != 1 {
		t.Errorf("expected 1 missing, got %d", check.Missing)
	}
}

func TestCheckSizeMismatch(t *testing.T) {
	ctx := context.Background()
	m := testManifest()

	dir := t.TempDir()
	writeLocalFiles(t, dir, m)

	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	if _, err := Push(ctx, bucket, dir, "textures", m, "run-1"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	// Truncate one object.
	if err := bucket.WriteAll(ctx, "textures/moon.jpg", []byte("short"), nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	check, err := Check(ctx, bucket, dir, "textures", m)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if check.Valid {
		t.Error("expected invalid mirror")
	}
	if check.SizeMismatches != 1 {
		t.Errorf("expected 1 size mismatch, got %d", check.SizeMismatches)
	}
}

func TestPushNoPrefix(t *testing.T) {
	ctx := context.Background()
	m := testManifest()

	dir := t.TempDir()
	writeLocalFiles(t, dir, m)

	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	if _, err := Push(ctx, bucket, dir, "", m, "run-1"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	exists, err := bucket.Exists(ctx, "earth.jpg")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected object at bare key")
	}
}
