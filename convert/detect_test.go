package convert

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"mcnbt/common"
	"mcnbt/nbt"
	"mcnbt/region"
	"mcnbt/state"
)

func nbtFixture(t *testing.T) *nbt.Document {
	t.Helper()
	root := nbt.NewCompound()
	root.Set("Hello", nbt.Int(42))
	return &nbt.Document{Root: root}
}

func TestDetectKind(t *testing.T) {
	doc := nbtFixture(t)

	raw, err := nbt.Write(doc)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := nbt.WriteCompressed(doc)
	if err != nil {
		t.Fatal(err)
	}

	a := region.New()
	a.SetChunk(0, 0, doc)
	reg, err := a.Save()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		data []byte
		want Kind
	}{
		{"raw nbt", raw, KindNBT},
		{"gzip nbt", packed, KindNBTGzip},
		{"region", reg, KindRegion},
		{"snbt", []byte(`{a:1b,b:"x"}`), KindSNBT},
		{"json", []byte(`{"name":"","type":"compound","value":{}}`), KindJSON},
		{"json with leading space", []byte("  {\"a\": 1}"), KindJSON},
		{"garbage", []byte("hello world"), KindUnknown},
		{"empty", nil, KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectKind(tc.data); got != tc.want {
				t.Errorf("DetectKind() = %s, want %s", got, tc.want)
			}
		})
	}
}

// TestIsArchiveFile tests archive file detection
func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.txt")
		if err := os.WriteFile(filePath, []byte("not a zip"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("zip name but bogus content", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("valid zip", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "test2.zip")
		zipFile, err := os.Create(filePath)
		if err != nil {
			t.Fatal(err)
		}
		w := zip.NewWriter(zipFile)
		f, err := w.Create("level.dat")
		if err != nil {
			t.Fatal(err)
		}
		f.Write(make([]byte, 300))
		w.Close()
		zipFile.Close()

		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Error("isArchiveFile() = false, want true")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
			t.Error("isArchiveFile() of missing file did not fail")
		}
	})
}

func TestConvertDataMatrix(t *testing.T) {
	env := &state.LocalEnv{}
	doc := nbtFixture(t)
	raw, _ := nbt.Write(doc)

	snbtOut, err := convertData(context.Background(), raw, KindNBT, common.OutputFmtSnbt, env)
	if err != nil {
		t.Fatalf("convertData() error = %v", err)
	}
	if string(snbtOut) != "{Hello:42}\n" {
		t.Errorf("snbt output = %q", snbtOut)
	}

	jsonOut, err := convertData(context.Background(), snbtOut, KindSNBT, common.OutputFmtJSON, env)
	if err != nil {
		t.Fatalf("convertData() error = %v", err)
	}
	back, err := nbt.FromJSON(jsonOut)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if v, ok := back.Get("Hello"); !ok || !nbt.Equal(v, nbt.Byte(42)) {
		// ingest narrows 42 to the smallest fitting variant
		t.Errorf("Hello after snbt->json = %v, %v", v, ok)
	}

	datOut, err := convertData(context.Background(), raw, KindNBT, common.OutputFmtDat, env)
	if err != nil {
		t.Fatalf("convertData() error = %v", err)
	}
	if got, err := nbt.ReadCompressed(datOut); err != nil || !got.Equal(doc) {
		t.Errorf("dat round trip: %v, %v", got, err)
	}

	t.Run("region flattens to json only", func(t *testing.T) {
		a := region.New()
		a.SetChunk(0, 0, nbtFixture(t))
		reg, err := a.Save()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := convertData(context.Background(), reg, KindRegion, common.OutputFmtSnbt, env); err == nil {
			t.Error("region to snbt did not fail")
		}
		out, err := convertData(context.Background(), reg, KindRegion, common.OutputFmtJSON, env)
		if err != nil {
			t.Fatalf("region to json error = %v", err)
		}
		if _, err := region.FromJSON(out); err != nil {
			t.Errorf("region json view does not parse back: %v", err)
		}
	})
}
