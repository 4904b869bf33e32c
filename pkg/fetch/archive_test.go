package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func createTarGzip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for name, content := range entries {
		header := &tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatalf("write tar content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return buf.Bytes()
}

func TestUnpack_TarGzipExtractsBinary(t *testing.T) {
	archive := createTarGzip(t, map[string][]byte{
		"release/tool":      []byte("binary payload"),
		"release/README.md": []byte("ignored"),
	})

	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool.tar.gz")
	if err := os.WriteFile(src, archive, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	out := filepath.Join(tmp, "bin", "tool")
	err := Unpack(UnpackOptions{
		Encoding:    "tar+gzip",
		SourcePath:  src,
		OutputPath:  out,
		ExtractPath: "release/tool",
	})
	if err != nil {
		t.Fatalf("Unpack returned error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "binary payload" {
		t.Fatalf("output content = %q", got)
	}
}

func TestUnpack_MissingExtractPath(t *testing.T) {
	archive := createTarGzip(t, map[string][]byte{"tool": []byte("bin")})
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool.tar.gz")
	if err := os.WriteFile(src, archive, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	err := Unpack(UnpackOptions{
		Encoding:   "tar+gzip",
		SourcePath: src,
		OutputPath: filepath.Join(tmp, "out"),
	})
	if err == nil {
		t.Fatal("expected error for missing extract path")
	}
	if !strings.Contains(err.Error(), "extract path is required") {
		t.Fatalf("error = %v", err)
	}
}

func TestUnpack_RejectsTraversalEntry(t *testing.T) {
	archive := createTarGzip(t, map[string][]byte{"../escape": []byte("bad")})
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool.tar.gz")
	if err := os.WriteFile(src, archive, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	err := Unpack(UnpackOptions{
		Encoding:    "tar+gzip",
		SourcePath:  src,
		OutputPath:  filepath.Join(tmp, "out"),
		ExtractPath: "tool",
	})
	if err == nil {
		t.Fatal("expected error for traversal entry")
	}
}

func TestDecodeFile_Zstd(t *testing.T) {
	content := []byte("zstd payload")
	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("init encoder: %v", err)
	}
	if _, err := encoder.Write(content); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}

	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool.zst")
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	dst := filepath.Join(tmp, "tool")
	if err := DecodeFile("zstd", src, dst); err != nil {
		t.Fatalf("DecodeFile returned error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("decoded content = %q", got)
	}
}

func TestDecodeFile_UnsupportedEncoding(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := DecodeFile("rar", src, filepath.Join(tmp, "out")); err == nil {
		t.Fatal("expected error for unsupported encoding")
	}
}
