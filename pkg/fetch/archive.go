package fetch

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

const (
	encodingTarGzip = "tar+gzip"
	encodingTarXz   = "tar+xz"
)

// UnpackOptions describes how a downloaded release asset becomes the
// final file at OutputPath.
type UnpackOptions struct {
	Encoding    string // "", "none", "zstd", "tar+gzip" or "tar+xz"
	SourcePath  string
	OutputPath  string
	ExtractPath string // entry inside an archive to pull out
}

// IsArchiveEncoding reports whether encoding is a supported archive type.
func IsArchiveEncoding(encoding string) bool {
	switch normalizeEncoding(encoding) {
	case encodingTarGzip, encodingTarXz:
		return true
	default:
		return false
	}
}

// Unpack turns the downloaded asset at SourcePath into the file at
// OutputPath. Archives are extracted into a temporary directory and the
// entry named by ExtractPath is moved into place; other encodings are
// decoded directly.
func Unpack(opts UnpackOptions) error {
	if strings.TrimSpace(opts.OutputPath) == "" {
		return errors.New("output path is required")
	}

	encoding := normalizeEncoding(opts.Encoding)
	if !IsArchiveEncoding(encoding) {
		return DecodeFile(encoding, opts.SourcePath, opts.OutputPath)
	}

	if strings.TrimSpace(opts.ExtractPath) == "" {
		return fmt.Errorf("extract path is required for encoding %q", opts.Encoding)
	}

	tmpDir, err := os.MkdirTemp("", "rigup-extract-*")
	if err != nil {
		return fmt.Errorf("create temp extraction directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	switch encoding {
	case encodingTarGzip:
		if err := decodeTarGzip(opts.SourcePath, tmpDir); err != nil {
			return err
		}
	case encodingTarXz:
		if err := decodeTarXz(opts.SourcePath, tmpDir); err != nil {
			return err
		}
	}

	cleaned, err := safeRelativePath(opts.ExtractPath)
	if err != nil {
		return fmt.Errorf("invalid extract path %q: %w", opts.ExtractPath, err)
	}

	extracted := filepath.Join(tmpDir, cleaned)
	info, err := os.Stat(extracted)
	if err != nil {
		return fmt.Errorf("extract path %q not found in archive: %w", opts.ExtractPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("extract path %q is a directory", opts.ExtractPath)
	}

	if err := ensureDir(opts.OutputPath); err != nil {
		return err
	}
	return moveFile(extracted, opts.OutputPath, info.Mode().Perm())
}

func decodeTarGzip(srcPath, dstDir string) error {
	source, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	gzr, err := gzip.NewReader(source)
	if err != nil {
		return fmt.Errorf("open gzip reader: %w", err)
	}
	defer gzr.Close()

	if err := extractTarStream(tar.NewReader(gzr), dstDir); err != nil {
		return fmt.Errorf("extract tar+gzip: %w", err)
	}

	return nil
}

func decodeTarXz(srcPath, dstDir string) error {
	source, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	xzr, err := xz.NewReader(source)
	if err != nil {
		return fmt.Errorf("open xz reader: %w", err)
	}

	if err := extractTarStream(tar.NewReader(xzr), dstDir); err != nil {
		return fmt.Errorf("extract tar+xz: %w", err)
	}

	return nil
}

func extractTarStream(reader *tar.Reader, dstDir string) error {
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		rel, err := safeRelativePath(header.Name)
		if err != nil {
			return fmt.Errorf("invalid tar entry %q: %w", header.Name, err)
		}
		if rel == "." {
			continue
		}

		path := filepath.Join(dstDir, rel)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, fs.FileMode(header.Mode).Perm()); err != nil {
				return fmt.Errorf("create directory %q: %w", path, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create parent directory for %q: %w", path, err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fs.FileMode(header.Mode).Perm())
			if err != nil {
				return fmt.Errorf("create file %q: %w", path, err)
			}
			if _, err := io.Copy(file, reader); err != nil {
				file.Close()
				return fmt.Errorf("write file %q: %w", path, err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close file %q: %w", path, err)
			}
		default:
			return fmt.Errorf("unsupported tar entry type %d for %q", header.Typeflag, header.Name)
		}
	}
}

func safeRelativePath(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return ".", nil
	}
	if filepath.IsAbs(cleaned) {
		return "", errors.New("absolute paths are not allowed")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.New("path traversal is not allowed")
	}
	return cleaned, nil
}

// moveFile renames src into place, falling back to a copy when the
// temporary directory lives on another filesystem.
func moveFile(src, dst string, perm fs.FileMode) error {
	_ = os.Remove(dst)
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open extracted file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		removeOnError(dst)
		return fmt.Errorf("copy extracted file: %w", err)
	}
	if err := destination.Close(); err != nil {
		removeOnError(dst)
		return fmt.Errorf("close destination file: %w", err)
	}
	return os.Remove(src)
}
