package walker

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// isArchive reports whether path has one of the supported archive
// extensions (spec §4.E): zip, tar, gz (incl. tgz/tar.gz), jar, bz2.
func isArchive(path string) bool {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".jar"):
		return true
	case strings.HasSuffix(lower, ".tar"):
		return true
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".gz"):
		return true
	case strings.HasSuffix(lower, ".bz2"):
		return true
	}
	return false
}

// unsupportedArchiveExts are recognized but not expanded (spec §4.E);
// skipped rather than yielded as opaque bytes.
var unsupportedArchiveExts = []string{
	".7z", ".rar", ".iso", ".rz", ".s7z", ".aar", ".apk", ".zst",
}

func unsupportedArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range unsupportedArchiveExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// expandArchive opens the archive at path and yields one File per
// inner entry, labeled "<outer>/<inner>". yield returning false stops
// expansion early (mirrors filepath.WalkDir's SkipAll convention).
func expandArchive(path string, yield func(File) bool) error {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".jar"):
		return expandZip(path, yield)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return expandTarGz(path, yield)
	case strings.HasSuffix(lower, ".tar"):
		return expandTar(path, yield)
	case strings.HasSuffix(lower, ".gz"):
		return expandGz(path, yield)
	case strings.HasSuffix(lower, ".bz2"):
		return expandBz2(path, yield)
	}
	return nil
}

func expandZip(path string, yield func(File) bool) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if !yield(File{Bytes: data, Label: path + "/" + f.Name}) {
			return nil
		}
	}
	return nil
}

func expandTarReader(path string, r io.Reader, yield func(File) bool) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			continue
		}
		if !yield(File{Bytes: data, Label: path + "/" + hdr.Name}) {
			return nil
		}
	}
}

func expandTar(path string, yield func(File) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return expandTarReader(path, f, yield)
}

func expandTarGz(path string, yield func(File) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()
	return expandTarReader(path, gz, yield)
}

// expandGz handles a bare ".gz" file that is not itself a tarball: one
// inner entry, named after the outer file with the extension stripped.
func expandGz(path string, yield func(File) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return err
	}
	inner := strings.TrimSuffix(filepath.Base(path), ".gz")
	yield(File{Bytes: data, Label: path + "/" + inner})
	return nil
}

func expandBz2(path string, yield func(File) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bzip2.NewReader(f)
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	inner := strings.TrimSuffix(filepath.Base(path), ".bz2")
	yield(File{Bytes: data, Label: path + "/" + inner})
	return nil
}
