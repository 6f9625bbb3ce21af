// Package walker enumerates (document, path-label) pairs from a
// filesystem tree, honoring omit-patterns, archive expansion, and
// binary/text decoding policy.
//
// Grounded on original_source's executor::mod.rs walk loop (omit
// substring filtering) and the teacher's cmd/yargo/main.go
// (filepath.WalkDir enumeration); large files are mmap'd the way the
// teacher's scanner.ScanFile does, via golang.org/x/sys/unix.
package walker

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// File is one yielded document: its bytes and the path label it is
// reported under (spec §4.E, "<outer>/<inner>" for archive entries).
type File struct {
	Bytes []byte
	Label string
}

// Options configures a walk (spec §4.E policies).
type Options struct {
	// Omit lists substrings; a path containing any of them is skipped.
	Omit []string
	// ScanArchives expands zip/tar/gz/jar/bz2 entries into inner files.
	ScanArchives bool
	// ScanBinary, when true, lossily decodes non-UTF-8 files instead
	// of skipping them.
	ScanBinary bool
}

func omitted(path string, omit []string) bool {
	for _, pat := range omit {
		if pat != "" && strings.Contains(path, pat) {
			return true
		}
	}
	return false
}

// mmapThreshold is the size above which Walk memory-maps a file
// instead of reading it into a heap buffer, matching the teacher's
// scanner.ScanFile threshold for throughput on large repositories.
const mmapThreshold = 1 << 20

// Walk traverses root and yields every non-omitted, non-directory file
// under it. Archive entries are expanded in place when opts.ScanArchives
// is set. A per-file open/read failure, or an archive that fails to
// expand, is reported via the error half of the pair and the walk
// continues (spec §4.F failure semantics). A non-UTF-8 file is skipped
// without an error in text mode; in binary mode its invalid bytes are
// replaced with U+FFFD before it is yielded.
func Walk(root string, opts Options) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(File{}, err) {
					return filepath.SkipAll
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if omitted(path, opts.Omit) {
				return nil
			}

			if opts.ScanArchives && isArchive(path) {
				cont := true
				expandErr := expandArchive(path, func(f File) bool {
					if !decodable(f.Bytes, opts.ScanBinary) {
						return true
					}
					if !utf8.Valid(f.Bytes) {
						f.Bytes = []byte(strings.ToValidUTF8(string(f.Bytes), "�"))
					}
					ok := yield(f, nil)
					if !ok {
						cont = false
					}
					return ok
				})
				if expandErr != nil {
					if !yield(File{}, expandErr) {
						return filepath.SkipAll
					}
				}
				if !cont {
					return filepath.SkipAll
				}
				return nil
			}
			if opts.ScanArchives && unsupportedArchive(path) {
				return nil
			}

			data, err := readFile(path)
			if err != nil {
				if !yield(File{}, err) {
					return filepath.SkipAll
				}
				return nil
			}
			if !decodable(data, opts.ScanBinary) {
				return nil
			}
			if !utf8.Valid(data) {
				data = []byte(strings.ToValidUTF8(string(data), "�"))
			}
			if !yield(File{Bytes: data, Label: path}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// decodable reports whether buf should be yielded: always in binary
// mode, only if valid UTF-8 in text mode (spec §4.E).
func decodable(buf []byte, scanBinary bool) bool {
	return scanBinary || utf8.Valid(buf)
}

// readFile reads path, memory-mapping it when large (grounded on the
// teacher's scanner.ScanFile mmap path).
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}
	if info.Size() < mmapThreshold {
		return os.ReadFile(path)
	}
	return mmapFile(path, info.Size())
}

func mmapFile(path string, size int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return os.ReadFile(path)
	}
	// Copy out of the mapping so callers can hold the buffer past the
	// lifetime of the mapping; Munmap immediately to bound open mappings
	// under heavy fan-out.
	buf := make([]byte, len(data))
	copy(buf, data)
	_ = unix.Munmap(data)
	return buf, nil
}
