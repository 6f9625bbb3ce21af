// Package source implements the SourceProvider capability surface:
// filesystem traversal and git clone/discover/branch-switch/flush.
//
// Grounded on original_source's source::{mod.rs, git_source::mod.rs}
// (SourceProvider trait, GitRepo), translated onto
// github.com/go-git/go-git/v5 in place of the original's git2/libgit2
// bindings (out-of-pack dependency, see DESIGN.md).
package source

import (
	"errors"
	"iter"

	"github.com/vigilsec/vigil/walker"
)

// ErrSourceIO marks a fatal error for one source: clone failure,
// missing path, missing branch. Other sources are unaffected (spec §7).
var ErrSourceIO = errors.New("source io")

// HeadLabel is the synthetic branch label used for non-git scans
// (spec §4.F, glossary "Branch label").
const HeadLabel = "------ FILE SYSTEM ------"

// Provider is the closed-set SourceProvider capability surface
// (spec §4.H): FileSystem, LocalGit, RemoteGit.
type Provider interface {
	// Path returns the root directory currently being walked.
	Path() string
	// Walk enumerates (document, label) pairs under Path per opts.
	Walk(opts walker.Options) iter.Seq2[walker.File, error]
	// LocalBranches lists local git branches, or ErrSourceIO if this
	// provider has no git backing.
	LocalBranches() ([]string, error)
	// RemoteBranches lists remote-tracking git branches, or
	// ErrSourceIO if this provider has no git backing.
	RemoteBranches() ([]string, error)
	// SwitchBranch checks out name. A FileSystem provider always
	// returns ErrSourceIO.
	SwitchBranch(name string) error
	// Flush releases any resources the provider owns (a temporary
	// clone directory); a no-op for FileSystem and LocalGit.
	Flush() error
}

// FileSystemProvider walks a plain directory; it has no branch concept.
type FileSystemProvider struct {
	root string
}

// NewFileSystem returns a Provider rooted at path.
func NewFileSystem(path string) *FileSystemProvider {
	return &FileSystemProvider{root: path}
}

func (p *FileSystemProvider) Path() string { return p.root }

func (p *FileSystemProvider) Walk(opts walker.Options) iter.Seq2[walker.File, error] {
	return walker.Walk(p.root, opts)
}

func (p *FileSystemProvider) LocalBranches() ([]string, error) {
	return nil, errorf("filesystem source has no branches")
}

func (p *FileSystemProvider) RemoteBranches() ([]string, error) {
	return nil, errorf("filesystem source has no branches")
}

func (p *FileSystemProvider) SwitchBranch(name string) error {
	return errorf("filesystem source cannot switch branches")
}

func (p *FileSystemProvider) Flush() error { return nil }

func errorf(msg string) error {
	return &sourceError{msg: msg}
}

type sourceError struct{ msg string }

func (e *sourceError) Error() string { return "source io: " + e.msg }
func (e *sourceError) Unwrap() error { return ErrSourceIO }
