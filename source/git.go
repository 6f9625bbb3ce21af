package source

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/uuid"

	"github.com/vigilsec/vigil/walker"
)

// LocalGitProvider discovers an existing git repository on disk and
// walks its working tree, switching branches in place. Flush is a
// no-op: the working tree belongs to the caller, not this provider
// (spec §4.H).
type LocalGitProvider struct {
	path string
	repo *git.Repository
}

// NewLocalGit discovers the git repository containing path (walking
// upward to find .git, mirroring git2::Repository::discover).
func NewLocalGit(path string) (*LocalGitProvider, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: discover repo at %s: %v", ErrSourceIO, path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: worktree for %s: %v", ErrSourceIO, path, err)
	}
	return &LocalGitProvider{path: wt.Filesystem.Root(), repo: repo}, nil
}

func (p *LocalGitProvider) Path() string { return p.path }

func (p *LocalGitProvider) Walk(opts walker.Options) iter.Seq2[walker.File, error] {
	return walker.Walk(p.path, opts)
}

func (p *LocalGitProvider) LocalBranches() ([]string, error) {
	return branchNames(p.repo, false)
}

func (p *LocalGitProvider) RemoteBranches() ([]string, error) {
	return branchNames(p.repo, true)
}

func (p *LocalGitProvider) SwitchBranch(name string) error {
	return switchBranch(p.repo, name)
}

func (p *LocalGitProvider) Flush() error { return nil }

// RemoteGitProvider clones a repository into a temporary directory and
// walks it there; Flush removes the clone (spec §4.H, "RemoteGit.flush
// removes the temporary clone").
type RemoteGitProvider struct {
	path string
	repo *git.Repository
}

// NewRemoteGit clones url into a unique temp directory under the OS
// temp dir, named with a uuid the way oktsec and other corpus CLIs mint
// unique identifiers (replacing the original's random_string::generate).
func NewRemoteGit(url string) (*RemoteGitProvider, error) {
	dir := filepath.Join(os.TempDir(), "vigil", uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrSourceIO, dir, err)
	}

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(dir)
		if isTransportAuthErr(err) {
			return nil, fmt.Errorf("%w: clone %s: authentication required", ErrSourceIO, url)
		}
		return nil, fmt.Errorf("%w: clone %s: %v", ErrSourceIO, url, err)
	}
	return &RemoteGitProvider{path: dir, repo: repo}, nil
}

func (p *RemoteGitProvider) Path() string { return p.path }

func (p *RemoteGitProvider) Walk(opts walker.Options) iter.Seq2[walker.File, error] {
	return walker.Walk(p.path, opts)
}

func (p *RemoteGitProvider) LocalBranches() ([]string, error) {
	return branchNames(p.repo, false)
}

func (p *RemoteGitProvider) RemoteBranches() ([]string, error) {
	return branchNames(p.repo, true)
}

func (p *RemoteGitProvider) SwitchBranch(name string) error {
	return switchBranch(p.repo, name)
}

// Flush removes the temporary clone directory.
func (p *RemoteGitProvider) Flush() error {
	if err := os.RemoveAll(p.path); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrSourceIO, p.path, err)
	}
	return nil
}

func branchNames(repo *git.Repository, remote bool) ([]string, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("%w: list branches: %v", ErrSourceIO, err)
	}
	defer refs.Close()

	var names []string
	prefix := "refs/heads/"
	if remote {
		prefix = "refs/remotes/"
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, prefix) {
			names = append(names, strings.TrimPrefix(name, prefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: iterate branches: %v", ErrSourceIO, err)
	}
	return names, nil
}

func switchBranch(repo *git.Repository, name string) error {
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: worktree: %v", ErrSourceIO, err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		ref, err = repo.Reference(plumbing.NewRemoteReferenceName("origin", name), true)
	}
	if err != nil {
		// Names listed by RemoteBranches already carry the remote prefix
		// ("origin/main").
		ref, err = repo.Reference(plumbing.ReferenceName("refs/remotes/"+name), true)
	}
	if err != nil {
		return fmt.Errorf("%w: resolve branch %q: %v", ErrSourceIO, name, err)
	}

	if err := wt.Checkout(&git.CheckoutOptions{Hash: ref.Hash(), Force: true}); err != nil {
		return fmt.Errorf("%w: checkout %q: %v", ErrSourceIO, name, err)
	}
	return nil
}

// isTransportAuthErr narrows down a common clone failure so the CLI
// can surface a clearer message than go-git's generic error text.
func isTransportAuthErr(err error) bool {
	return err == transport.ErrAuthenticationRequired || err == transport.ErrAuthorizationFailed
}
