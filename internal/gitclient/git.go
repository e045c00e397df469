// Package gitclient has the git client.
package gitclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/huangsam/codearchitect/internal/contract"
)

// ErrEmptyRepository is returned when the remote advertises no references.
var ErrEmptyRepository = errors.New("remote repository is empty")

// RemoteLister returns the references advertised by a remote.
type RemoteLister func(ctx context.Context, repoURL string) ([]*plumbing.Reference, error)

// Client checks remote repositories without cloning them.
type Client struct {
	list RemoteLister
}

var _ contract.BranchVerifier = &Client{} // Compile-time check

// NewClient returns a client that talks to remotes through go-git.
func NewClient() *Client {
	return &Client{list: listRemote}
}

// NewClientWithLister returns a client backed by a custom lister.
func NewClientWithLister(list RemoteLister) *Client {
	return &Client{list: list}
}

// BranchExists reports whether the remote at repoURL has the given branch.
func (c *Client) BranchExists(ctx context.Context, repoURL, branch string) (bool, error) {
	refs, err := c.list(ctx, repoURL)
	if err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return false, ErrEmptyRepository
		}
		return false, fmt.Errorf("failed to list remote %s: %w", repoURL, err)
	}
	return HasBranch(refs, branch), nil
}

// HasBranch reports whether refs contain refs/heads/<branch>.
func HasBranch(refs []*plumbing.Reference, branch string) bool {
	want := plumbing.NewBranchReferenceName(branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return true
		}
	}
	return false
}

func listRemote(ctx context.Context, repoURL string) ([]*plumbing.Reference, error) {
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})
	return remote.ListContext(ctx, &git.ListOptions{})
}
