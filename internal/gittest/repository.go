// Package gittest provides local git fixtures for exercising the release
// workflow against real repositories: a working tree seeded with an Arduino
// library layout and bare repositories standing in for the upstream and
// origin remotes.
package gittest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultProperties is the library.properties content fixtures start from.
const DefaultProperties = `name=Basicmicro
version=1.2.3
author=BasicMicro
maintainer=BasicMicro
sentence=Arduino library for BasicMicro motion controllers.
paragraph=Supports packet serial communication.
category=Device Control
url=https://github.com/basicmicrosupport/basicmicro_arduino
architectures=*
`

// LibraryRepository is a non-bare repository on the main branch with one
// committed library.properties file.
type LibraryRepository struct {
	Directory  string
	Repository *git.Repository
	Worktree   *git.Worktree
}

// SetupLibraryRepository initializes a repository in dir with committed
// Arduino library content. The repository has user identity configured so
// the real git CLI can commit in it.
func SetupLibraryRepository(dir string) (*LibraryRepository, error) {
	repository, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
	})
	if err != nil {
		return nil, err
	}

	cfg, err := repository.Config()
	if err != nil {
		return nil, err
	}
	cfg.User.Name = "Release Test"
	cfg.User.Email = "release@test.invalid"
	if err := repository.SetConfig(cfg); err != nil {
		return nil, err
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return nil, err
	}

	local := &LibraryRepository{
		Directory:  dir,
		Repository: repository,
		Worktree:   worktree,
	}
	if err := local.WriteFile("library.properties", DefaultProperties); err != nil {
		return nil, err
	}
	if _, err := local.CommitFile("library.properties", "initial library"); err != nil {
		return nil, err
	}
	return local, nil
}

func (r *LibraryRepository) WriteFile(name, content string) error {
	return os.WriteFile(filepath.Join(r.Directory, name), []byte(content), 0644)
}

func (r *LibraryRepository) CommitFile(file, message string) (string, error) {
	if _, err := r.Worktree.Add(file); err != nil {
		return "", err
	}
	hash, err := r.Worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Release Test",
			Email: "release@test.invalid",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// Head returns the current head commit hash of the working tree.
func (r *LibraryRepository) Head() (string, error) {
	ref, err := r.Repository.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// SetupBareRemote initializes a bare repository in dir suitable as a push
// target. Its path doubles as the remote URL.
func SetupBareRemote(dir string) error {
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		Bare: true,
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.Main,
		},
	})
	return err
}

// BranchHead returns the commit hash a branch points at in the repository at
// dir, or an empty string when the branch does not exist.
func BranchHead(dir, branch string) (string, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return "", err
	}
	ref, err := repository.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err == plumbing.ErrReferenceNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}
