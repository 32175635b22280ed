package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

var testSignature = &object.Signature{
	Name:  "Release Bot",
	Email: "release@example.com",
	When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// setupRepos creates a working repository with one commit on main and a
// bare "origin" remote that already has main.
func setupRepos(t *testing.T) (workDir string, origin *git.Repository) {
	t.Helper()
	root := t.TempDir()
	workDir = filepath.Join(root, "work")
	originDir := filepath.Join(root, "origin.git")

	origin, err := git.PlainInit(originDir, true)
	if err != nil {
		t.Fatalf("PlainInit(origin) error = %v", err)
	}

	repo, err := git.PlainInitWithOptions(workDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("PlainInit(work) error = %v", err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{originDir}}); err != nil {
		t.Fatalf("CreateRemote() error = %v", err)
	}

	writeFile(t, filepath.Join(workDir, "changelog.txt"), "# Plugin\n")
	writeFile(t, filepath.Join(workDir, "readme.txt"), "== Changelog ==\n")

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}
	if err := wt.AddGlob("."); err != nil {
		t.Fatalf("AddGlob() error = %v", err)
	}
	if _, err := wt.Commit("Initial", &git.CommitOptions{Author: testSignature}); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := repo.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatalf("initial Push() error = %v", err)
	}
	return workDir, origin
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestGoGit_Release(t *testing.T) {
	workDir, origin := setupRepos(t)
	ctx := context.Background()

	g, err := OpenGoGit(workDir, "origin", nil)
	if err != nil {
		t.Fatalf("OpenGoGit() error = %v", err)
	}
	g.Signature = testSignature

	writeFile(t, filepath.Join(workDir, "changelog.txt"), "# Plugin\n\n## 2.0.0 - 2024-01-01\n* Fix bug\n")
	writeFile(t, filepath.Join(workDir, "readme.txt"), "== Changelog ==\n\n## 2.0.0 - 2024-01-01\n* Fix bug\n")

	if err := g.Commit(ctx, CommitMessage("2.0.0"), filepath.Join(workDir, "changelog.txt"), filepath.Join(workDir, "readme.txt")); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := g.Push(ctx); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if err := g.Tag(ctx, "2.0.0", TagMessage("2.0.0")); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if err := g.PushTag(ctx, "2.0.0"); err != nil {
		t.Fatalf("PushTag() error = %v", err)
	}

	branch, err := origin.Reference(plumbing.NewBranchReferenceName("main"), true)
	if err != nil {
		t.Fatalf("origin main: %v", err)
	}
	commit, err := origin.CommitObject(branch.Hash())
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}
	if commit.Message != "Update changelog for 2.0.0" {
		t.Errorf("pushed commit message = %q", commit.Message)
	}
	stats, err := commit.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Errorf("commit touched %d files, want 2", len(stats))
	}

	tagRef, err := origin.Tag("2.0.0")
	if err != nil {
		t.Fatalf("origin tag 2.0.0: %v", err)
	}
	tag, err := origin.TagObject(tagRef.Hash())
	if err != nil {
		t.Fatalf("tag is not annotated: %v", err)
	}
	if strings.TrimSpace(tag.Message) != "Release 2.0.0" {
		t.Errorf("tag message = %q, want %q", tag.Message, "Release 2.0.0")
	}
	if tag.Target != commit.Hash {
		t.Errorf("tag target = %s, want %s", tag.Target, commit.Hash)
	}
}

func TestGoGit_DuplicateTag(t *testing.T) {
	workDir, _ := setupRepos(t)
	ctx := context.Background()

	g, err := OpenGoGit(workDir, "origin", nil)
	if err != nil {
		t.Fatalf("OpenGoGit() error = %v", err)
	}
	g.Signature = testSignature

	if err := g.Tag(ctx, "1.0.0", TagMessage("1.0.0")); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if err := g.Tag(ctx, "1.0.0", TagMessage("1.0.0")); !errors.Is(err, git.ErrTagExists) {
		t.Errorf("second Tag() error = %v, want ErrTagExists", err)
	}
}

func TestOpenGoGit_NotARepository(t *testing.T) {
	if _, err := OpenGoGit(t.TempDir(), "origin", nil); err == nil {
		t.Error("OpenGoGit() expected error outside a repository, got nil")
	}
}

func TestTokenAuth(t *testing.T) {
	if TokenAuth("github", "") != nil {
		t.Error("TokenAuth() with empty token should be nil")
	}

	gh, ok := TokenAuth("github", "secret").(*githttp.BasicAuth)
	if !ok || gh.Username != "x-access-token" || gh.Password != "secret" {
		t.Errorf("TokenAuth(github) = %#v", gh)
	}
	gl, ok := TokenAuth("gitlab", "secret").(*githttp.BasicAuth)
	if !ok || gl.Username != "oauth2" {
		t.Errorf("TokenAuth(gitlab) = %#v", gl)
	}
}

func TestGoGit_CommitOutsideRepository(t *testing.T) {
	workDir, _ := setupRepos(t)
	g, err := OpenGoGit(workDir, "origin", nil)
	if err != nil {
		t.Fatalf("OpenGoGit() error = %v", err)
	}

	outside := filepath.Join(t.TempDir(), "changelog.txt")
	writeFile(t, outside, "# Elsewhere\n")

	if err := g.Commit(context.Background(), "msg", outside); err == nil {
		t.Error("Commit() expected error for a file outside the repository, got nil")
	}
}
