package stages

import (
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
	"git.home.luguber.info/inful/sitepipe/internal/store"
)

// GitMeta returns a stage that annotates every file's metadata with the
// source repository's HEAD commit: source_commit, source_branch, and
// commit_date. Fields already present are left alone.
//
// The repository is resolved once at construction so the stage itself
// stays a pure IR transform; an unreadable repository is a setup error,
// not a pipeline failure.
func GitMeta(repoPath string) (pipeline.Stage, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD of %s: %w", repoPath, err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD commit %s: %w", ref.Hash(), err)
	}

	hash := ref.Hash().String()
	branch := ""
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	when := commit.Committer.When.UTC().Format(time.RFC3339)

	return func(ir pipeline.IR) pipeline.IR {
		updates := store.New()
		ir.Files.Range(func(path string, f store.File) bool {
			docs := cloneDocs(f.Meta)
			doc := docs[0]
			if _, ok := doc["source_commit"]; !ok {
				doc["source_commit"] = hash
			}
			if branch != "" {
				if _, ok := doc["source_branch"]; !ok {
					doc["source_branch"] = branch
				}
			}
			if _, ok := doc["commit_date"]; !ok {
				doc["commit_date"] = when
			}
			updates = updates.Set(path, withMeta(f, docs))
			return true
		})
		ir.Files = ir.Files.Merge(updates)
		return ir
	}, nil
}
