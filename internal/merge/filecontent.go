package merge

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileContent compares, for every file the branch changed since its
// merge-base, the blob on the branch tip with the blob on the main tip.
// When the branch changed nothing it reports merged at 0.8; otherwise the
// confidence is the matching ratio scaled by 0.7, and merged means more
// than 80% of the files match. Catches rebase and squash merges that
// rewrote history but kept the content.
//
// Objects are read in-process with go-git; no git subprocess runs.
type FileContent struct{}

func (FileContent) Name() string { return MethodFileContent }

func (FileContent) Detect(ctx context.Context, t Target) (StrategyResult, error) {
	if t.Main == "" {
		return StrategyResult{}, errors.New("no main branch found")
	}

	repo, err := gogit.PlainOpenWithOptions(t.Path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return StrategyResult{}, fmt.Errorf("open repository: %w", err)
	}

	mainTip, err := resolveCommit(repo, t.Main)
	if err != nil {
		return StrategyResult{}, err
	}
	branchTip, err := resolveCommit(repo, t.Branch)
	if err != nil {
		return StrategyResult{}, err
	}

	bases, err := mainTip.MergeBase(branchTip)
	if err != nil {
		return StrategyResult{}, fmt.Errorf("merge base: %w", err)
	}
	if len(bases) == 0 {
		return StrategyResult{Details: "Cannot find merge base"}, nil
	}

	baseTree, err := bases[0].Tree()
	if err != nil {
		return StrategyResult{}, err
	}
	branchTree, err := branchTip.Tree()
	if err != nil {
		return StrategyResult{}, err
	}
	mainTree, err := mainTip.Tree()
	if err != nil {
		return StrategyResult{}, err
	}

	changes, err := object.DiffTree(baseTree, branchTree)
	if err != nil {
		return StrategyResult{}, fmt.Errorf("diff merge base: %w", err)
	}
	if len(changes) == 0 {
		return StrategyResult{Merged: true, Confidence: 0.8, Details: "no file changes"}, nil
	}

	matching := 0
	for _, ch := range changes {
		if err := ctx.Err(); err != nil {
			return StrategyResult{}, err
		}
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		same, err := sameBlob(mainTree, branchTree, name)
		if err != nil {
			return StrategyResult{}, err
		}
		if same {
			matching++
		}
	}

	ratio := float64(matching) / float64(len(changes))
	res := StrategyResult{
		Merged:     ratio > 0.8,
		Confidence: ratio * 0.7,
	}
	if res.Merged {
		res.Details = fmt.Sprintf("file contents match (%d/%d)", matching, len(changes))
	} else {
		res.Details = fmt.Sprintf("partial file match (%d/%d)", matching, len(changes))
	}
	return res, nil
}

func resolveCommit(repo *gogit.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", rev, err)
	}
	return commit, nil
}

// sameBlob reports whether path has identical content in both trees. A path
// missing from both counts as identical (deleted on both sides).
func sameBlob(a, b *object.Tree, path string) (bool, error) {
	ea, errA := findEntry(a, path)
	eb, errB := findEntry(b, path)
	if errA != nil {
		return false, errA
	}
	if errB != nil {
		return false, errB
	}
	if ea == nil || eb == nil {
		return ea == nil && eb == nil, nil
	}
	return ea.Hash == eb.Hash, nil
}

func findEntry(tree *object.Tree, path string) (*object.TreeEntry, error) {
	e, err := tree.FindEntry(path)
	if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
		return nil, nil
	}
	return e, err
}
