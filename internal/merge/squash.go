package merge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/toolprint/vibews/internal/git"
)

// SquashWindow widens the span of branch commit times when looking for
// main-branch commits that could be the squashed result.
const SquashWindow = time.Hour

var issueNumber = regexp.MustCompile(`(\d+)\D*$`)

// Squash looks for evidence that the branch landed on main as a single
// squashed commit:
//
//   - no changes between merge-base and branch tip: 0.6
//   - a main commit since the merge-base whose subject names the branch as
//     a whole word: 0.7, heuristic
//   - a main commit referencing the branch's trailing number as #n: 0.7, heuristic
//   - the branch's files carry the same content on main: as [FileContent]
//   - a main commit touching the same files within SquashWindow of the
//     branch's commits: 0.5, heuristic
//
// Commit messages are free text, so a message match alone never
// corroborates a merge.
type Squash struct{}

func (Squash) Name() string { return MethodSquash }

func (Squash) Detect(ctx context.Context, t Target) (StrategyResult, error) {
	if t.Main == "" {
		return StrategyResult{}, errors.New("no main branch found")
	}

	base, err := git.MergeBase(ctx, t.Path, t.Main, t.Branch)
	if err != nil {
		return StrategyResult{Details: "Cannot find merge base"}, nil
	}

	files, err := git.DiffNames(ctx, t.Path, base, t.Branch)
	if err != nil {
		return StrategyResult{}, err
	}
	if len(files) == 0 {
		return StrategyResult{Merged: true, Confidence: 0.6, Details: "no unique changes"}, nil
	}

	mainRange := base + ".." + t.Main

	byName, err := git.Log(ctx, t.Path, 0, "--fixed-strings", "--grep", t.Branch, mainRange)
	if err != nil {
		return StrategyResult{}, err
	}
	byName = slices.DeleteFunc(byName, func(c git.Commit) bool { return !namesBranch(c.Subject, t.Branch) })
	if len(byName) > 0 {
		return StrategyResult{
			Merged:     true,
			Confidence: 0.7,
			Heuristic:  true,
			Details:    fmt.Sprintf("found %d potential squash commits (%s)", len(byName), byName[0].ShortHash()),
		}, nil
	}

	if m := issueNumber.FindStringSubmatch(t.Branch); m != nil {
		ref := "#" + m[1]
		byRef, err := git.Log(ctx, t.Path, 0, "--fixed-strings", "--grep", ref, mainRange)
		if err != nil {
			return StrategyResult{}, err
		}
		if len(byRef) > 0 {
			return StrategyResult{
				Merged:     true,
				Confidence: 0.7,
				Heuristic:  true,
				Details:    fmt.Sprintf("main commit %s references %s", byRef[0].ShortHash(), ref),
			}, nil
		}
	}

	content, err := FileContent{}.Detect(ctx, t)
	if err != nil {
		return StrategyResult{}, err
	}
	if content.Merged {
		return content, nil
	}

	branchCommits, err := git.Log(ctx, t.Path, 0, base+".."+t.Branch)
	if err != nil {
		return StrategyResult{}, err
	}
	if len(branchCommits) > 0 {
		earliest, latest := branchCommits[0].Time, branchCommits[0].Time
		for _, c := range branchCommits[1:] {
			if c.Time.Before(earliest) {
				earliest = c.Time
			}
			if c.Time.After(latest) {
				latest = c.Time
			}
		}
		args := []string{
			fmt.Sprintf("--since=@%d", earliest.Add(-SquashWindow).Unix()),
			fmt.Sprintf("--until=@%d", latest.Add(SquashWindow).Unix()),
			mainRange, "--",
		}
		args = append(args, files...)
		nearby, err := git.Log(ctx, t.Path, 0, args...)
		if err != nil {
			return StrategyResult{}, err
		}
		if len(nearby) > 0 {
			return StrategyResult{
				Merged:     true,
				Confidence: 0.5,
				Heuristic:  true,
				Details:    "commits with similar timing found",
			}, nil
		}
	}

	content.Details = "no squash evidence, " + content.Details
	return content, nil
}

// namesBranch reports whether subject mentions branch as a whole word:
// the characters around it cannot continue a branch name. A trailing '.'
// ends a sentence unless more name characters follow it.
func namesBranch(subject, branch string) bool {
	if branch == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(subject[from:], branch)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(branch)
		if !continuesName(subject[:start], true) && !continuesName(subject[end:], false) {
			return true
		}
		from = start + 1
	}
}

// continuesName reports whether the text next to a match extends the name.
// before selects the side: the last rune of s, else the first.
func continuesName(s string, before bool) bool {
	if s == "" {
		return false
	}
	if before {
		r, _ := utf8.DecodeLastRuneInString(s)
		return isNameRune(r) || r == '.'
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == '.' {
		next, _ := utf8.DecodeRuneInString(s[size:])
		return size < len(s) && isNameRune(next)
	}
	return isNameRune(r)
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_/+", r)
}
