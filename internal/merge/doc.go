// Package merge decides whether a branch has been merged into a main branch.
//
// No single git query answers that question once squash and rebase merges
// are in play, so a [Detector] runs several independent [Strategy]
// implementations in the order configured under merge_detection.methods:
//
//	standard      git branch --merged <main>                 0.95 / 0.8
//	squash        empty diff, commit-message and timing      0.5 - 0.7
//	github_pr     merged PR on the hosting service (gh/glab)  0.9
//	file_content  blob-for-blob comparison via go-git        ratio x 0.7
//
// [Combine] selects the highest-confidence positive verdict if any strategy
// found the branch merged, else the highest-confidence negative; ties go to
// the earlier strategy. A strategy that errors contributes a
// zero-confidence result carrying the error text and never stops the
// others.
//
// Squash results built from commit messages (branch name, issue number) or
// timing correlation are flagged Heuristic. [Result.Corroborated] tells callers whether any direct evidence
// backs a positive verdict.
package merge
