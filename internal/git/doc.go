// Package git wraps the git CLI for the worktree engine.
//
// Every call shells out through [cmd.OutputContext], so failures carry git's
// own stderr and all ref writes go through git's locking.
//
// # Worktrees
//
//   - [ListWorktrees], [ParseWorktreeList]: porcelain listing
//   - [AddWorktree], [RemoveWorktree], [PruneWorktrees]
//
// # Status
//
//   - [Status], [ParseStatusZ]: porcelain v1 status entries
//   - [Upstream], [AheadBehind]: tracking state
//   - [Log]: commit summaries for ranges and greps
//
// # Branches and merges
//
//   - [BranchExists], [RefExists], [DeleteLocalBranch]
//   - [MergedBranches], [MergeBase], [DiffNames], [CommitFiles]
//   - [Checkout], [Merge], [ConflictedFiles], [Push], [Stash]
package git
