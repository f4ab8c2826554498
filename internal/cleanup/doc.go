// Package cleanup removes worktrees that are safe to remove.
//
// [Orchestrator.Run] lists the worktrees of a repository, computes status
// (and merge verdicts, when the tracker has a detector) for all of them in
// parallel, then walks them in list order:
//
//  1. the main checkout and worktrees outside Options.BranchPrefix are skipped
//  2. safety checks produce [Violation] values; any Critical one skips the
//     worktree, any Warning one skips it unless Options.Force is set
//  3. without AutoConfirm or DryRun, Options.Confirm is asked
//  4. a dry run reports the worktree as cleaned and touches nothing
//  5. otherwise the [Strategy] runs: discard, merge_to_feature,
//     backup_to_origin or stash_and_discard
//
// Every worktree gets exactly one [Result] in the [Report], and every
// skipped or failed result says why. A merge-forward that conflicts is
// aborted and reported as Failed with an *errs.ConflictError; the worktree
// and its branch are left as they were.
//
// Under MergedOnly, a verdict backed only by heuristic squash evidence
// (timing or issue-number correlation) is a Critical violation for
// auto-confirmed runs, so it can only ever lead to removal after a human
// confirmed it.
package cleanup
