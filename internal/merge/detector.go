package merge

import (
	"context"
	"fmt"

	"github.com/toolprint/vibews/internal/config"
	"github.com/toolprint/vibews/internal/errs"
	"github.com/toolprint/vibews/internal/git"
	"github.com/toolprint/vibews/internal/log"
)

// Detector runs the configured strategies in order and combines their
// verdicts.
type Detector struct {
	cfg        config.MergeDetectionConfig
	strategies map[string]Strategy
}

// Option configures a Detector.
type Option func(*Detector)

// WithPRLookup enables the github_pr method backed by lookup. Without it,
// or with use_github_cli disabled, the method is skipped.
func WithPRLookup(lookup PRLookup) Option {
	return func(d *Detector) {
		if lookup != nil && d.cfg.UseGitHubCLI {
			d.strategies[MethodHostPR] = &HostPR{Lookup: lookup}
		}
	}
}

// WithStrategy registers s under its name, replacing a built-in strategy
// of the same name.
func WithStrategy(s Strategy) Option {
	return func(d *Detector) {
		d.strategies[s.Name()] = s
	}
}

// NewDetector returns a Detector for cfg with the built-in strategies.
func NewDetector(cfg config.MergeDetectionConfig, opts ...Option) *Detector {
	d := &Detector{
		cfg: cfg,
		strategies: map[string]Strategy{
			MethodStandard:    Standard{},
			MethodSquash:      Squash{},
			MethodFileContent: FileContent{},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MainBranch returns the first configured main branch that resolves in the
// repository at path.
func (d *Detector) MainBranch(ctx context.Context, path string) (string, error) {
	for _, b := range d.cfg.MainBranches {
		if git.RefExists(ctx, path, b) {
			return b, nil
		}
	}
	return "", fmt.Errorf("no main branch found (tried %v)", d.cfg.MainBranches)
}

// Detect reports whether branch, checked out at path, has been merged into
// a main branch. A failing strategy contributes a zero-confidence result
// and never aborts detection.
func (d *Detector) Detect(ctx context.Context, path, branch string) (*Result, error) {
	l := log.FromContext(ctx)

	target := Target{Path: path, Branch: branch, MainBranches: d.cfg.MainBranches}
	if main, err := d.MainBranch(ctx, path); err == nil {
		target.Main = main
	}

	var results []StrategyResult
	for _, method := range d.cfg.Methods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := d.strategies[method]
		if !ok {
			if method != MethodHostPR {
				l.Warnf("unknown merge detection method %q", method)
			}
			continue
		}

		r, err := s.Detect(ctx, target)
		if err != nil {
			l.Debug("merge detection failed", "method", method, "branch", branch, "err", err)
			r = StrategyResult{Error: (&errs.DetectionError{Method: method, Err: err}).Error()}
		}
		r.Method = method
		results = append(results, r)
	}

	res := Combine(results)
	l.Debug("merge detection", "branch", branch, "merged", res.IsMerged, "method", res.Method, "confidence", res.Confidence)
	return res, nil
}
