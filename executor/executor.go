// Package executor orchestrates the source provider, worker pool, and
// inspector: it drives branch iteration, fans files out across
// goroutines, and emits byte-count/finding/detector-count signals to
// the reporter.
//
// Grounded on original_source's executor::mod.rs (Executor::execute,
// WaitGroup fan-out, sentinel termination), translated into Go's
// native goroutine/channel idiom in place of the original's
// crossbeam/threadpool (see DESIGN.md, "standard-library
// justifications" — no pack example reaches for a pooling library for
// CPU-bound fan-out).
package executor

import (
	"runtime"
	"sync"

	"github.com/vigilsec/vigil/config"
	"github.com/vigilsec/vigil/detect"
	"github.com/vigilsec/vigil/inspect"
	"github.com/vigilsec/vigil/report"
	"github.com/vigilsec/vigil/source"
	"github.com/vigilsec/vigil/walker"
)

// Executor ties a source Provider to an Inspector and a Reporter input
// channel.
type Executor struct {
	src       source.Provider
	inspector *inspect.Inspector
	opts      walker.Options
	branches  config.Branches
	allowlist map[string]struct{}
	workers   int
}

// New builds an Executor. workers <= 0 defaults to runtime.NumCPU().
func New(src source.Provider, insp *inspect.Inspector, opts walker.Options, branches config.Branches, branchFilter []string, workers int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var allow map[string]struct{}
	if len(branchFilter) > 0 {
		allow = make(map[string]struct{}, len(branchFilter))
		for _, b := range branchFilter {
			allow[b] = struct{}{}
		}
	}
	return &Executor{src: src, inspector: insp, opts: opts, branches: branches, allowlist: allow, workers: workers}
}

// Run drives every selected branch to completion, sending
// report.Input values to sink, then sends the terminating sentinel and
// flushes the source (spec §4.F).
func (e *Executor) Run(sink chan<- report.Input) error {
	sink <- report.Input{Kind: report.KindDetectors, Count: e.inspector.NumRules()}

	labels, err := e.selectBranches()
	if err != nil {
		sink <- report.Input{Kind: report.KindSentinel}
		_ = e.src.Flush()
		return err
	}

	for _, label := range labels {
		if label != source.HeadLabel {
			if err := e.src.SwitchBranch(label); err != nil {
				// Branch-switch failure skips that branch; other
				// branches are unaffected (spec §4.F failure semantics).
				continue
			}
		}
		e.runOneBranch(label, sink)
	}

	sink <- report.Input{Kind: report.KindSentinel}

	if err := e.src.Flush(); err != nil {
		// Flush failure is logged by the caller, not fatal to
		// already-emitted findings (spec §4.F).
		return err
	}
	return nil
}

// runOneBranch streams the branch's files through the worker pool and
// waits for every file to finish before returning — branch switches are
// a barrier (spec §9, "per-branch scan").
func (e *Executor) runOneBranch(label string, sink chan<- report.Input) {
	files := make(chan walker.File)

	go func() {
		defer close(files)
		for f, err := range e.src.Walk(e.opts) {
			if err != nil {
				continue // file-open/decode failure dropped, walk continues
			}
			files <- f
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range files {
				sink <- report.Input{Kind: report.KindBytes, Count: len(f.Bytes)}
				e.inspectFile(f, label, sink)
			}
		}()
	}
	wg.Wait()
}

// inspectFile runs the inspector over one file's bytes, draining its
// findings channel concurrently (inspect.Inspect's sends are
// synchronous with detect.Scan, so a reader must run alongside it) and
// forwarding each finding, tagged with file and branch, to sink.
func (e *Executor) inspectFile(f walker.File, branch string, sink chan<- report.Input) {
	findings := make(chan detect.Finding)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for finding := range findings {
			sink <- report.Input{
				Kind: report.KindFinding,
				Finding: &report.Finding{
					RuleName: finding.RuleName,
					Raw:      finding.Raw,
					Line:     finding.Line,
					Branch:   branch,
					File:     f.Label,
				},
			}
		}
	}()

	e.inspector.Inspect(f.Bytes, findings)
	close(findings)
	<-done
}

func (e *Executor) selectBranches() ([]string, error) {
	switch e.branches {
	case config.Head:
		return []string{source.HeadLabel}, nil
	case config.Local:
		return e.filteredBranches(e.src.LocalBranches)
	case config.Remote:
		return e.filteredBranches(e.src.RemoteBranches)
	case config.All:
		local, err := e.filteredBranches(e.src.LocalBranches)
		if err != nil {
			return nil, err
		}
		remote, err := e.filteredBranches(e.src.RemoteBranches)
		if err != nil {
			return nil, err
		}
		return append(local, remote...), nil
	default:
		return []string{source.HeadLabel}, nil
	}
}

func (e *Executor) filteredBranches(list func() ([]string, error)) ([]string, error) {
	names, err := list()
	if err != nil {
		return nil, err
	}
	if e.allowlist == nil {
		return names, nil
	}
	var out []string
	for _, n := range names {
		if _, ok := e.allowlist[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}
