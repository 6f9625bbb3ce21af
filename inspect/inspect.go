// Package inspect fans a single document out across every compiled
// rule, owning the document's line index for the duration.
//
// Grounded on original_source's generic_detector::Inspector
// (try_new / inspect).
package inspect

import (
	"github.com/vigilsec/vigil/detect"
	"github.com/vigilsec/vigil/lineindex"
	"github.com/vigilsec/vigil/rules"
)

// Inspector holds a shared, read-only RuleSet. It is a thin,
// cheaply-copyable handle: cloning an Inspector never deep-copies the
// rule set (spec §9, "copy-on-clone is forbidden; clones share").
type Inspector struct {
	rs *rules.RuleSet
}

// New builds an Inspector over rs. rs is never mutated afterward.
func New(rs *rules.RuleSet) *Inspector {
	return &Inspector{rs: rs}
}

// Inspect builds one line index for buf and runs every rule's detector
// against it, forwarding findings to out. The caller fills in
// file/branch/decoder before delivering to the reporter.
func (i *Inspector) Inspect(buf []byte, out chan<- detect.Finding) {
	idx := lineindex.New(buf)
	for _, r := range i.rs.Rules {
		detect.Scan(r, buf, idx, out)
	}
}

// NumRules reports how many rules this inspector runs per document.
func (i *Inspector) NumRules() int {
	return len(i.rs.Rules)
}
