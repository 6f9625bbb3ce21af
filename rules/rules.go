// Package rules compiles declarative YAML rule schemas into an
// immutable, concurrently-shareable representation ready for scanning.
//
// Grounded on the teacher's scanner.Compile (Aho-Corasick pattern
// compile + regex list) and the original generic_detector::Builder /
// TryFrom<&Schema> for Scan.
package rules

import (
	"errors"
	"fmt"

	regexp "github.com/wasilibs/go-re2"
	"github.com/wasilibs/go-re2/experimental"

	"github.com/vigilsec/vigil/ahocorasick"
	"github.com/vigilsec/vigil/config"
)

// ErrCompileRule marks a fatal per-rule compilation error (bad regex or
// automaton build). The caller decides whether to abort the whole
// compile or skip the offending rule.
var ErrCompileRule = errors.New("compile rule")

// AnchorGroup is one compiled "keys_with_secrets" entry: an
// Aho-Corasick automaton over the group's anchor keywords plus the
// ordered regex list tried against the text following a matched anchor.
type AnchorGroup struct {
	Keys    []string // pattern index -> anchor literal, mirrors the automaton's pattern indices
	Matcher ahocorasick.AhoCorasick
	Secrets []*regexp.Regexp
}

// Rule is one compiled rule: a name, optional whole-document regexes,
// optional anchor groups, and an optional required-key set.
type Rule struct {
	Name          string
	SecretRegexes []*regexp.Regexp
	AnchorGroups  []AnchorGroup
	KeysRequired  map[string]struct{}
}

// RuleSet is the immutable, shared collection of compiled rules. Once
// built it is never mutated; it is safe to share by pointer across
// worker goroutines (spec invariant 1).
type RuleSet struct {
	Rules []*Rule
}

// Compile turns a list of rule schemas into a RuleSet. A malformed
// regex or automaton build in one rule does not stop the others from
// compiling: all per-rule errors are joined and returned together,
// alongside whatever rules did compile successfully, so the caller can
// decide to abort or proceed with the rest (spec §4.A, §7).
func Compile(schemas []config.RuleSchema) (*RuleSet, error) {
	rs := &RuleSet{Rules: make([]*Rule, 0, len(schemas))}

	var errs []error
	for _, s := range schemas {
		r, err := compileRule(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rs.Rules = append(rs.Rules, r)
	}

	if len(errs) > 0 {
		return rs, fmt.Errorf("%w: %w", ErrCompileRule, errors.Join(errs...))
	}
	return rs, nil
}

func compileRule(s config.RuleSchema) (*Rule, error) {
	r := &Rule{Name: s.Name}

	for _, pat := range s.SecretRegexes {
		re, err := experimental.CompileLatin1(pat)
		if err != nil {
			return nil, fmt.Errorf("rule %q: secret_regexes %q: %w", s.Name, pat, err)
		}
		r.SecretRegexes = append(r.SecretRegexes, re)
	}

	for gi, g := range s.KeysWithSecrets {
		if len(g.Keys) == 0 || len(g.Secrets) == 0 {
			// Empty keys or secrets in a group is not a hard error; the
			// group is simply skipped (spec §4.A).
			continue
		}

		ag := AnchorGroup{Keys: append([]string(nil), g.Keys...)}

		patterns := make([][]byte, len(g.Keys))
		for i, k := range g.Keys {
			patterns[i] = []byte(k)
		}
		builder := ahocorasick.NewAhoCorasickBuilder()
		ag.Matcher = builder.BuildByte(patterns)

		for _, pat := range g.Secrets {
			re, err := experimental.CompileLatin1(pat)
			if err != nil {
				return nil, fmt.Errorf("rule %q: keys_with_secrets[%d].secrets %q: %w", s.Name, gi, pat, err)
			}
			ag.Secrets = append(ag.Secrets, re)
		}

		r.AnchorGroups = append(r.AnchorGroups, ag)
	}

	if len(s.KeysRequired) > 0 {
		r.KeysRequired = make(map[string]struct{}, len(s.KeysRequired))
		for _, k := range s.KeysRequired {
			r.KeysRequired[k] = struct{}{}
		}
	}

	return r, nil
}

// Satisfies reports whether keysSeen covers every key in KeysRequired.
// A rule with an empty KeysRequired is always satisfied (spec §4.C).
func (r *Rule) Satisfies(keysSeen map[string]struct{}) bool {
	for k := range r.KeysRequired {
		if _, ok := keysSeen[k]; !ok {
			return false
		}
	}
	return true
}
