// Package detect implements the per-rule, per-document detection
// algorithm: Aho-Corasick anchor search plus regex capture, standalone
// whole-document regex capture, and keys_required-gated grouping.
//
// Grounded line-for-line on original_source's
// generic_detector::Detection::detect / Detection::collect.
package detect

import (
	"sort"

	"github.com/vigilsec/vigil/lineindex"
	"github.com/vigilsec/vigil/rules"
)

// Finding is one emitted, multi-field detection record (spec §3,
// "Finding (Secret)"). Decoder/branch/file/author are filled in by the
// caller (inspect/executor); detect only knows the rule name, the raw
// key/value summary, and the line.
type Finding struct {
	RuleName string
	Raw      string // "k1: v1, k2: v2, ..." in group order
	Line     int
}

// position is a (start,end) byte range, ordered by start then end
// (spec §3, "Match position").
type position struct{ start, end int }

func (p position) less(o position) bool {
	if p.start != o.start {
		return p.start < o.start
	}
	return p.end < o.end
}

// item is a (key, value) match item (spec §3, "Match item").
type item struct {
	key   string
	value string
}

// secretKey is the synthetic anchor name standalone regex matches are
// recorded under (spec §3, §9 open question 3 — documented, not
// namespaced).
const secretKey = "secret"

// Scan runs rule r's detector over buf, using idx for line resolution,
// and sends every emitted Finding to out. Each send is a plain channel
// send, so Scan blocks until the receiver takes the Finding (or buffer
// space is free); the caller drains out concurrently or gives it
// enough buffer.
func Scan(r *rules.Rule, buf []byte, idx *lineindex.Index, out chan<- Finding) {
	found := make(map[position]item)

	// Anchor pass.
	for _, group := range r.AnchorGroups {
		iter := group.Matcher.IterOverlappingByte(buf)
		for {
			m := iter.Next()
			if m == nil {
				break
			}
			as, ae := m.Start(), m.End()
			anchorName := string(buf[as:ae])
			for _, re := range group.Secrets {
				loc := re.FindIndex(buf[ae:])
				if loc == nil {
					continue
				}
				pos := position{ae + loc[0], ae + loc[1]}
				if _, exists := found[pos]; exists {
					break
				}
				found[pos] = item{key: anchorName, value: string(buf[pos.start:pos.end])}
				break
			}
		}
	}

	// Standalone pass: never overwrites an anchor-derived entry at the
	// same position.
	for _, re := range r.SecretRegexes {
		loc := re.FindIndex(buf)
		if loc == nil {
			continue
		}
		pos := position{loc[0], loc[1]}
		if _, exists := found[pos]; exists {
			continue
		}
		found[pos] = item{key: secretKey, value: string(buf[pos.start:pos.end])}
	}

	if len(found) == 0 {
		return
	}

	// Collect & gate.
	positions := make([]position, 0, len(found))
	for p := range found {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].less(positions[j]) })

	var (
		groupStart int
		raw        []item
		keysSeen   map[string]struct{}
	)
	resetGroup := func(p position, it item) {
		groupStart = p.start
		raw = []item{it}
		keysSeen = map[string]struct{}{it.key: {}}
	}
	emit := func() {
		if !r.Satisfies(keysSeen) {
			return
		}
		line, ok := idx.LineOf(groupStart)
		if !ok {
			return
		}
		out <- Finding{RuleName: r.Name, Raw: stringify(raw), Line: line}
	}

	for _, p := range positions {
		it := found[p]
		if keysSeen == nil {
			resetGroup(p, it)
			continue
		}
		if _, seen := keysSeen[it.key]; seen {
			emit()
			resetGroup(p, it)
			continue
		}
		raw = append(raw, it)
		keysSeen[it.key] = struct{}{}
	}
	if keysSeen != nil {
		emit()
	}
}

func stringify(items []item) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += it.key + ": " + it.value
	}
	return s
}
