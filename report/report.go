// Package report consumes the executor's multiplexed signal stream
// (findings, byte counters, rule count), applies the configured dedup
// policy, and renders text/JSON/YAML output with aggregate statistics.
//
// Grounded on original_source's reporter::mod.rs (Scribe, Input,
// hasher_level_file/branch, bytes_human_readable,
// formatted_analitics_to_output). Text framing upgraded from the
// original's hand-rolled "{:^59}" padding to lipgloss borders, per
// this repo's domain-stack wiring (see DESIGN.md).
package report

import (
	"fmt"
	"io"
	"time"
)

// Kind discriminates Input's payload, standing in for the original's
// tagged Input enum (Finding/Bytes/Detectors) plus an end-of-stream
// sentinel, since Go has no sum type.
type Kind int

const (
	KindFinding Kind = iota
	KindBytes
	KindDetectors
	KindSentinel
)

// Input is one item on the reporter's channel.
type Input struct {
	Kind    Kind
	Finding *Finding
	Count   int // bytes (KindBytes) or rule count (KindDetectors)
}

// Finding is a fully-resolved, reporter-ready detection record
// (spec §3, "Finding (Secret)").
type Finding struct {
	RuleName string
	Raw      string
	Branch   string
	File     string
	Line     int
	Author   string // optional; empty when unknown
}

// DetectorType and DecoderType mirror the JSON finding envelope's
// nested shape (spec §6).
type DetectorType struct {
	Configured string `json:"Configured" yaml:"Configured"`
}

// Envelope is the wire shape of one finding, exactly spec §6's
// "Finding envelope".
type Envelope struct {
	DetectorType DetectorType `json:"detector_type" yaml:"detector_type"`
	DecoderType  string       `json:"decoder_type" yaml:"decoder_type"`
	RawResult    string       `json:"raw_result" yaml:"raw_result"`
	Branch       string       `json:"branch" yaml:"branch"`
	File         string       `json:"file" yaml:"file"`
	Line         int          `json:"line" yaml:"line"`
	Author       *string      `json:"author" yaml:"author"`
}

// Format selects the reporter's rendering.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// Dedup policies (spec §4.G).
const (
	DedupNone        = 0
	DedupByBranch    = 1
	DedupByFileLine  = 2 // and any value >= 2
)

// bufferCapacity bounds the reporter's internal text-mode buffer
// before it flushes to the sink (spec §4.G, "~1 MiB").
const bufferCapacity = 1 << 20

// Reporter is single-threaded: it owns no locks because exactly one
// goroutine ever calls Run.
type Reporter struct {
	sink   io.Writer
	format Format
	dedup  int

	seen map[string]struct{}

	filesCount      int
	bytesCount      int
	secretCount     int
	detectorsTotal  int
	perDetector     map[string]int
	perDecoder      map[string]int
	perBranch       map[string]int
	envelopes       []Envelope
	buf             []byte
	start           time.Time
	started         bool
}

// New builds a Reporter writing to sink.
func New(sink io.Writer, format Format, dedup int) *Reporter {
	var seen map[string]struct{}
	if dedup > DedupNone {
		seen = make(map[string]struct{})
	}
	return &Reporter{
		sink:        sink,
		format:      format,
		dedup:       dedup,
		seen:        seen,
		perDetector: make(map[string]int),
		perDecoder:  make(map[string]int),
		perBranch:   make(map[string]int),
	}
}

// Run drains in until the KindSentinel value, then writes the closing
// statistics block (and, for JSON/YAML, the whole output). JSON and YAML
// output is a single document holding a findings array, a statistics
// object and a duration object; findings are not written one object at
// a time as they arrive.
func (r *Reporter) Run(in <-chan Input) {
	if r.format == FormatText {
		r.writeln(reportHeader)
	}

loop:
	for item := range in {
		if !r.started {
			r.start = now()
			r.started = true
		}
		switch item.Kind {
		case KindSentinel:
			break loop
		case KindBytes:
			r.updateBytesScanned(item.Count)
		case KindDetectors:
			r.detectorsTotal = item.Count
		case KindFinding:
			r.receiveFinding(item.Finding)
		}
	}

	switch r.format {
	case FormatText:
		r.writeln(reportFooter)
		r.writeln("")
		r.writeStatisticsText()
		r.flush()
	case FormatJSON:
		r.writeJSON()
	case FormatYAML:
		r.writeYAML()
	}
}

func (r *Reporter) receiveFinding(f *Finding) {
	if r.isDuplicate(f) {
		return
	}
	r.secretCount++
	r.perDetector[f.RuleName]++
	r.perDecoder["Plane"]++
	r.perBranch[f.Branch]++

	env := toEnvelope(f)
	switch r.format {
	case FormatText:
		r.writeln(formatFindingText(f))
		if len(r.buf) > bufferCapacity-1024 {
			r.flush()
		}
	default:
		r.envelopes = append(r.envelopes, env)
	}
}

func (r *Reporter) isDuplicate(f *Finding) bool {
	if r.seen == nil {
		return false
	}
	key := dedupKey(f, r.dedup)
	if _, ok := r.seen[key]; ok {
		return true
	}
	r.seen[key] = struct{}{}
	return false
}

// dedupKey implements spec §4.G's dedup policies, grounded on
// hasher_level_file/hasher_level_branch.
func dedupKey(f *Finding, dedup int) string {
	if dedup == DedupByBranch {
		return fmt.Sprintf("%s:%d:%s", f.File, f.Line, f.Branch)
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// updateBytesScanned counts bytes as bytes. The original's
// update_files_scanned multiplies by 8 before unit conversion; per
// spec §9's open-question resolution that multiplication is NOT
// reproduced here.
func (r *Reporter) updateBytesScanned(n int) {
	r.filesCount++
	r.bytesCount += n
}

func toEnvelope(f *Finding) Envelope {
	var author *string
	if f.Author != "" {
		author = &f.Author
	}
	return Envelope{
		DetectorType: DetectorType{Configured: f.RuleName},
		DecoderType:  "Plane",
		RawResult:    f.Raw,
		Branch:       f.Branch,
		File:         f.File,
		Line:         f.Line,
		Author:       author,
	}
}

func (r *Reporter) writeln(s string) {
	r.buf = append(r.buf, s...)
	r.buf = append(r.buf, '\n')
}

func (r *Reporter) flush() {
	if len(r.buf) == 0 {
		return
	}
	_, _ = r.sink.Write(r.buf)
	r.buf = r.buf[:0]
}

// now is a seam so tests can stub the clock; production always uses
// wall-clock time.
var now = time.Now
