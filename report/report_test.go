package report

import (
	"bytes"
	"strings"
	"testing"
)

func runReporter(format Format, dedup int, inputs []Input) string {
	var buf bytes.Buffer
	r := New(&buf, format, dedup)
	in := make(chan Input)
	done := make(chan struct{})
	go func() {
		r.Run(in)
		close(done)
	}()
	for _, i := range inputs {
		in <- i
	}
	in <- Input{Kind: KindSentinel}
	close(in)
	<-done
	return buf.String()
}

func TestDedupPolicyByFileLine(t *testing.T) {
	a := &Finding{RuleName: "r", File: "f.go", Line: 10, Branch: "main", Raw: "k: v"}
	b := &Finding{RuleName: "r", File: "f.go", Line: 10, Branch: "dev", Raw: "k: v"}

	out := runReporter(FormatText, DedupByFileLine, []Input{
		{Kind: KindFinding, Finding: a},
		{Kind: KindFinding, Finding: b},
	})

	count := strings.Count(out, "f.go:10")
	if count != 1 {
		t.Fatalf("expected dedup policy 2 to collapse to 1 finding, got %d occurrences:\n%s", count, out)
	}
}

func TestDedupPolicyByBranchKeepsBothBranches(t *testing.T) {
	a := &Finding{RuleName: "r", File: "f.go", Line: 10, Branch: "main", Raw: "k: v"}
	b := &Finding{RuleName: "r", File: "f.go", Line: 10, Branch: "dev", Raw: "k: v"}

	out := runReporter(FormatText, DedupByBranch, []Input{
		{Kind: KindFinding, Finding: a},
		{Kind: KindFinding, Finding: b},
	})

	count := strings.Count(out, "f.go:10")
	if count != 2 {
		t.Fatalf("expected dedup policy 1 to keep both branches, got %d occurrences:\n%s", count, out)
	}
}

func TestBytesCountedNotMultiplied(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatText, DedupNone)
	r.updateBytesScanned(500)

	if r.bytesCount != 500 {
		t.Fatalf("expected byte counter to equal raw bytes (no x8), got %d", r.bytesCount)
	}
}

func TestJSONOutputIncludesEnvelopeFields(t *testing.T) {
	f := &Finding{RuleName: "aws", File: "a.env", Line: 3, Branch: "------ FILE SYSTEM ------", Raw: "k: v"}
	out := runReporter(FormatJSON, DedupNone, []Input{{Kind: KindFinding, Finding: f}})

	for _, want := range []string{`"detector_type"`, `"Configured": "aws"`, `"decoder_type": "Plane"`, `"raw_result": "k: v"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected JSON output to contain %q, got:\n%s", want, out)
		}
	}
}
