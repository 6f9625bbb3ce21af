package report

import (
	"encoding/json"
	"time"
)

// statistics mirrors the text reporter's aggregate block, for
// JSON/YAML output (spec §6, "statistics and duration objects").
type statistics struct {
	DetectorsUsed     int                `json:"detectors_used" yaml:"detectors_used"`
	TotalFound        int                `json:"total_found" yaml:"total_found"`
	ScannedFiles      int                `json:"scanned_files" yaml:"scanned_files"`
	LeakedPerFile     float64            `json:"leaked_secrets_per_file" yaml:"leaked_secrets_per_file"`
	BytesScanned      float64            `json:"bytes_scanned" yaml:"bytes_scanned"`
	BytesScannedUnit  string             `json:"bytes_scanned_unit" yaml:"bytes_scanned_unit"`
	PerDetector       map[string]int     `json:"per_detector" yaml:"per_detector"`
	PerDecoder        map[string]int     `json:"per_decoder" yaml:"per_decoder"`
	PerBranch         map[string]int     `json:"per_branch" yaml:"per_branch"`
}

type duration struct {
	Milliseconds int64 `json:"milliseconds" yaml:"milliseconds"`
}

type document struct {
	Findings   []Envelope `json:"findings" yaml:"findings"`
	Statistics statistics `json:"statistics" yaml:"statistics"`
	Duration   duration   `json:"duration" yaml:"duration"`
}

func (r *Reporter) buildDocument() document {
	ratio := 0.0
	if r.secretCount > 0 && r.filesCount > 0 {
		ratio = float64(r.secretCount) / float64(r.filesCount)
	}
	amount, unit := bytesHumanReadable(r.bytesCount)

	ms := int64(0)
	if r.started {
		ms = time.Since(r.start).Milliseconds()
	}

	return document{
		Findings: r.envelopes,
		Statistics: statistics{
			DetectorsUsed:    r.detectorsTotal,
			TotalFound:       r.secretCount,
			ScannedFiles:     r.filesCount,
			LeakedPerFile:    ratio,
			BytesScanned:     amount,
			BytesScannedUnit: unit,
			PerDetector:      r.perDetector,
			PerDecoder:       r.perDecoder,
			PerBranch:        r.perBranch,
		},
		Duration: duration{Milliseconds: ms},
	}
}

func (r *Reporter) writeJSON() {
	enc := json.NewEncoder(r.sink)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r.buildDocument())
}
