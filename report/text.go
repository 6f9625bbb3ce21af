package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	reportHeader = "[ SCANNING REPORT ]"
	reportFooter = "[ --------------- ]"
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	tableStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).Padding(0, 1)
)

func formatFindingText(f *Finding) string {
	return fmt.Sprintf("%s  %s:%d  [%s]  %s", bannerStyle.Render(f.RuleName), f.File, f.Line, f.Branch, f.Raw)
}

func (r *Reporter) writeStatisticsText() {
	r.writeCountTable("FOUND SECRETS PER DECODER", "Decoder Type", r.perDecoder)
	r.writeCountTable("FOUND SECRETS PER DETECTOR", "Detector Type", r.perDetector)
	r.writeCountTable("FOUND SECRETS PER BRANCH", "Branch Name", r.perBranch)

	r.writeln(sectionStyle.Render("SCAN STATISTICS"))
	r.writeStat("Number of detectors used in scanning", r.detectorsTotal)
	r.writeStat("Total found secrets", r.secretCount)
	r.writeStat("Scanned files", r.filesCount)

	ratio := 0.0
	if r.secretCount > 0 && r.filesCount > 0 {
		ratio = float64(r.secretCount) / float64(r.filesCount)
	}
	r.writeln(fmt.Sprintf("| %-46s | %8.4f |", "Leaked secrets per file", ratio))

	amount, unit := bytesHumanReadable(r.bytesCount)
	r.writeln(fmt.Sprintf("| %-46s | %8.3f |", unit, amount))

	if r.started {
		r.writeln(fmt.Sprintf("Processing data took %d milliseconds.", time.Since(r.start).Milliseconds()))
	}
}

func (r *Reporter) writeCountTable(title, columnTitle string, counts map[string]int) {
	r.writeln(sectionStyle.Render(title))
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprintf("%d", counts[k])})
	}
	r.writeln(tableStyle.Render(strings.Join([]string{
		fmt.Sprintf("%-46s | %8s", columnTitle, "Found"),
		renderRows(rows),
	}, "\n")))
}

func renderRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf("%-46s | %8s", row[0], row[1])
	}
	return strings.Join(lines, "\n")
}

func (r *Reporter) writeStat(title string, v int) {
	r.writeln(fmt.Sprintf("| %-46s | %8d |", title, v))
}

// bytesHumanReadable mirrors the original's KB/MB/GB thresholds
// (spec §9: "treat the counter as bytes; do not multiply").
func bytesHumanReadable(bytes int) (float64, string) {
	switch {
	case bytes > 1_000_000_000:
		return float64(bytes) / 1_000_000_000, "Scanned GB"
	case bytes > 1_000_000:
		return float64(bytes) / 1_000_000, "Scanned MB"
	case bytes > 1_000:
		return float64(bytes) / 1_000, "Scanned KB"
	default:
		return float64(bytes), "Scanned B"
	}
}
