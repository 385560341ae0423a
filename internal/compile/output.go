package compile

import "strings"

const (
	maxStreamChars  = 20000
	maxSummaryChars = 8000
	maxSummaryLines = 200
)

// tail keeps only the last maxChars characters of text.
func tail(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[len(text)-maxChars:]
}

// normalizeOutput tails both streams and derives a single error summary.
// Maven は -q や一部プラグインの影響でエラーを stdout に出すことがあるため、
// summary は stderr が空のとき stdout から作る。
func normalizeOutput(stdout, stderr string) (string, string, string) {
	combined := strings.TrimSpace(stderr)
	if combined == "" {
		combined = strings.TrimSpace(stdout)
	}

	summary := ""
	if combined != "" {
		lines := strings.Split(combined, "\n")
		if len(lines) > maxSummaryLines {
			lines = lines[len(lines)-maxSummaryLines:]
		}
		summary = strings.Join(lines, "\n")
	}

	return tail(stdout, maxStreamChars), tail(stderr, maxStreamChars), tail(summary, maxSummaryChars)
}
