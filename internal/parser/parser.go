package parser

import (
	"regexp"
	"time"

	"github.com/akoreshkov/logstats/internal/models"
)

// linePattern matches the nginx/Apache combined log format:
//
//	ip - - [timestamp] "METHOD url HTTP/ver" status bytes "referer" "user_agent"
//
// Only the ip, timestamp, method, url and user-agent groups are captured;
// status, bytes and referer are validated but discarded.
var linePattern = regexp.MustCompile(`^(\S+) \S+ \S+ \[([^]]+)\] "(\S+) ([^"]*) HTTP/[\d.]+" \d+ \d+ "[^"]*" "([^"]*)"$`)

// clfTimeLayout is the bracketed combined-log timestamp, e.g.
// 01/Jan/2024:10:00:00 +0000.
const clfTimeLayout = "02/Jan/2006:15:04:05 -0700"

// Architecture token patterns, checked in order. First match wins, so a
// string mentioning both Win64 and ARM classifies as x64.
var archPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"x64", regexp.MustCompile(`(?i)\b(x86_64|Win64|x64)\b`)},
	{"x86", regexp.MustCompile(`(?i)\b(i386|i686|Win32)\b`)},
	{"arm64", regexp.MustCompile(`(?i)\b(arm64|aarch64|ARM|Apple\s+Silicon)\b`)},
}

// Parse extracts a LogRecord from one combined-format line. It returns
// false for lines that do not match the grammar and for lines whose
// bracketed timestamp does not parse; both are ordinary per-line failures
// for the caller to count, never an abort.
//
// The returned record has no browser/os set; classification is a separate
// step. Architecture is derived here because it comes from the raw
// user-agent string alone.
func Parse(line string) (*models.LogRecord, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	ts, err := time.Parse(clfTimeLayout, m[2])
	if err != nil {
		return nil, false
	}

	rec := &models.LogRecord{
		IP:          m[1],
		RequestTime: ts.UTC().Truncate(time.Second),
		URL:         m[4],
	}
	if ua := m[5]; ua != "" {
		rec.UserAgent = &ua
		rec.Architecture = Architecture(ua)
	}
	return rec, true
}

// Architecture infers the CPU architecture from a user-agent string, or
// returns nil when no known token is present.
func Architecture(ua string) *string {
	for _, p := range archPatterns {
		if p.re.MatchString(ua) {
			label := p.label
			return &label
		}
	}
	return nil
}
