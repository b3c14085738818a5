// Package suppress finds inline directives that silence static analysis:
// NOSONAR comments, @SuppressWarnings/@Suppress annotations and .NET
// SuppressMessage attributes.
//
// Detection is text based. Each call is independent and the package holds no
// mutable state, so FindSuppressions may be called from many goroutines.
package suppress

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// FindSuppressions returns every suppression directive in content, at most
// one per line. Marker findings come first, then each annotation/attribute
// family in turn; within a family findings are in line order.
func FindSuppressions(content string) []Finding {
	s := &scan{
		content:  content,
		claimed:  make(map[int]bool),
		findings: []Finding{},
	}
	if content == "" {
		return s.findings
	}
	s.runes = []rune(content)

	s.markers()
	for _, d := range directives {
		s.directive(d)
	}
	return s.findings
}

// scan is the state of a single FindSuppressions call.
type scan struct {
	content  string
	runes    []rune
	claimed  map[int]bool
	findings []Finding
}

// claim reserves line for a finding. It reports false when an earlier
// match already owns the line.
func (s *scan) claim(line int) bool {
	if s.claimed[line] {
		return false
	}
	s.claimed[line] = true
	return true
}

func (s *scan) markers() {
	lines := strings.Split(s.content, "\n")
	for i, text := range lines {
		if !matches(markerPattern, StripStringLiterals(text)) {
			continue
		}
		line := i + 1
		if !s.claim(line) {
			continue
		}
		s.findings = append(s.findings, Finding{
			ReportLine:   reportLine(line, len(lines)),
			EvidenceLine: line,
			Category:     BareMarker,
			Message:      markerMessage(line),
		})
	}
}

// reportLine moves a marker finding off its own line: the platform drops
// every issue raised on a NOSONAR line, ours included.
func reportLine(line, total int) int {
	switch {
	case line > 1:
		return line - 1
	case total > 1:
		return line + 1
	default:
		return line
	}
}

func (s *scan) directive(d directive) {
	m, err := d.pattern.FindRunesMatch(s.runes)
	for ; err == nil && m != nil; m, err = d.pattern.FindNextMatch(m) {
		payload := ""
		if g := m.GroupByNumber(1); g != nil {
			payload = g.String()
		}
		v, ok := d.accept(payload)
		if !ok {
			continue
		}
		line := lineAt(s.runes, m.Index)
		if !s.claim(line) {
			continue
		}
		s.findings = append(s.findings, Finding{
			ReportLine:   line,
			EvidenceLine: line,
			Category:     d.category,
			Message:      d.message(d.label, v),
			Rules:        v.rules,
			Blanket:      v.blanket,
		})
	}
}

// ExtractRuleReferences returns the rule keys named in payload, deduplicated
// in order of first appearance. Prefixed keys (java:S106) win: when any is
// present, bare keys (S106) are not searched for at all.
func ExtractRuleReferences(payload string) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	eachMatch(prefixedRulePattern, payload, func(ref string) {
		normalized, err := whitespacePattern.Replace(ref, "", -1, -1)
		if err != nil {
			normalized = ref
		}
		add(normalized)
	})
	if len(refs) > 0 {
		return refs
	}

	eachMatch(bareRulePattern, payload, add)
	return refs
}

func eachMatch(re *regexp2.Regexp, s string, fn func(string)) {
	m, err := re.FindStringMatch(s)
	for ; err == nil && m != nil; m, err = re.FindNextMatch(m) {
		fn(m.String())
	}
}

// StripStringLiterals blanks the contents of quoted string literals in line,
// keeping the quotes and the line's length in characters. Escaped quotes
// inside a literal are honoured.
func StripStringLiterals(line string) string {
	out, err := stringLiteralPattern.ReplaceFunc(line, func(m regexp2.Match) string {
		r := m.Runes()
		return string(r[0]) + strings.Repeat(" ", len(r)-2) + string(r[len(r)-1])
	}, -1, -1)
	if err != nil {
		return line
	}
	return out
}

// GetLineNumber returns the 1-based line containing the character at offset.
// Offsets count runes, as reported by the pattern engine; out-of-range
// offsets are clamped to the content.
func GetLineNumber(content string, offset int) int {
	return lineAt([]rune(content), offset)
}

func lineAt(runes []rune, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(runes); i++ {
		if runes[i] == '\n' {
			line++
		}
	}
	return line
}
