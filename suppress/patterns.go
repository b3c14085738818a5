package suppress

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Platform is the analyzer whose suppressions are being audited.
const Platform = "SonarQube"

// Marker is the comment token recognised by the BareMarker pass.
const Marker = "NOSONAR"

// RulePrefixes are the language prefixes a rule key may carry, e.g. java:S106.
var RulePrefixes = []string{
	"java", "squid", "csharpsquid", "javascript", "typescript", "python", "kotlin",
	"php", "ruby", "go", "scala", "vbnet", "xml", "css", "web", "plsql", "tsql",
	"c", "cpp", "objc", "swift", "abap", "cobol", "flex",
}

// Every pattern below is compiled once and only read afterwards.
var (
	markerPattern = mustCompile(`\b`+Marker+`\b`, regexp2.IgnoreCase)

	stringLiteralPattern = mustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, regexp2.None)

	prefixedRulePattern = mustCompile(`\b(?:`+strings.Join(RulePrefixes, "|")+`)\s*:\s*S[0-9]{3,}`, regexp2.None)
	bareRulePattern     = mustCompile(`\bS[0-9]{3,}\b`, regexp2.None)
	whitespacePattern   = mustCompile(`\s+`, regexp2.None)

	blanketPattern  = mustCompile(`"all"`, regexp2.IgnoreCase)
	platformPattern = mustCompile(`\bsonar`, regexp2.IgnoreCase)
)

// attributeTargets is the optional "assembly:" style scope qualifier of .NET attributes.
const attributeTargets = `(?:(?:assembly|module|type|method|return|param)\s*:\s*)?`

const qualifiedSuppressMessage = `(?:System\.Diagnostics\.CodeAnalysis\.)?SuppressMessage\s*\(([\s\S]*?)\)`

// directive describes one annotation/attribute family. Group 1 of pattern is
// the payload handed to accept.
type directive struct {
	category Category
	label    string
	pattern  *regexp2.Regexp
	accept   func(payload string) (verdict, bool)
	message  func(label string, v verdict) string
}

// verdict is what an acceptance predicate learned about a payload.
type verdict struct {
	rules   []string
	blanket bool
}

// directives run in this order after the marker pass; the first family to
// claim a line keeps it.
var directives = []directive{
	{
		category: AnnotationGeneric,
		label:    "@SuppressWarnings",
		pattern:  mustCompile(`@SuppressWarnings\s*\(([\s\S]*?)\)`, regexp2.None),
		accept:   acceptAnnotation,
		message:  annotationMessage,
	},
	{
		category: AnnotationVariant,
		label:    "@Suppress",
		pattern:  mustCompile(`@Suppress(?!Warnings|Lint)\s*\(([\s\S]*?)\)`, regexp2.None),
		accept:   acceptAnnotation,
		message:  annotationMessage,
	},
	{
		category: BracketAttribute,
		label:    "[SuppressMessage]",
		pattern:  mustCompile(`\[\s*`+attributeTargets+qualifiedSuppressMessage+`\s*\]`, regexp2.None),
		accept:   acceptAttribute,
		message:  attributeMessage,
	},
	{
		category: AngleAttribute,
		label:    "<SuppressMessage>",
		pattern:  mustCompile(`<\s*`+attributeTargets+qualifiedSuppressMessage+`\s*>`, regexp2.IgnoreCase),
		accept:   acceptAttribute,
		message:  attributeMessage,
	},
}

// acceptAnnotation keeps payloads naming rules or suppressing "all".
// Compiler categories such as "unchecked" fall through.
func acceptAnnotation(payload string) (verdict, bool) {
	v := verdict{
		rules:   ExtractRuleReferences(payload),
		blanket: matches(blanketPattern, payload),
	}
	return v, len(v.rules) > 0 || v.blanket
}

// acceptAttribute keeps payloads naming rules or the platform itself, so
// third-party analyzer categories like "Microsoft.Design" are ignored.
func acceptAttribute(payload string) (verdict, bool) {
	v := verdict{rules: ExtractRuleReferences(payload)}
	if len(v.rules) > 0 {
		return v, true
	}
	v.blanket = matches(platformPattern, payload)
	return v, v.blanket
}

// annotationMessage prefers the blanket wording when "all" and rule ids
// appear together.
func annotationMessage(label string, v verdict) string {
	if v.blanket {
		return fmt.Sprintf("Remove this %s(\"all\") annotation. "+
			"Blanket suppression of all warnings is not permitted.", label)
	}
	return fmt.Sprintf("Remove this %s annotation suppressing rule(s): %s. "+
		"Suppressing %s rules is not permitted.", label, strings.Join(v.rules, ", "), Platform)
}

func attributeMessage(label string, v verdict) string {
	detail := Platform + " rules"
	if len(v.rules) > 0 {
		detail = "rule(s): " + strings.Join(v.rules, ", ")
	}
	return fmt.Sprintf("Remove this %s attribute suppressing %s. "+
		"Suppressing %s rules is not permitted.", label, detail, Platform)
}

func markerMessage(line int) string {
	return fmt.Sprintf("Remove this use of %q (line %d). "+
		"Suppressing %s issues inline is not permitted.", Marker, line, Platform)
}

func mustCompile(expr string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(expr, opts)
}

// matches reports whether re matches s. A matcher error (only possible on
// timeout) counts as no match.
func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}
