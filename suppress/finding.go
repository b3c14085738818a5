package suppress

// Category identifies the directive family a finding came from.
type Category string

const (
	BareMarker        Category = "BARE_MARKER"        // NOSONAR comment
	AnnotationGeneric Category = "ANNOTATION_GENERIC" // @SuppressWarnings(...)
	AnnotationVariant Category = "ANNOTATION_VARIANT" // @Suppress(...)
	BracketAttribute  Category = "BRACKET_ATTRIBUTE"  // [SuppressMessage(...)]
	AngleAttribute    Category = "ANGLE_ATTRIBUTE"    // <SuppressMessage(...)>
)

// Categories lists every family in the order the scanner runs them.
var Categories = []Category{
	BareMarker,
	AnnotationGeneric,
	AnnotationVariant,
	BracketAttribute,
	AngleAttribute,
}

// Finding is a single suppression directive located in a file.
//
// ReportLine is where a downstream report should attach the finding. It only
// differs from EvidenceLine for BareMarker findings, which are shifted to an
// adjacent line so the platform's own NOSONAR handling does not hide them.
type Finding struct {
	ReportLine   int      `json:"report_line"`
	EvidenceLine int      `json:"evidence_line"`
	Category     Category `json:"category"`
	Message      string   `json:"message"`
	Rules        []string `json:"rules,omitempty"`
	// Blanket is set when the directive is not tied to specific rule ids:
	// a "all" annotation, or an attribute that only names the platform.
	Blanket bool `json:"blanket,omitempty"`
}
