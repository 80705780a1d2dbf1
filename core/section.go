package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxPart is the highest numbered part of the FAR.
const MaxPart = 53

// SectionRef addresses a specific regulatory clause within a FAR part,
// e.g. 52.219-9 is subsection 9 of section 219 in part 52.
type SectionRef struct {
	Part       int    // 1-53
	Section    string // 1-3 digits, as written
	Subsection string // 1-3 digits, empty when absent
}

// sectionPattern matches FAR section references embedded in free text:
// a 1-2 digit part, a dot, a 1-3 digit section, and an optional
// hyphenated 1-3 digit subsection. Part range is validated separately.
var sectionPattern = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,3})(?:-(\d{1,3}))?\b`)

// String renders the reference in its canonical dotted form, e.g. "52.219-9".
func (r SectionRef) String() string {
	if r.Subsection == "" {
		return fmt.Sprintf("%d.%s", r.Part, r.Section)
	}
	return fmt.Sprintf("%d.%s-%s", r.Part, r.Section, r.Subsection)
}

// FileName returns the corpus file name for the section, e.g. "52.219-9.md".
func (r SectionRef) FileName() string {
	return r.String() + ".md"
}

// ParseSectionRef parses a complete section reference string.
// The whole input must be a single reference; surrounding text is rejected.
func ParseSectionRef(s string) (SectionRef, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".md")
	m := sectionPattern.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return SectionRef{}, fmt.Errorf("%w: %q", ErrInvalidSectionRef, s)
	}
	return refFromMatch(m)
}

// ParseSectionRefs scans free text for FAR section references and returns
// the distinct, valid references in order of first appearance. Candidates
// with an out-of-range part number (dollar amounts, dates, version strings)
// are skipped.
func ParseSectionRefs(text string) []SectionRef {
	matches := sectionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]SectionRef, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		ref, err := refFromMatch(m)
		if err != nil {
			continue
		}
		key := ref.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

func refFromMatch(m []string) (SectionRef, error) {
	part, err := strconv.Atoi(m[1])
	if err != nil {
		return SectionRef{}, fmt.Errorf("%w: %q", ErrInvalidSectionRef, m[0])
	}
	if err := ValidatePart(part); err != nil {
		return SectionRef{}, fmt.Errorf("%w: %w", ErrInvalidSectionRef, err)
	}
	return SectionRef{
		Part:       part,
		Section:    m[2],
		Subsection: m[3],
	}, nil
}
