// Package textgen holds the small text helpers shared by the assemblers:
// slot-template rendering and CSV tag lists.
package textgen

import (
	"regexp"
	"strings"

	"github.com/todaylotto/backend/internal/domain"
)

var slotPattern = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// ExtractSlots returns the distinct slot keys referenced by a template.
func ExtractSlots(template string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range slotPattern.FindAllStringSubmatch(template, -1) {
		out[m[1]] = struct{}{}
	}
	return out
}

// Render substitutes every {SLOT} occurrence with its value. Slots without
// a value render as empty, which also makes Render idempotent: rendered
// output contains no slot syntax left to expand.
func Render(template string, slotValues map[string]string) string {
	if template == "" {
		return ""
	}
	return slotPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		return slotValues[key]
	})
}

// ParseCSV splits a comma-separated tag list into a set, trimming
// whitespace and dropping empties.
func ParseCSV(csv string) domain.TagSet {
	out := domain.NewTagSet()
	for _, part := range strings.Split(csv, ",") {
		out.Add(strings.TrimSpace(part))
	}
	return out
}

// SplitCSV splits a comma-separated list preserving order, trimming
// whitespace and dropping empties.
func SplitCSV(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		p := strings.TrimSpace(part)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ContainsAll reports whether tags covers every entry of requiredCSV.
// An empty list is vacuously satisfied.
func ContainsAll(tags domain.TagSet, requiredCSV string) bool {
	for _, req := range SplitCSV(requiredCSV) {
		if !tags.Has(req) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether tags intersects blockedCSV.
func ContainsAny(tags domain.TagSet, blockedCSV string) bool {
	for _, b := range SplitCSV(blockedCSV) {
		if tags.Has(b) {
			return true
		}
	}
	return false
}
