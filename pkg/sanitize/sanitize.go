// Package sanitize cleans markup that reaches widget templates unescaped:
// plugin icons (inline SVG) and rich field tooltips.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy

	tooltipPolicyOnce sync.Once
	tooltipPolicy     *bluemonday.Policy

	stripPolicy = bluemonday.StrictPolicy()
)

// Icon keeps the SVG subset plugin icons use and drops everything else,
// including scripts and event handler attributes.
func Icon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

// Tooltip allows basic inline formatting and links in tooltips.
func Tooltip(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(tooltipSanitizer().Sanitize(trimmed))
}

// Text strips all markup.
func Text(raw string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(raw))
}

// IsImageURL reports whether raw looks like an image reference rather than
// inline markup.
func IsImageURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "<") {
		return false
	}
	return strings.HasPrefix(trimmed, "/") ||
		strings.HasPrefix(trimmed, "http://") ||
		strings.HasPrefix(trimmed, "https://") ||
		strings.HasPrefix(trimmed, "data:image/")
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
			"ellipse", "title", "desc", "defs", "use", "clipPath",
		)
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")
		policy.AllowAttrs("href", "xlink:href", "clip-path").OnElements("use")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
				"stroke-linecap", "stroke-linejoin", "class",
			).OnElements(el)
		}
		policy.AllowAttrs("id", "clipPathUnits").OnElements("clipPath")
		policy.AllowAttrs("id").OnElements("defs", "g")
		iconPolicy = policy
	})
	return iconPolicy
}

func tooltipSanitizer() *bluemonday.Policy {
	tooltipPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		tooltipPolicy = policy
	})
	return tooltipPolicy
}
