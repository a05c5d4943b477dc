// Package icons maps icon names to terminal glyphs.
package icons

// Fallback is shown for unknown names.
const Fallback = "•"

var glyphs = map[string]string{
	"plus":        "➕",
	"check":       "✓",
	"x":           "✕",
	"calendar":    "📅",
	"sun":         "☀️",
	"moon":        "🌙",
	"trash":       "🗑️",
	"save":        "💾",
	"download":    "⬇️",
	"upload":      "⬆️",
	"search":      "🔍",
	"edit":        "✏️",
	"tag":         "🏷️",
	"bell":        "🔔",
	"clock":       "⏰",
	"circle":      "○",
	"checkCircle": "✅",
	"alert":       "⚠️",
	"filter":      "🔽",
}

// Get returns the glyph for name, or Fallback.
func Get(name string) string {
	if g, ok := glyphs[name]; ok {
		return g
	}
	return Fallback
}
