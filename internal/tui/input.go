package tui

import (
	"strings"
	"unicode/utf8"
)

// pageSize is the number of assets fetched per list call.
const pageSize = 50

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 256

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderField renders a labelled single-line input. Masked fields show one
// bullet per rune.
func renderField(label, value, placeholder string, focused, masked bool) string {
	shown := value
	if masked {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	prompt := metaStyle.Render("  ")
	if focused {
		prompt = inputPromptStyle.Render("> ")
	}
	var body string
	switch {
	case shown == "" && !focused:
		body = inputPlaceholderStyle.Render(placeholder)
	case focused:
		body = normalStyle.Render(shown) + accentStyle.Render("█")
	default:
		body = dimStyle.Render(shown)
	}
	return " " + prompt + sectionHeaderStyle.Render(padRight(label, 10)) + body
}
