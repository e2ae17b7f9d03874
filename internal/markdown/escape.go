package markdown

import (
	"strings"
)

// Characters that would otherwise be read back as table separators or inline
// markup.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
)

var destinationEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

const lineBreak = "<br>"

// escapeCell renders free text so it survives a round trip through a table
// cell. Newlines become <br>.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = cellEscaper.Replace(line)
	}
	return strings.Join(lines, lineBreak)
}

// escapeTitle escapes a title for an ATX heading. A trailing run of '#'
// would otherwise be read as the closing sequence.
func escapeTitle(s string) string {
	s = escapeCell(s)
	trimmed := strings.TrimRight(s, "#")
	if trimmed == s {
		return s
	}
	return trimmed + `\` + s[len(trimmed):]
}

// formatAnchor renders an anchor reference as a Markdown link. References
// that contain spaces or brackets use the <...> destination form.
func formatAnchor(reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ""
	}
	reference = strings.NewReplacer("\r", " ", "\n", " ").Replace(reference)
	if strings.ContainsAny(reference, " ()<>\\|") {
		return "[link](<" + destinationEscaper.Replace(reference) + ">)"
	}
	return "[link](" + reference + ")"
}

func isLineBreakTag(raw string) bool {
	switch strings.ToLower(strings.ReplaceAll(raw, " ", "")) {
	case "<br>", "<br/>":
		return true
	}
	return false
}
