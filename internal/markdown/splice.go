package markdown

import (
	"bytes"
	"sort"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

type replacement struct {
	span
	text string
}

// Splice rewrites only the steps and troubleshooting tables of source so they
// match rb. Headings, prose and unrelated tables keep their exact bytes. A
// table missing from source is appended at the end of the document under its
// heading. Documents whose runbook tables sit inside other blocks are
// re-rendered whole with Format.
func Splice(name string, source []byte, rb *runbook.Runbook) ([]byte, error) {
	doc, err := parseDocument(source)
	if err != nil {
		return nil, toParseError(name, err)
	}
	if doc.nested {
		return Format(rb), nil
	}

	var edits []replacement
	var appended bytes.Buffer

	steps := stepsTable(rb)
	if len(doc.stepTables) == 0 {
		appended.WriteString("\n" + stepsHeading + "\n\n" + steps)
	}
	for i, sp := range doc.stepTables {
		text := ""
		if i == 0 {
			text = steps
		}
		edits = append(edits, replacement{span: sp, text: text})
	}

	branches := rb.Branches()
	var table string
	if len(branches) > 0 {
		table = branchTable(branches)
		if len(doc.branchTables) == 0 {
			appended.WriteString("\n" + branchHeading + "\n\n" + table)
		}
	}
	for i, sp := range doc.branchTables {
		text := ""
		if i == 0 {
			text = table
		}
		edits = append(edits, replacement{span: sp, text: text})
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(source) + appended.Len())
	pos := 0
	for _, e := range edits {
		out.Write(source[pos:e.start])
		out.WriteString(e.text)
		pos = e.end
	}
	out.Write(source[pos:])

	if appended.Len() > 0 {
		if out.Len() > 0 && !bytes.HasSuffix(out.Bytes(), []byte("\n")) {
			out.WriteByte('\n')
		}
		out.Write(appended.Bytes())
	}
	return out.Bytes(), nil
}
