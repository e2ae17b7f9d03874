// Package markdown reads and writes runbooks as Markdown documents whose
// steps and troubleshooting branches live in GFM tables.
//
// Cell text is trimmed when read back, so leading and trailing whitespace in
// step fields does not survive a round trip.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
	rberrors "github.com/alexisbeaulieu97/runbook/pkg/errors"
)

const (
	stepsHeading   = "## Steps"
	branchHeading  = "## Troubleshooting"
	untitledHeader = "Runbook"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Format renders the runbook as a Markdown document.
func Format(rb *runbook.Runbook) []byte {
	var buf bytes.Buffer

	title := strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(rb.Title))
	if title == "" {
		title = untitledHeader
	}
	buf.WriteString("# " + escapeTitle(title) + "\n\n")

	buf.WriteString(stepsHeading + "\n\n")
	buf.WriteString(stepsTable(rb))

	if branches := rb.Branches(); len(branches) > 0 {
		buf.WriteString("\n" + branchHeading + "\n\n")
		buf.WriteString(branchTable(branches))
	}

	return buf.Bytes()
}

func stepsTable(rb *runbook.Runbook) string {
	var b strings.Builder
	b.WriteString(formatRow(stepsHeader) + "\n")
	b.WriteString(delimiterRow(len(stepsHeader)) + "\n")
	for i, step := range rb.Steps() {
		b.WriteString(FormatStepRow(i+1, step) + "\n")
	}
	return b.String()
}

func branchTable(branches []runbook.TroubleshootingBranch) string {
	var b strings.Builder
	b.WriteString(formatRow(branchHeader) + "\n")
	b.WriteString(delimiterRow(len(branchHeader)) + "\n")
	for _, branch := range branches {
		for _, criterion := range branch.ExitCriteria {
			b.WriteString(formatBranchRow(branch, criterion) + "\n")
		}
	}
	return b.String()
}

// Encode writes the Markdown form of rb to w.
func Encode(w io.Writer, rb *runbook.Runbook) error {
	_, err := w.Write(Format(rb))
	return err
}

// Parse decodes a runbook document. name is used in error messages only.
// Tables other than the steps and troubleshooting tables, and any prose, are
// ignored.
func Parse(name string, data []byte) (*runbook.Runbook, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, toParseError(name, err)
	}

	rb := runbook.New(doc.title)
	for _, ps := range doc.steps {
		if err := rb.RestoreStep(ps.Step); err != nil {
			return nil, rberrors.NewParseError(name, ps.line, err)
		}
	}

	for _, group := range groupBranches(doc.branches) {
		if group.err != nil {
			return nil, rberrors.NewParseError(name, group.line, group.err)
		}
		if err := rb.RestoreBranch(group.branch); err != nil {
			return nil, rberrors.NewParseError(name, group.line, err)
		}
	}

	return rb, nil
}

// Decode reads a whole document from r and parses it.
func Decode(name string, r io.Reader) (*runbook.Runbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, rberrors.NewParseError(name, 0, err)
	}
	return Parse(name, data)
}

type rowError struct {
	line int
	err  error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.line, e.err)
}

func (e *rowError) Unwrap() error {
	return e.err
}

func toParseError(name string, err error) error {
	var re *rowError
	if errors.As(err, &re) {
		return rberrors.NewParseError(name, re.line, re.err)
	}
	return rberrors.NewParseError(name, 0, err)
}

func unwrapRowError(err error) error {
	var re *rowError
	if errors.As(err, &re) {
		return re.err
	}
	return err
}

type parsedStep struct {
	StepRow
	line int
}

type parsedBranchRow struct {
	label     string
	stepID    string
	status    runbook.BranchStatus
	criterion runbook.Criterion
	line      int
}

// span is a half-open byte range of the source covering whole lines.
type span struct {
	start, end int
}

type parsedDocument struct {
	title    string
	steps    []parsedStep
	branches []parsedBranchRow

	stepTables   []span
	branchTables []span
	// nested is set when a recognised table sits inside another block,
	// such as a blockquote or list item.
	nested bool
}

func parseDocument(source []byte) (*parsedDocument, error) {
	root := md.Parser().Parse(text.NewReader(source))
	doc := &parsedDocument{}

	var parseErr error
	walkErr := gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gast.Heading:
			if node.Level == 1 && doc.title == "" {
				doc.title = inlineText(node, source)
			}
			return gast.WalkSkipChildren, nil
		case *east.Table:
			if err := doc.readTable(node, source); err != nil {
				parseErr = err
				return gast.WalkStop, nil
			}
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return doc, nil
}

func (d *parsedDocument) readTable(table *east.Table, source []byte) error {
	header, ok := table.FirstChild().(*east.TableHeader)
	if !ok {
		return nil
	}
	names := cellTexts(header, source)

	isSteps := matchesHeader(names, stepsHeader)
	isBranches := !isSteps && matchesHeader(names, branchHeader)
	if !isSteps && !isBranches {
		return nil
	}
	if table.Parent() == nil || table.Parent().Kind() != gast.KindDocument {
		d.nested = true
	}
	if sp, ok := tableSpan(table, source); ok {
		if isSteps {
			d.stepTables = append(d.stepTables, sp)
		} else {
			d.branchTables = append(d.branchTables, sp)
		}
	} else {
		d.nested = true
	}

	switch {
	case isSteps:
		for row := header.NextSibling(); row != nil; row = row.NextSibling() {
			step, err := readStepRow(row, source)
			if err != nil {
				return err
			}
			d.steps = append(d.steps, step)
		}
	case isBranches:
		for row := header.NextSibling(); row != nil; row = row.NextSibling() {
			br, err := readBranchRow(row, source)
			if err != nil {
				return err
			}
			d.branches = append(d.branches, br)
		}
	}
	return nil
}

// matchesHeader compares the identifying columns of a table header. The
// sequence column of the steps table may carry any label.
func matchesHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if want[i] == "#" {
			continue
		}
		if !strings.EqualFold(got[i], want[i]) {
			return false
		}
	}
	return true
}

func readStepRow(row gast.Node, source []byte) (parsedStep, error) {
	line := lineOf(row, source)
	cells := children(row)
	if len(cells) != len(stepsHeader) {
		return parsedStep{}, &rowError{line: line, err: fmt.Errorf("step row has %d cells, want %d", len(cells), len(stepsHeader))}
	}

	seqText := inlineText(cells[0], source)
	seq, err := strconv.Atoi(seqText)
	if err != nil {
		return parsedStep{}, &rowError{line: line, err: fmt.Errorf("invalid sequence number %q", seqText)}
	}

	done, err := parseCheckbox(inlineText(cells[6], source))
	if err != nil {
		return parsedStep{}, &rowError{line: line, err: err}
	}
	status := runbook.StatusPending
	if done {
		status = runbook.StatusDone
	}

	id := inlineText(cells[1], source)
	if id == "" {
		return parsedStep{}, &rowError{line: line, err: errors.New("step id is blank")}
	}

	return parsedStep{
		StepRow: StepRow{
			Seq: seq,
			Step: runbook.Step{
				ID:              id,
				Description:     inlineText(cells[2], source),
				ExpectedResult:  inlineText(cells[3], source),
				Evidence:        inlineText(cells[4], source),
				AnchorReference: anchorText(cells[5], source),
				Status:          status,
			},
		},
		line: line,
	}, nil
}

func readBranchRow(row gast.Node, source []byte) (parsedBranchRow, error) {
	line := lineOf(row, source)
	cells := children(row)
	if len(cells) != len(branchHeader) {
		return parsedBranchRow{}, &rowError{line: line, err: fmt.Errorf("branch row has %d cells, want %d", len(cells), len(branchHeader))}
	}

	met, err := parseCheckbox(inlineText(cells[4], source))
	if err != nil {
		return parsedBranchRow{}, &rowError{line: line, err: err}
	}

	return parsedBranchRow{
		label:     inlineText(cells[0], source),
		stepID:    inlineText(cells[1], source),
		status:    runbook.BranchStatus(strings.ToLower(inlineText(cells[2], source))),
		criterion: runbook.Criterion{Description: inlineText(cells[3], source), Met: met},
		line:      line,
	}, nil
}

type branchGroup struct {
	branch runbook.TroubleshootingBranch
	line   int
	err    error
}

// groupBranches folds per-criterion rows into branches, keeping the order in
// which labels first appear.
func groupBranches(rows []parsedBranchRow) []*branchGroup {
	var groups []*branchGroup
	byLabel := make(map[string]*branchGroup)
	for _, row := range rows {
		group, ok := byLabel[row.label]
		if !ok {
			group = &branchGroup{
				branch: runbook.TroubleshootingBranch{
					AnchorStepID: row.stepID,
					Label:        row.label,
					Status:       row.status,
				},
				line: row.line,
			}
			byLabel[row.label] = group
			groups = append(groups, group)
		}
		if group.err == nil && (row.status != group.branch.Status || row.stepID != group.branch.AnchorStepID) {
			group.err = fmt.Errorf("branch %s has conflicting rows (line %d)", row.label, row.line)
		}
		group.branch.ExitCriteria = append(group.branch.ExitCriteria, row.criterion)
	}
	return groups
}

func children(n gast.Node) []gast.Node {
	var out []gast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

func cellTexts(row gast.Node, source []byte) []string {
	cells := children(row)
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = inlineText(c, source)
	}
	return out
}

func lineOf(row gast.Node, source []byte) int {
	off, ok := rowOffset(row)
	if !ok {
		return 0
	}
	return bytes.Count(source[:off], []byte("\n")) + 1
}

// rowOffset returns the source offset of the first cell content in row.
func rowOffset(row gast.Node) (int, bool) {
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		lines := c.Lines()
		if lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	return 0, false
}

// tableSpan covers the lines from the header row to the last body row,
// including the trailing newline.
func tableSpan(table *east.Table, source []byte) (span, bool) {
	first, ok := rowOffset(table.FirstChild())
	if !ok {
		return span{}, false
	}
	last, ok := rowOffset(table.LastChild())
	if !ok {
		return span{}, false
	}
	start := bytes.LastIndexByte(source[:first], '\n') + 1
	end := lineEnd(source, last)
	if table.LastChild() == table.FirstChild() {
		// header only: the delimiter row carries no cells
		end = lineEnd(source, end)
	}
	return span{start: start, end: end}, true
}

// lineEnd returns the offset just past the newline ending the line that
// contains off, or len(source) on the last line.
func lineEnd(source []byte, off int) int {
	if off >= len(source) {
		return len(source)
	}
	if i := bytes.IndexByte(source[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(source)
}

// inlineText flattens the inline content of n back to plain text, undoing
// emphasis markers, link syntax, backslash escapes and <br> line breaks.
func inlineText(n gast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gast.Walk(n, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if node == n {
			return gast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *gast.Text:
			if !entering {
				return gast.WalkContinue, nil
			}
			buf.Write(v.Segment.Value(source))
			if v.HardLineBreak() {
				buf.WriteByte('\n')
			} else if v.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gast.String:
			if entering {
				buf.Write(v.Value)
			}
		case *gast.CodeSpan:
			buf.WriteByte('`')
		case *gast.RawHTML:
			if entering {
				raw := rawSegments(v, source)
				if isLineBreakTag(raw) {
					buf.WriteByte('\n')
				} else {
					buf.WriteString(raw)
				}
			}
			return gast.WalkSkipChildren, nil
		case *gast.AutoLink:
			if entering {
				buf.Write(v.URL(source))
			}
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(string(util.UnescapePunctuations(buf.Bytes())))
}

func anchorText(cell gast.Node, source []byte) string {
	var destination []byte
	_ = gast.Walk(cell, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *gast.Link:
			destination = util.UnescapePunctuations(v.Destination)
			return gast.WalkStop, nil
		case *gast.AutoLink:
			destination = v.URL(source)
			return gast.WalkStop, nil
		}
		return gast.WalkContinue, nil
	})
	if destination != nil {
		return strings.TrimSpace(string(destination))
	}
	return inlineText(cell, source)
}

func rawSegments(n *gast.RawHTML, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
