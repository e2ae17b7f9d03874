package main

import (
	"os"

	"golang.org/x/term"

	"github.com/alexisbeaulieu97/runbook/internal/domain/runbook"
)

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func statusIcon(status runbook.Status, useUnicode bool) string {
	if useUnicode {
		if status == runbook.StatusDone {
			return "✓"
		}
		return "○"
	}
	if status == runbook.StatusDone {
		return "[x]"
	}
	return "[ ]"
}

func branchIcon(status runbook.BranchStatus, useUnicode bool) string {
	if useUnicode {
		if status == runbook.BranchClosed {
			return "✓"
		}
		return "⚑"
	}
	if status == runbook.BranchClosed {
		return "[closed]"
	}
	return "[open]"
}

func valueOrFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
