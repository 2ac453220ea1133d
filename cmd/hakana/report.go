package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hakana-go/hakana/internal/diagnostics"
	"github.com/hakana-go/hakana/internal/orchestrator"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

func colorEnabled(w *os.File) bool {
	return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
}

func printIssues(w io.Writer, issues []*diagnostics.Issue, color bool) {
	for _, iss := range issues {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", colorRed, iss.String(), colorReset)
		} else {
			fmt.Fprintln(w, iss.String())
		}
	}
}

func printSummary(w io.Writer, report *orchestrator.Report) {
	fmt.Fprintf(w, "%d file(s) parsed, %d issue(s)\n", report.Touched, len(report.Issues.Sorted()))
}
