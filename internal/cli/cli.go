// Package cli implements the one-shot command line shell around the patch
// library: flag parsing, edit selection, and outcome reporting.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/ftc-platform/tspatch/internal/edits"
	"github.com/ftc-platform/tspatch/internal/patchspec"
	"github.com/ftc-platform/tspatch/pkg/textpatch"
)

var (
	patchedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true)
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
)

// Run executes the requested edits using the provided CLI arguments.
// It returns a POSIX-style exit code indicating whether execution succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	defaultRoot := os.Getenv("FTC_PLATFORM_ROOT")

	flagSet := flag.NewFlagSet("tspatch", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	root := flagSet.String("root", defaultRoot, "path to the ftc-platform checkout the builtin edits target")
	editName := flagSet.String("edit", "all", "builtin edit to apply, or \"all\"")
	patchfile := flagSet.String("patchfile", "", "JSON patchfile to apply instead of the builtin edits")
	dryRun := flagSet.Bool("dry-run", false, "compute and report replacements without writing any file")
	requireMatch := flagSet.Bool("require-match", false, "treat zero matches as a failure instead of a no-op")
	list := flagSet.Bool("list", false, "list the builtin edit names and exit")

	if err := flagSet.Parse(args); err != nil {
		return 2
	}

	if *list {
		for _, edit := range edits.Builtin("") {
			fmt.Fprintln(stdout, edit.Name)
		}
		return 0
	}

	var selected []edits.Edit
	switch {
	case *patchfile != "":
		loaded, err := patchspec.Load(*patchfile, *root)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		selected = loaded
	default:
		if *root == "" {
			fmt.Fprintln(stderr, "-root (or FTC_PLATFORM_ROOT) must point at the ftc-platform checkout.")
			return 2
		}
		builtin := edits.Builtin(*root)
		if *editName == "all" {
			selected = builtin
			break
		}
		edit, ok := edits.ByName(builtin, *editName)
		if !ok {
			fmt.Fprintf(stderr, "unknown edit %q; use -list to see the builtin edits\n", *editName)
			return 2
		}
		selected = []edits.Edit{edit}
	}

	opts := textpatch.FileOptions{DryRun: *dryRun, RequireMatch: *requireMatch}
	failed := false
	for _, edit := range selected {
		result, err := textpatch.ApplyFile(ctx, edit.Path, edit.Patches, opts)
		if err != nil {
			failed = true
			var pe *textpatch.Error
			if errors.As(err, &pe) {
				fmt.Fprintf(stderr, "%s: %s\n", label(edit), failedStyle.Render(textpatch.FormatError(pe)))
			} else {
				fmt.Fprintf(stderr, "%s: %v\n", label(edit), err)
			}
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", label(edit), renderResult(result, *dryRun))
	}
	if failed {
		return 1
	}
	return 0
}

func label(edit edits.Edit) string {
	if edit.Name != "" {
		return edit.Name
	}
	return edit.Path
}

func renderResult(result textpatch.Result, dryRun bool) string {
	if result.Count == 0 {
		return unchangedStyle.Render(fmt.Sprintf("no occurrences found, %s left unchanged", result.Path))
	}
	noun := "occurrences"
	if result.Count == 1 {
		noun = "occurrence"
	}
	if dryRun {
		return patchedStyle.Render(fmt.Sprintf("would patch %d %s in %s", result.Count, noun, result.Path))
	}
	return patchedStyle.Render(fmt.Sprintf("patched %d %s in %s", result.Count, noun, result.Path))
}
