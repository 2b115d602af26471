package textpatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileOptions configure the filesystem shell around Apply.
type FileOptions struct {
	// DryRun computes and reports replacements without writing the file.
	DryRun bool
	// RequireMatch turns a zero-match run into a CodeNoMatch error. The
	// default treats zero matches as success so that re-running an
	// already-applied patch stays a no-op instead of a failure.
	RequireMatch bool
}

// ApplyFile reads the file at path in full, applies the patches to the
// in-memory copy, and writes the result back only when at least one
// replacement occurred. The new content is computed completely before the
// file is touched, so a failed or empty match never corrupts the original.
func ApplyFile(ctx context.Context, path string, patches []Patch, opts FileOptions) (Result, error) {
	result := Result{Path: path}

	if err := ctx.Err(); err != nil {
		return result, &Error{Message: err.Error(), Path: path}
	}

	info, err := os.Stat(path)
	if err != nil {
		return result, &Error{
			Message: fmt.Sprintf("%s: %v", path, err),
			Code:    CodeReadFailed,
			Path:    path,
		}
	}
	if info.IsDir() {
		return result, &Error{
			Message: fmt.Sprintf("%s: is a directory", path),
			Code:    CodeReadFailed,
			Path:    path,
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return result, &Error{
			Message: fmt.Sprintf("%s: %v", path, err),
			Code:    CodeReadFailed,
			Path:    path,
		}
	}

	patched, count, err := Apply(string(content), patches...)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			if pe.Path == "" {
				pe.Path = path
			}
			return result, pe
		}
		return result, &Error{Message: err.Error(), Path: path}
	}

	result.Count = count
	if count == 0 {
		if opts.RequireMatch {
			return Result{Path: path}, &Error{
				Message: fmt.Sprintf("no occurrences found in %s", path),
				Code:    CodeNoMatch,
				Path:    path,
			}
		}
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{Path: path}, &Error{Message: err.Error(), Path: path}
	}

	perm := info.Mode() & fs.ModePerm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(path, []byte(patched), perm); err != nil {
		return Result{Path: path}, &Error{
			Message: fmt.Sprintf("%s: %v", path, err),
			Code:    CodeWriteFailed,
			Path:    path,
		}
	}

	result.Changed = true
	return result, nil
}
