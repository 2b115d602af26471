package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const routerFixture = `const applications = await ctx.db.application.findMany({
  include: {
    user: {
      include: {
        profile: true,
      },
    },
  },
});
`

// writeCheckout lays out a minimal ftc-platform tree containing the
// application router targeted by the builtin edits.
func writeCheckout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	routerDir := filepath.Join(root, "src", "server", "api", "routers")
	require.NoError(t, os.MkdirAll(routerDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(routerDir, "application.ts"), []byte(routerFixture), 0o644))
	return root
}

func TestRunAppliesBuiltinEdit(t *testing.T) {
	root := writeCheckout(t)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-root", root, "-edit", "admin-include-select"}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	require.Contains(t, stdout.String(), "patched 1 occurrence")

	content, err := os.ReadFile(filepath.Join(root, "src", "server", "api", "routers", "application.ts"))
	require.NoError(t, err)
	require.Contains(t, string(content), "adminNotes: true,")
}

func TestRunSecondInvocationReportsNoOccurrences(t *testing.T) {
	root := writeCheckout(t)

	args := []string{"-root", root, "-edit", "admin-include-select"}
	require.Equal(t, 0, Run(context.Background(), args, nil, nil))

	before, err := os.ReadFile(filepath.Join(root, "src", "server", "api", "routers", "application.ts"))
	require.NoError(t, err)

	var stdout bytes.Buffer
	code := Run(context.Background(), args, &stdout, nil)
	require.Equal(t, 0, code, "a zero-match re-run must still succeed")
	require.Contains(t, stdout.String(), "no occurrences found")

	after, err := os.ReadFile(filepath.Join(root, "src", "server", "api", "routers", "application.ts"))
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestRunRequireMatchFailsOnDriftedTarget(t *testing.T) {
	root := writeCheckout(t)

	args := []string{"-root", root, "-edit", "admin-include-select"}
	require.Equal(t, 0, Run(context.Background(), args, nil, nil))

	var stderr bytes.Buffer
	code := Run(context.Background(), append(args, "-require-match"), nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "no occurrences found")
}

func TestRunDryRunLeavesFilesUntouched(t *testing.T) {
	root := writeCheckout(t)

	var stdout bytes.Buffer
	code := Run(context.Background(), []string{"-root", root, "-edit", "admin-include-select", "-dry-run"}, &stdout, nil)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "would patch 1 occurrence")

	content, err := os.ReadFile(filepath.Join(root, "src", "server", "api", "routers", "application.ts"))
	require.NoError(t, err)
	require.Equal(t, routerFixture, string(content))
}

func TestRunPatchfile(t *testing.T) {
	root := writeCheckout(t)
	patchfile := filepath.Join(t.TempDir(), "patches.json")
	payload := `{
  "edits": [
    {
      "name": "flatten-include",
      "path": "src/server/api/routers/application.ts",
      "patches": [{"pattern": "include: \\{\\s*profile: true,\\s*\\},", "replacement": "select: { profile: true },"}]
    }
  ]
}`
	require.NoError(t, os.WriteFile(patchfile, []byte(payload), 0o644))

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-root", root, "-patchfile", patchfile}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	require.Contains(t, stdout.String(), "flatten-include")
	require.Contains(t, stdout.String(), "patched 1 occurrence")
}

func TestRunInvalidPatchfile(t *testing.T) {
	patchfile := filepath.Join(t.TempDir(), "patches.json")
	require.NoError(t, os.WriteFile(patchfile, []byte(`{"edits": []}`), 0o644))

	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-patchfile", patchfile}, nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "schema validation")
}

func TestRunListPrintsBuiltinEdits(t *testing.T) {
	var stdout bytes.Buffer
	code := Run(context.Background(), []string{"-list"}, &stdout, nil)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "admin-user-type")
	require.Contains(t, stdout.String(), "admin-consensus-select")
	require.Contains(t, stdout.String(), "admin-include-select")
}

func TestRunRequiresRoot(t *testing.T) {
	t.Setenv("FTC_PLATFORM_ROOT", "")

	var stderr bytes.Buffer
	code := Run(context.Background(), nil, nil, &stderr)
	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "-root")
}

func TestRunUnknownEdit(t *testing.T) {
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-root", t.TempDir(), "-edit", "nope"}, nil, &stderr)
	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "unknown edit")
}

func TestRunUnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-bogus"}, nil, &stderr)
	require.Equal(t, 2, code)
}

func TestRunMissingTargetFileFails(t *testing.T) {
	root := t.TempDir()

	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-root", root, "-edit", "admin-user-type"}, nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "could not read/write file")
}
