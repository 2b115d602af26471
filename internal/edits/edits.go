// Package edits defines the builtin admin-field migrations for an
// ftc-platform checkout: the admin UI's inline user type and the application
// router's user queries gain the adminNotes, adminLabels and adminUpdatedAt
// fields.
package edits

import (
	"path/filepath"

	"github.com/ftc-platform/tspatch/pkg/textpatch"
)

// Edit names one substitution set targeting a single file. Path is resolved
// against the checkout root at construction time; the patches carry the
// whitespace-tolerant patterns so the edits survive reformatting of the
// target files.
type Edit struct {
	Name    string
	Path    string
	Patches []textpatch.Patch
}

const (
	adminClientPath       = "src/app/admin/events/[eventId]/applications/AdminApplicationsClient.tsx"
	applicationRouterPath = "src/server/api/routers/application.ts"
)

// The inline user type rendered by the admin applications client. The
// replacement re-emits the matched prefix so a second run finds nothing to
// match, keeping the edit idempotent.
const userTypePattern = `user: \{\s*id: string;\s*name: string \| null;\s*email: string \| null;\s*profile\?:`

const userTypeReplacement = `user: {
    id: string;
    name: string | null;
    email: string | null;
    adminNotes: string | null;
    adminLabels: string[];
    adminUpdatedAt: Date | null;
    profile?:`

// The consensus query selects a narrow user projection; widen it to include
// the admin fields and the profile relation.
const consensusSelectPattern = `user: \{\s*select: \{\s*id: true,\s*name: true,\s*email: true,\s*\},\s*\},`

// The main listing query uses include rather than select; replace the block
// wholesale with an explicit field list.
const includeBlockPattern = `user: \{\s*include: \{\s*profile: true,\s*\},\s*\},`

const userSelectReplacement = `user: {
            select: {
              id: true,
              name: true,
              email: true,
              adminNotes: true,
              adminLabels: true,
              adminUpdatedAt: true,
              profile: true,
            },
          },`

// Builtin returns the admin-field edit set with every target path resolved
// against root.
func Builtin(root string) []Edit {
	return []Edit{
		{
			Name: "admin-user-type",
			Path: filepath.Join(root, adminClientPath),
			Patches: []textpatch.Patch{{
				Pattern:     userTypePattern,
				Replacement: userTypeReplacement,
			}},
		},
		{
			Name: "admin-consensus-select",
			Path: filepath.Join(root, applicationRouterPath),
			Patches: []textpatch.Patch{{
				Pattern:     consensusSelectPattern,
				Replacement: userSelectReplacement,
			}},
		},
		{
			Name: "admin-include-select",
			Path: filepath.Join(root, applicationRouterPath),
			Patches: []textpatch.Patch{{
				Pattern:     includeBlockPattern,
				Replacement: userSelectReplacement,
			}},
		},
	}
}

// ByName finds an edit in the provided set.
func ByName(set []Edit, name string) (Edit, bool) {
	for _, edit := range set {
		if edit.Name == name {
			return edit, true
		}
	}
	return Edit{}, false
}
