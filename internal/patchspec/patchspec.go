// Package patchspec loads declarative patchfiles: JSON documents describing
// which files to edit and which substitutions to apply, as an alternative to
// the builtin edit set.
package patchspec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ftc-platform/tspatch/internal/edits"
	"github.com/ftc-platform/tspatch/pkg/textpatch"
)

const schemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["edits"],
  "additionalProperties": false,
  "properties": {
    "edits": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["path", "patches"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "path": {"type": "string", "minLength": 1},
          "patches": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["pattern", "replacement"],
              "additionalProperties": false,
              "properties": {
                "pattern": {"type": "string", "minLength": 1},
                "replacement": {"type": "string"},
                "matchPolicy": {"enum": ["all", "first"]},
                "expand": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

var (
	schemaLoader     gojsonschema.JSONLoader
	schemaLoaderOnce sync.Once
)

type document struct {
	Edits []editSpec `json:"edits"`
}

type editSpec struct {
	Name    string      `json:"name"`
	Path    string      `json:"path"`
	Patches []patchSpec `json:"patches"`
}

type patchSpec struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	MatchPolicy string `json:"matchPolicy,omitempty"`
	Expand      bool   `json:"expand,omitempty"`
}

// Load reads a patchfile from disk and converts it into edits. Relative
// target paths are resolved against root.
func Load(path, root string) ([]edits.Edit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patchfile %s: %w", path, err)
	}
	return Parse(raw, root)
}

// Parse validates the raw patchfile against the embedded schema before
// hydrating it, so malformed documents surface every violation instead of a
// partial unmarshal.
func Parse(raw []byte, root string) ([]edits.Edit, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("patchfile is not valid JSON: %w", err)
	}

	out := make([]edits.Edit, 0, len(doc.Edits))
	for _, spec := range doc.Edits {
		target := spec.Path
		if !filepath.IsAbs(target) && root != "" {
			target = filepath.Join(root, target)
		}
		patches := make([]textpatch.Patch, 0, len(spec.Patches))
		for _, p := range spec.Patches {
			policy := textpatch.MatchAll
			if p.MatchPolicy == "first" {
				policy = textpatch.MatchFirst
			}
			patches = append(patches, textpatch.Patch{
				Pattern:     p.Pattern,
				Replacement: p.Replacement,
				MatchPolicy: policy,
				Expand:      p.Expand,
			})
		}
		out = append(out, edits.Edit{Name: spec.Name, Path: target, Patches: patches})
	}
	return out, nil
}

func validate(raw []byte) error {
	result, err := gojsonschema.Validate(loadSchema(), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("patchfile validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("patchfile failed schema validation: %s", strings.Join(issues, "; "))
}

func loadSchema() gojsonschema.JSONLoader {
	schemaLoaderOnce.Do(func() {
		schemaLoader = gojsonschema.NewStringLoader(schemaSource)
	})
	return schemaLoader
}
