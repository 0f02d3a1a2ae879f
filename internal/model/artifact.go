package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// KindRandomForest is the only artifact kind this package understands.
const KindRandomForest = "random_forest"

// SupportedMajor is the artifact format major version this build reads.
const SupportedMajor = "v1"

// Artifact is the on-disk form of a trained classifier.
type Artifact struct {
	FormatVersion string   `json:"format_version"`
	Kind          string   `json:"kind"`
	Description   string   `json:"description,omitempty"`
	FeatureNames  []string `json:"feature_names"`
	Trees         []Tree   `json:"trees"`
}

const artifactSchemaURL = "schema://model-artifact.json"

const artifactSchema = `{
  "type": "object",
  "required": ["format_version", "kind", "feature_names", "trees"],
  "properties": {
    "format_version": {"type": "string", "minLength": 1},
    "kind": {"type": "string"},
    "description": {"type": "string"},
    "feature_names": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 5,
      "maxItems": 5
    },
    "trees": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["nodes"],
        "properties": {
          "nodes": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["left", "right"],
              "properties": {
                "feature": {"type": "integer", "minimum": 0},
                "threshold": {"type": "number"},
                "left": {"type": "integer", "minimum": -1},
                "right": {"type": "integer", "minimum": -1},
                "value": {
                  "type": "array",
                  "items": {"type": "number", "minimum": 0}
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(artifactSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(artifactSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(artifactSchemaURL)
	})
	return compiledSchema, compileErr
}

// Load reads the artifact at path and builds its forest.
// A missing file yields *ErrModelUnavailable; any other problem yields
// *ErrInvalidArtifact.
func Load(path string) (*Forest, *Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &ErrModelUnavailable{Path: path, Err: err}
		}
		return nil, nil, &ErrInvalidArtifact{Path: path, Err: err}
	}
	forest, art, err := Parse(data)
	if err != nil {
		return nil, nil, &ErrInvalidArtifact{Path: path, Err: err}
	}
	return forest, art, nil
}

// Parse validates raw artifact JSON and builds its forest.
func Parse(data []byte) (*Forest, *Artifact, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := schema()
	if err != nil {
		return nil, nil, fmt.Errorf("compile artifact schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := checkHeader(&art); err != nil {
		return nil, nil, err
	}

	forest, err := NewForest(art.Trees)
	if err != nil {
		return nil, nil, err
	}
	return forest, &art, nil
}

func checkHeader(art *Artifact) error {
	if !semver.IsValid(art.FormatVersion) {
		return fmt.Errorf("format_version %q is not a semantic version", art.FormatVersion)
	}
	if major := semver.Major(art.FormatVersion); major != SupportedMajor {
		return fmt.Errorf("format_version %s: unsupported major %s (want %s)", art.FormatVersion, major, SupportedMajor)
	}
	if art.Kind != KindRandomForest {
		return fmt.Errorf("unsupported kind %q", art.Kind)
	}
	for i, name := range FeatureNames {
		if art.FeatureNames[i] != name {
			return fmt.Errorf("feature %d is %q, want %q", i, art.FeatureNames[i], name)
		}
	}
	return nil
}
