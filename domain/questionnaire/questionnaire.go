// Package questionnaire validates free-form answers against versioned JSON schemas and turns them
// into QuestionnaireResponse values that aggregates can store.
package questionnaire

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"connecting-party-manager/domain/core/valueobjects"
	pkgerrors "connecting-party-manager/pkg/errors"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const schemaURIPrefix = "urn:cpm:questionnaire:"

// Questionnaire is one compiled, versioned schema
type Questionnaire struct {
	name    string
	version string
	schema  *jschema.Schema
}

// Name returns the questionnaire name
func (q *Questionnaire) Name() string { return q.name }

// Version returns the questionnaire version
func (q *Questionnaire) Version() string { return q.version }

// ID returns "{name}/{version}"
func (q *Questionnaire) ID() string { return valueobjects.QuestionnaireID(q.name, q.version) }

// Respond validates data and returns it as a new response
func (q *Questionnaire) Respond(data map[string]interface{}) (valueobjects.QuestionnaireResponse, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return valueobjects.QuestionnaireResponse{}, pkgerrors.NewValidationError(
			fmt.Sprintf("questionnaire '%s' data is not JSON serialisable", q.ID())).WithCause(err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return valueobjects.QuestionnaireResponse{}, pkgerrors.NewValidationError(
			fmt.Sprintf("questionnaire '%s' data could not be decoded", q.ID())).WithCause(err)
	}
	if err := q.schema.Validate(inst); err != nil {
		return valueobjects.QuestionnaireResponse{}, pkgerrors.NewValidationError(
			fmt.Sprintf("response does not satisfy questionnaire '%s'", q.ID())).WithCause(err)
	}

	// Stored data uses plain JSON types so it reads back identically from the table.
	var normalised map[string]interface{}
	if err := json.Unmarshal(raw, &normalised); err != nil {
		return valueobjects.QuestionnaireResponse{}, pkgerrors.NewInternalError("normalising response data").WithCause(err)
	}

	return valueobjects.QuestionnaireResponse{
		ID:                   valueobjects.NewID(),
		QuestionnaireName:    q.name,
		QuestionnaireVersion: q.version,
		Data:                 normalised,
		CreatedOn:            time.Now().UTC(),
	}, nil
}

// Registry holds every known questionnaire
type Registry struct {
	questionnaires map[string]*Questionnaire
}

// NewRegistry compiles the embedded schemas. Files are named {name}.{version}.json.
func NewRegistry() (*Registry, error) {
	sub, err := fs.Sub(schemaFiles, "schemas")
	if err != nil {
		return nil, err
	}
	return NewRegistryFromFS(sub)
}

// NewRegistryFromFS compiles every {name}.{version}.json schema at the root of fsys
func NewRegistryFromFS(fsys fs.FS) (*Registry, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	compiler := jschema.NewCompiler()
	r := &Registry{questionnaires: make(map[string]*Questionnaire, len(files))}
	for _, file := range files {
		name, version, ok := strings.Cut(strings.TrimSuffix(path.Base(file), ".json"), ".")
		if !ok {
			return nil, fmt.Errorf("questionnaire: schema file %q is not named {name}.{version}.json", file)
		}
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("questionnaire: reading %s: %w", file, err)
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("questionnaire: parsing %s: %w", file, err)
		}
		uri := schemaURIPrefix + valueobjects.QuestionnaireID(name, version)
		if err := compiler.AddResource(uri, doc); err != nil {
			return nil, fmt.Errorf("questionnaire: adding %s: %w", file, err)
		}
		compiled, err := compiler.Compile(uri)
		if err != nil {
			return nil, fmt.Errorf("questionnaire: compiling %s: %w", file, err)
		}
		q := &Questionnaire{name: name, version: version, schema: compiled}
		r.questionnaires[q.ID()] = q
	}
	return r, nil
}

// Get returns a questionnaire by name and version
func (r *Registry) Get(name, version string) (*Questionnaire, error) {
	q, ok := r.questionnaires[valueobjects.QuestionnaireID(name, version)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("questionnaire '%s' not found", valueobjects.QuestionnaireID(name, version)))
	}
	return q, nil
}

// IDs lists the registered questionnaires
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.questionnaires))
	for id := range r.questionnaires {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
