package ingest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/roach88/reachkb/internal/ir"
)

//go:embed schema.cue
var schemaSrc string

// Ingestor decodes sources against the embedded schema.
// An Ingestor is not safe for concurrent use; create one per build.
type Ingestor struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewIngestor compiles the source schema.
func NewIngestor() (*Ingestor, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile source schema: %w", err)
	}
	return &Ingestor{ctx: ctx, schema: schema}, nil
}

// Ingest decodes every source with a fresh Ingestor.
func Ingest(src Sources) (*Records, []ir.Diagnostic, error) {
	in, err := NewIngestor()
	if err != nil {
		return nil, nil, err
	}
	return in.Ingest(src)
}

// sourceSpec binds a source to its schema definition and decode target.
type sourceSpec struct {
	name       string
	path       string
	required   bool
	definition string
	into       any
}

// Ingest decodes every source in src. Required sources fail fast; absent
// optional sources produce a W201 diagnostic and leave their records empty.
func (in *Ingestor) Ingest(src Sources) (*Records, []ir.Diagnostic, error) {
	var (
		classes struct {
			Classes []ClassRecord `json:"classes"`
		}
		morphology struct {
			Classes []MorphologyRecord `json:"classes"`
		}
		transitions struct {
			Transitions []TransitionRecord `json:"transitions"`
		}
		contexts struct {
			Contexts []ContextRecord `json:"contexts"`
		}
	)

	rec := &Records{
		Zones:             make(map[string][]string),
		ContextVocabulary: make(map[string]ActivationRecord),
		Regimes:           make(map[string][]string),
		Completeness:      make(map[string]CompletenessRecord),
		Digests:           make(map[string]string),
		Present:           make(map[string]bool),
	}

	specs := []sourceSpec{
		{SourceClasses, src.Classes, true, "#Classes", &classes},
		{SourceMorphology, src.Morphology, true, "#Morphology", &morphology},
		{SourceTransitions, src.Transitions, true, "#Transitions", &transitions},
		{SourceContexts, src.Contexts, true, "#Contexts", &contexts},
		{SourceZones, src.Zones, false, "#Zones", &rec.Zones},
		{SourceContextVocabulary, src.ContextVocabulary, false, "#ContextVocabulary", &rec.ContextVocabulary},
		{SourceRegimes, src.Regimes, false, "#Regimes", &rec.Regimes},
		{SourceCompleteness, src.Completeness, false, "#Completeness", &rec.Completeness},
	}

	var diags []ir.Diagnostic
	for _, spec := range specs {
		digest, found, err := in.decode(spec)
		if err != nil {
			return nil, diags, err
		}
		if !found {
			if spec.required {
				return nil, diags, &SourceError{
					Source:  spec.name,
					Code:    ErrCodeMissingRequired,
					Message: missingMessage(spec.path),
				}
			}
			diags = append(diags, ir.Warn(WarnOptionalMissing, spec.name,
				"optional source not loaded (%s); dependent structures stay empty", missingMessage(spec.path)))
			continue
		}
		rec.Digests[spec.name] = digest
		rec.Present[spec.name] = true
	}

	rec.Classes = classes.Classes
	rec.Morphology = morphology.Classes
	rec.Transitions = transitions.Transitions
	rec.Contexts = contexts.Contexts
	normalizeRecords(rec)

	return rec, diags, nil
}

func missingMessage(path string) string {
	if path == "" {
		return "no path configured"
	}
	return fmt.Sprintf("file not found: %s", path)
}

// decode reads, parses, validates and decodes one source.
// found is false only when the file is absent.
func (in *Ingestor) decode(spec sourceSpec) (digest string, found bool, err error) {
	if spec.path == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(spec.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &SourceError{
			Source:  spec.name,
			Code:    ErrCodeReadFailed,
			Message: fmt.Sprintf("reading %s: %v", spec.path, err),
		}
	}

	v, err := in.parse(spec.path, data)
	if err != nil {
		return "", false, formatCUEError(spec.name, spec.path, ErrCodeParseFailed, err)
	}

	def := in.schema.LookupPath(cue.ParsePath(spec.definition))
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return "", false, formatCUEError(spec.name, spec.path, ErrCodeSchema, err)
	}
	if err := unified.Decode(spec.into); err != nil {
		return "", false, formatCUEError(spec.name, spec.path, ErrCodeSchema, err)
	}

	return ir.SourceDigest(data), true, nil
}

// parse extracts a CUE value from JSON or YAML, keeping file positions.
func (in *Ingestor) parse(path string, data []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := cueyaml.Extract(path, data)
		if err != nil {
			return cue.Value{}, err
		}
		v := in.ctx.BuildFile(f)
		return v, v.Err()
	default:
		expr, err := cuejson.Extract(path, data)
		if err != nil {
			return cue.Value{}, err
		}
		v := in.ctx.BuildExpr(expr)
		return v, v.Err()
	}
}
