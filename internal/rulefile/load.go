package rulefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/stochrammar/internal/textgrammar"
)

// Load reads a rule file, choosing the decoder by extension:
// .yaml/.yml for YAML, .toml for TOML, .cue for CUE.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "rule file not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "failed to read rule file", Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data, path)
	case ".toml":
		return DecodeTOML(data, path)
	case ".cue":
		return DecodeCUE(data, path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported extension %q: use .yaml, .yml, .toml or .cue", filepath.Ext(path)),
			Path:    path,
		}
	}
}

// DecodeYAML decodes and validates a YAML rule table. Unknown fields are
// rejected so that typos ("rhs" vs "rsh") surface immediately. source names
// the input in error messages.
func DecodeYAML(data []byte, source string) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to parse YAML", Path: source, Err: err}
	}
	return validated(&doc, source)
}

// DecodeTOML decodes and validates a TOML rule table. Like DecodeYAML it
// rejects keys that do not map to a Document field.
func DecodeTOML(data []byte, source string) (*Document, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to parse TOML", Path: source, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &LoadError{
			Code:    ErrCodeParse,
			Message: fmt.Sprintf("unknown field(s): %s", strings.Join(keys, ", ")),
			Path:    source,
		}
	}
	return validated(&doc, source)
}

// DecodeCUE evaluates and validates a CUE rule table.
func DecodeCUE(data []byte, source string) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(source))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to compile CUE", Path: source, Err: err}
	}

	var doc Document
	if err := value.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "failed to decode CUE value", Path: source, Err: err}
	}
	return validated(&doc, source)
}

func validated(doc *Document, source string) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: "invalid rule table", Path: source, Err: err}
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	return doc, nil
}

// LoadGrammar loads a rule file and builds its grammar. References to
// undefined keys are not an error here; they fail the run that reaches
// them. Use Document.Unresolved or Check to find them up front.
func LoadGrammar(path string) (*textgrammar.Grammar, *Document, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := doc.Build()
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeInvalid, Message: "failed to build grammar", Path: path, Err: err}
	}
	return g, doc, nil
}

// Check loads a rule file and reports every structural problem and every
// undefined reference.
func Check(path string) (*Document, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	if missing := doc.Unresolved(); len(missing) > 0 {
		errs := make([]error, len(missing))
		for i, key := range missing {
			errs[i] = &textgrammar.MissingRuleError{Key: key}
		}
		return doc, &LoadError{
			Code:    ErrCodeUnresolved,
			Message: fmt.Sprintf("%d undefined rule reference(s)", len(missing)),
			Path:    path,
			Err:     errors.Join(errs...),
		}
	}
	return doc, nil
}
