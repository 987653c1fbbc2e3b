package rulefile

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stochrammar/internal/engine"
	"github.com/roach88/stochrammar/internal/grammar"
	"github.com/roach88/stochrammar/internal/textgrammar"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	doc, err := Load("testdata/magic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "magic", doc.Name)
	assert.Equal(t, "abra/cadabra words", doc.Description)
	require.Len(t, doc.Rules, 4)
	assert.Equal(t, []Symbol{{Lit: "cadabra"}, {Ref: "ROOT"}}, doc.Rules[3].RHS)
}

func TestLoad_CUE(t *testing.T) {
	doc, err := Load("testdata/traversal.cue")
	require.NoError(t, err)

	assert.Equal(t, "traversal", doc.Name)
	require.Len(t, doc.Rules, 5)
	assert.Equal(t, "B", doc.Rules[1].Key)
	assert.Empty(t, doc.Unresolved())
}

func TestLoad_TOML(t *testing.T) {
	g, doc, err := LoadGrammar("testdata/chain.toml")
	require.NoError(t, err)

	assert.Equal(t, "chain", doc.Name)
	assert.Equal(t, "A -> B -> C -> ground", doc.Description)
	require.Len(t, doc.Rules, 3)
	assert.Equal(t, []Symbol{{Lit: "ground"}}, doc.Rules[2].RHS)

	out, err := engine.NewTree[*strings.Builder](g).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "ground", out.String())
}

func TestLoadGrammar_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		normalize string
		want      string
	}{
		{"verbatim by default", "", "cafe\u0301"},
		{"nfc", "normalize: nfc\n", "caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "cafe.yaml", tt.normalize+"rules:\n  - key: ROOT\n    rhs: [{lit: \"cafe\\u0301\"}]\n")

			g, _, err := LoadGrammar(path)
			require.NoError(t, err)

			out, err := engine.NewSequence[*strings.Builder](g).Run(grammar.NewRand(1))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestLoadGrammar_RunsUnderBothEngines(t *testing.T) {
	g, _, err := LoadGrammar("testdata/traversal.cue")
	require.NoError(t, err)

	seq, err := engine.NewSequence[*strings.Builder](g).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "abdebca", seq.String())

	bfs, err := engine.NewTree[*strings.Builder](g, engine.WithTraversal(engine.BreadthFirst)).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "aabbcde", bfs.String())
}

func TestLoadGrammar_YAMLMatchesLanguage(t *testing.T) {
	g, _, err := LoadGrammar("testdata/magic.yaml")
	require.NoError(t, err)

	re := regexp.MustCompile(`^(abra|cadabra)+$`)
	rng := grammar.NewRand(3)
	r := engine.NewSequence[*strings.Builder](g)
	for i := 0; i < 50; i++ {
		out, err := r.Run(rng)
		require.NoError(t, err)
		assert.Regexp(t, re, out.String())
	}
}

func TestLoad_Weights(t *testing.T) {
	path := writeFile(t, "w.yaml", `
rules:
  - key: ROOT
    weight: 0.25
    rhs: [{lit: a}]
  - key: ROOT
    rhs: [{lit: b}]
`)
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "w", doc.Name, "name defaults to the file stem")
	assert.Equal(t, 0.25, doc.Rules[0].Weight)

	g, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Alternatives(textgrammar.RootKey))
}

func TestLoad_EmptyRHSIsEpsilon(t *testing.T) {
	path := writeFile(t, "eps.cue", `
rules: [
	{key: "ROOT", rhs: [{lit: "["}, {ref: "E"}, {lit: "]"}]},
	{key: "E"},
]
`)
	g, _, err := LoadGrammar(path)
	require.NoError(t, err)

	out, err := engine.NewSequence[*strings.Builder](g).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "[]", out.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
		contains string
	}{
		{
			name:     "unknown field",
			file:     "typo.yaml",
			content:  "rules:\n  - key: ROOT\n    rsh: []\n",
			wantCode: ErrCodeParse,
			contains: "rsh",
		},
		{
			name:     "empty document",
			file:     "empty.yaml",
			content:  "",
			wantCode: ErrCodeInvalid,
			contains: "rules list is required",
		},
		{
			name:     "missing key",
			file:     "nokey.yaml",
			content:  "rules:\n  - rhs: [{lit: a}]\n",
			wantCode: ErrCodeInvalid,
			contains: "rules[0]: key is required",
		},
		{
			name:     "lit and ref",
			file:     "both.yaml",
			content:  "rules:\n  - key: ROOT\n    rhs: [{lit: a, ref: B}]\n",
			wantCode: ErrCodeInvalid,
			contains: "mutually exclusive",
		},
		{
			name:     "negative weight",
			file:     "neg.yaml",
			content:  "rules:\n  - key: ROOT\n    weight: -1\n",
			wantCode: ErrCodeInvalid,
			contains: "weight",
		},
		{
			name:     "unknown toml field",
			file:     "typo.toml",
			content:  "[[rules]]\nkey = \"ROOT\"\nrsh = []\n",
			wantCode: ErrCodeParse,
			contains: "rsh",
		},
		{
			name:     "bad toml",
			file:     "bad.toml",
			content:  "[[rules]\n",
			wantCode: ErrCodeParse,
		},
		{
			name:     "unknown normalization",
			file:     "nfd.yaml",
			content:  "normalize: nfd\nrules:\n  - key: ROOT\n",
			wantCode: ErrCodeInvalid,
			contains: "normalize must be",
		},
		{
			name:     "bad cue",
			file:     "bad.cue",
			content:  "rules: [ {key: \n",
			wantCode: ErrCodeParse,
		},
		{
			name:     "unsupported extension",
			file:     "rules.json",
			content:  "{}",
			wantCode: ErrCodeUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.wantCode, le.Code)
			assert.Equal(t, path, le.Path)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestCheck_Unresolved(t *testing.T) {
	path := writeFile(t, "dangling.yaml", `
rules:
  - key: ROOT
    rhs: [{ref: A}, {ref: B}, {ref: A}]
  - key: A
    rhs: [{ref: C}]
`)
	doc, err := Check(path)
	require.Error(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, []string{"B", "C"}, doc.Unresolved())

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeUnresolved, le.Code)
	assert.True(t, textgrammar.IsMissingRuleError(err))

	_, err = Check("testdata/magic.yaml")
	assert.NoError(t, err)
}
