package i18n

import (
	"testing"

	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmbeddedTableIsComplete(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	for _, tag := range tr.Tags() {
		assert.NotEmpty(t, tr.T(types.LangES, tag), tag)
		assert.NotEmpty(t, tr.T(types.LangEN, tag), tag)
	}
	assert.Contains(t, tr.Tags(), "ai.error")
}

func TestTranslator_T(t *testing.T) {
	tr, err := Parse([]byte(`
greeting:
  es: Hola
  en: Hello
only.es:
  es: Solo
`))
	require.NoError(t, err)

	tests := []struct {
		name string
		lang types.Language
		tag  string
		want string
	}{
		{name: "spanish", lang: types.LangES, tag: "greeting", want: "Hola"},
		{name: "english", lang: types.LangEN, tag: "greeting", want: "Hello"},
		{name: "missing translation falls back", lang: types.LangEN, tag: "only.es", want: "Solo"},
		{name: "unknown tag echoes", lang: types.LangEN, tag: "nope", want: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.T(tt.lang, tt.tag))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "{{{"},
		{name: "missing default language", doc: "greeting:\n  en: Hello\n"},
		{name: "unsupported language", doc: "greeting:\n  es: Hola\n  fr: Bonjour\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestToggle(t *testing.T) {
	assert.Equal(t, types.LangEN, Toggle(types.LangES))
	assert.Equal(t, types.LangES, Toggle(types.LangEN))

	for _, lang := range []types.Language{types.LangES, types.LangEN} {
		assert.Equal(t, lang, Toggle(Toggle(lang)))
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "ES", Label(types.LangES))
	assert.Equal(t, "EN", Label(types.LangEN))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, types.LangEN, ParseLanguage(" EN "))
	assert.Equal(t, types.LangES, ParseLanguage("es"))
	assert.Equal(t, types.LangES, ParseLanguage("fr"))
	assert.Equal(t, types.LangES, ParseLanguage(""))
}

func TestDict(t *testing.T) {
	tr := MustNew()
	dict := tr.Dict(types.LangEN)

	assert.Equal(t, "Home", dict["nav.home"])
	assert.Len(t, dict, len(tr.Tags()))
}
