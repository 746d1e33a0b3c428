// Package i18n holds the static page copy for every supported language.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/portfolio-site/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var defaultLocales []byte

// Translator looks up page copy by (language, tag).
type Translator struct {
	table map[string]map[types.Language]string
}

// New returns a Translator over the embedded locale table.
func New() (*Translator, error) {
	return Parse(defaultLocales)
}

// MustNew is New for callers that cannot start without translations.
func MustNew() *Translator {
	t, err := New()
	if err != nil {
		panic(fmt.Sprintf("failed to load locales: %v", err))
	}
	return t
}

// Parse builds a Translator from a YAML document mapping tag -> language -> text.
// Every tag must carry a default-language entry.
func Parse(data []byte) (*Translator, error) {
	var table map[string]map[types.Language]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse locales: %w", err)
	}

	for tag, entries := range table {
		if entries[types.DefaultLanguage] == "" {
			return nil, fmt.Errorf("tag %q has no %q translation", tag, types.DefaultLanguage)
		}
		for lang := range entries {
			if !lang.Valid() {
				return nil, fmt.Errorf("tag %q has unsupported language %q", tag, lang)
			}
		}
	}

	return &Translator{table: table}, nil
}

// T returns the text for tag in lang. A missing translation falls back to the
// default language; an unknown tag is returned as-is.
func (t *Translator) T(lang types.Language, tag string) string {
	entries, ok := t.table[tag]
	if !ok {
		return tag
	}
	if text, ok := entries[lang]; ok && text != "" {
		return text
	}
	return entries[types.DefaultLanguage]
}

// Dict resolves every tag for lang.
func (t *Translator) Dict(lang types.Language) map[string]string {
	dict := make(map[string]string, len(t.table))
	for tag := range t.table {
		dict[tag] = t.T(lang, tag)
	}
	return dict
}

// Tags returns the known tags, sorted.
func (t *Translator) Tags() []string {
	tags := make([]string, 0, len(t.table))
	for tag := range t.table {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Toggle flips between the two supported languages. Anything unrecognised is
// treated as the default language.
func Toggle(lang types.Language) types.Language {
	if lang == types.LangES {
		return types.LangEN
	}
	if lang == types.LangEN {
		return types.LangES
	}
	return types.LangEN
}

// Label is the text on the language switch.
func Label(lang types.Language) string {
	return strings.ToUpper(string(lang))
}

// ParseLanguage normalises s to a supported language, falling back to the default.
func ParseLanguage(s string) types.Language {
	lang := types.Language(strings.ToLower(strings.TrimSpace(s)))
	if lang.Valid() {
		return lang
	}
	return types.DefaultLanguage
}
