package adapt

import "strings"

// Defaults shown before any adaptation, and the fallbacks used when a record omits a field.
const (
	DefaultRole            = "Solution Architect"
	DefaultExperience      = "3+ Years"
	FallbackExperience     = "3+ Yrs"
	snippetVariable        = "ary"
	snippetSkillsSeparator = ", "
	keywordSeparator       = " • "
	subtitleSuffix         = " Specialized"
)

// DefaultStack is the generic skills list for the code preview.
var DefaultStack = []string{"Laravel", "WordPress", "IA Integration"}

// SnippetData feeds the code-style preview on the home tab.
type SnippetData struct {
	Role       string
	Experience string
	Stack      []string
	KeySkills  []string
}

// Snippet is the rendered code preview: one line per token run, each with a style class.
type Snippet struct {
	Role       string   `json:"role"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	Lines      []Line   `json:"lines"`
}

// Line is a row of styled tokens.
type Line struct {
	Tokens []Token `json:"tokens"`
}

// Token is a run of text and the CSS class it is drawn with ("" for plain).
type Token struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// DefaultSnippet is the preview shown until a record is applied.
func DefaultSnippet() Snippet {
	return BuildSnippet(SnippetData{
		Role:       DefaultRole,
		Experience: DefaultExperience,
		Stack:      DefaultStack,
	})
}

// BuildSnippet renders the preview. Experience falls back to "3+ Yrs"; skills prefer Stack,
// then KeySkills, then DefaultStack. A present but empty list is used as is.
func BuildSnippet(data SnippetData) Snippet {
	experience := data.Experience
	if experience == "" {
		experience = FallbackExperience
	}

	skills := data.Stack
	if skills == nil {
		skills = data.KeySkills
	}
	if skills == nil {
		skills = DefaultStack
	}

	quoted := make([]string, len(skills))
	for i, s := range skills {
		quoted[i] = `"` + s + `"`
	}

	return Snippet{
		Role:       data.Role,
		Experience: experience,
		Skills:     append(make([]string, 0, len(skills)), skills...),
		Lines: []Line{
			{Tokens: []Token{{Text: "const", Class: "text-brand-pink"}, {Text: " "}, {Text: snippetVariable, Class: "text-white"}, {Text: " = {"}}},
			{Tokens: []Token{{Text: "  role: "}, {Text: `"` + data.Role + `"`, Class: "text-brand-lavender"}, {Text: ","}}},
			{Tokens: []Token{{Text: "  exp: "}, {Text: `"` + experience + `"`, Class: "text-brand-lavender"}, {Text: ","}}},
			{Tokens: []Token{{Text: "  skills: [" + strings.Join(quoted, snippetSkillsSeparator) + "]"}}},
			{Tokens: []Token{{Text: "};"}}},
		},
	}
}

// Text flattens the snippet to plain source text.
func (s Snippet) Text() string {
	var sb strings.Builder
	for i, line := range s.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, tok := range line.Tokens {
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}
