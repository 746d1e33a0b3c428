package types

// Language is a supported content language code.
type Language string

// Supported languages
const (
	LangES Language = "es"
	LangEN Language = "en"
)

// DefaultLanguage is the language a fresh visitor sees.
const DefaultLanguage = LangES

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LangES || l == LangEN
}

// Tab identifies one of the page's top-level views.
type Tab string

// Page tabs
const (
	TabHome     Tab = "home"
	TabProjects Tab = "projects"
	TabStack    Tab = "stack"
	TabAI       Tab = "ai"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabHome, TabProjects, TabStack, TabAI}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// Project is a case study in the portfolio catalog.
type Project struct {
	ID        string                   `json:"id" yaml:"id" validate:"required"`
	Images    []string                 `json:"images" yaml:"images"`
	Tags      []string                 `json:"tags" yaml:"tags"`
	Localized map[Language]ProjectText `json:"localized" yaml:"localized" validate:"required,dive"`
}

// ProjectText holds the language-specific fields of a project.
type ProjectText struct {
	Title     string `json:"title" yaml:"title" validate:"required"`
	Summary   string `json:"summary" yaml:"summary"`
	Challenge string `json:"challenge" yaml:"challenge"`
	Solution  string `json:"solution" yaml:"solution"`
	Outcome   string `json:"outcome" yaml:"outcome"`
}

// StackItem is a technology card on the stack tab.
type StackItem struct {
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}
