// Package view turns session state into a page model and renders it as HTML.
package view

import (
	"html/template"

	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/i18n"
	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
)

// PageModel is everything the page template reads.
type PageModel struct {
	Lang      types.Language
	LangLabel string
	T         map[string]string
	Tabs      []TabModel
	ActiveTab types.Tab
	Flash     string
	Refresh   bool // reload while an upload is in progress

	Hero     HeroModel
	Projects []catalog.Entry
	Stack    []types.StackItem
	AI       AIModel
	Modal    *ModalModel
}

// TabModel is one navigation entry.
type TabModel struct {
	ID     types.Tab
	Label  string
	Active bool
}

// HeroModel is the home tab copy, either the defaults or the adapted version.
type HeroModel struct {
	Name        string
	Subtitle    string
	Keywords    string
	Description string
	Snippet     adapt.Snippet
	AdaptedFor  string
}

// AIModel drives the upload panel. Exactly one of Idle, Loading or Result is set.
type AIModel struct {
	Status     types.Status
	Idle       bool
	Loading    bool
	Result     bool
	HasPreview bool
	Preview    template.URL
	Company    string
	Role       string
	CanApply   bool
}

// ModalModel is an open project with its carousel.
type ModalModel struct {
	Project     catalog.Entry
	Index       int
	Position    int // 1-based, for display
	Len         int
	Style       template.CSS
	HasControls bool
}

// Builder assembles page models from session state.
type Builder struct {
	translator *i18n.Translator
	catalog    *catalog.Catalog
}

// NewBuilder creates a Builder over the translation table and the catalog.
func NewBuilder(translator *i18n.Translator, cat *catalog.Catalog) *Builder {
	return &Builder{translator: translator, catalog: cat}
}

// Build maps state to a page model. It has no side effects; equal states give equal models.
func (b *Builder) Build(state *session.State) PageModel {
	if state == nil {
		state = session.NewState("")
	}
	lang := state.Language
	if !lang.Valid() {
		lang = types.DefaultLanguage
	}
	tab := state.Tab
	if !tab.Valid() {
		tab = types.TabHome
	}

	m := PageModel{
		Lang:      lang,
		LangLabel: i18n.Label(lang),
		T:         b.translator.Dict(lang),
		ActiveTab: tab,
		Refresh:   state.Status == types.StatusLoading,
		Hero:      b.hero(state.Applied, lang),
		Projects:  b.catalog.List(lang),
		Stack:     b.catalog.Stack(),
		AI:        buildAI(state),
		Modal:     b.modal(state, lang),
	}
	if state.Flash != "" {
		m.Flash = b.translator.T(lang, state.Flash)
	}

	m.Tabs = make([]TabModel, len(types.Tabs))
	for i, t := range types.Tabs {
		m.Tabs[i] = TabModel{ID: t, Label: b.translator.T(lang, "nav."+string(t)), Active: t == tab}
	}
	return m
}

func (b *Builder) hero(applied *types.AnalysisRecord, lang types.Language) HeroModel {
	name := b.translator.T(lang, "hero.name")
	if hero, err := adapt.Apply(applied, lang); err == nil && hero != nil {
		return HeroModel{
			Name:        name,
			Subtitle:    hero.Subtitle,
			Keywords:    hero.Keywords,
			Description: hero.Description,
			Snippet:     hero.Snippet,
			AdaptedFor:  hero.Company,
		}
	}
	return HeroModel{
		Name:        name,
		Subtitle:    b.translator.T(lang, "hero.subtitle"),
		Keywords:    b.translator.T(lang, "hero.keywords"),
		Description: b.translator.T(lang, "hero.description"),
		Snippet:     adapt.DefaultSnippet(),
	}
}

func buildAI(state *session.State) AIModel {
	status := state.Status
	switch status {
	case types.StatusIdle, types.StatusLoading, types.StatusResult:
	default:
		status = types.StatusIdle
	}

	ai := AIModel{
		Status:  status,
		Idle:    status == types.StatusIdle,
		Loading: status == types.StatusLoading,
		Result:  status == types.StatusResult,
	}
	if state.Preview != "" {
		ai.HasPreview = true
		// Preview is produced by analysis.Encode, never taken from user text.
		ai.Preview = template.URL(state.Preview) //nolint:gosec
	}
	if ai.Result && state.Record != nil {
		ai.Company = state.Record.Company
		ai.Role = state.Record.Role
		ai.CanApply = true
	}
	return ai
}

func (b *Builder) modal(state *session.State, lang types.Language) *ModalModel {
	if state.Gallery == nil {
		return nil
	}
	entry, err := b.catalog.Entry(state.Gallery.ProjectID, lang)
	if err != nil {
		return nil
	}
	c := *state.Gallery
	c.Len = len(entry.Images)
	if c.Index >= c.Len {
		c.Index = 0
	}
	return &ModalModel{
		Project:     entry,
		Index:       c.Index,
		Position:    c.Index + 1,
		Len:         c.Len,
		Style:       template.CSS("transform: " + c.Offset()),
		HasControls: c.HasControls(),
	}
}
