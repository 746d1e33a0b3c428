package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/gallery"
	"github.com/jonathan/portfolio-site/internal/i18n"
	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(i18n.MustNew(), catalog.MustLoad())
}

func render(t *testing.T, m PageModel) (string, *goquery.Document) {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, m))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return buf.String(), doc
}

func acmeRecord() *types.AnalysisRecord {
	return &types.AnalysisRecord{Company: "Acme", Role: "Engineer", KeySkills: []string{"Go", "SQL"}, Vibe: "speed"}
}

func TestBuild_DefaultState(t *testing.T) {
	m := newBuilder(t).Build(session.NewState("s1"))

	assert.Equal(t, types.LangES, m.Lang)
	assert.Equal(t, "ES", m.LangLabel)
	assert.Equal(t, types.TabHome, m.ActiveTab)
	assert.True(t, m.AI.Idle)
	assert.False(t, m.AI.Loading)
	assert.False(t, m.AI.Result)
	assert.Equal(t, "Solution Architect", m.Hero.Snippet.Role)
	assert.Empty(t, m.Hero.AdaptedFor)
	assert.Nil(t, m.Modal)
	assert.Len(t, m.Stack, 6)

	active := 0
	for _, tab := range m.Tabs {
		if tab.Active {
			active++
			assert.Equal(t, types.TabHome, tab.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestBuild_NilAndInvalidState(t *testing.T) {
	b := newBuilder(t)

	m := b.Build(nil)
	assert.Equal(t, types.LangES, m.Lang)

	m = b.Build(&session.State{Language: "fr", Tab: "nope", Status: "weird"})
	assert.Equal(t, types.LangES, m.Lang)
	assert.Equal(t, types.TabHome, m.ActiveTab)
	assert.True(t, m.AI.Idle)
}

func TestBuild_IsPure(t *testing.T) {
	b := newBuilder(t)
	s := session.NewState("s1")
	s.Record = acmeRecord()
	s.Applied = acmeRecord()
	before := s.Clone()

	first := b.Build(s)
	second := b.Build(s)

	assert.Equal(t, first, second)
	assert.Equal(t, before, s)
}

func TestRender_Result(t *testing.T) {
	s := session.NewState("s1")
	s.Status = types.StatusResult
	s.Record = acmeRecord()
	s.Preview = "data:image/png;base64,iVBORw0KGgo="
	s.Tab = types.TabAI

	_, doc := render(t, newBuilder(t).Build(s))

	assert.True(t, doc.Find("#ai-tab").HasClass("active"))
	assert.Equal(t, 1, doc.Find(".tab-content.active").Length())
	assert.True(t, doc.Find("#ai-idle").HasClass("hidden"))
	assert.True(t, doc.Find("#ai-loading").HasClass("hidden"))
	assert.False(t, doc.Find("#ai-result").HasClass("hidden"))
	assert.Equal(t, "Acme", doc.Find("#res-company").Text())
	assert.Equal(t, "Engineer", doc.Find("#res-role").Text())
	assert.Equal(t, 1, doc.Find("#applyAdaptation").Length())

	src, ok := doc.Find("#imagePreview").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", src)
	assert.True(t, doc.Find("#uploadPlaceholder").HasClass("hidden"))
}

func TestRender_Loading(t *testing.T) {
	s := session.NewState("s1")
	s.Status = types.StatusLoading

	html, doc := render(t, newBuilder(t).Build(s))

	assert.False(t, doc.Find("#ai-loading").HasClass("hidden"))
	assert.True(t, doc.Find("#ai-result").HasClass("hidden"))
	assert.Contains(t, html, `http-equiv="refresh"`)
}

func TestRender_AdaptedHero(t *testing.T) {
	s := session.NewState("s1")
	s.Applied = acmeRecord()

	_, doc := render(t, newBuilder(t).Build(s))

	assert.Equal(t, "Engineer Specialized", doc.Find("#heroSubtitle").Text())
	assert.Equal(t, "Go • SQL", doc.Find("#heroKeywords").Text())
	assert.Contains(t, doc.Find("#heroDescription").Text(), "speed")
	assert.Contains(t, doc.Find("#heroDescription").Text(), "Acme")
	assert.Contains(t, doc.Find("#heroAdapted").Text(), "Acme")

	assert.Equal(t, `const ary = {
  role: "Engineer",
  exp: "3+ Yrs",
  skills: ["Go", "SQL"]
};`, doc.Find("#codeSnippet").Text())
	assert.Equal(t, 2, doc.Find("#codeSnippet .text-brand-lavender").Length())
}

func TestRender_DefaultSnippet(t *testing.T) {
	_, doc := render(t, newBuilder(t).Build(session.NewState("s1")))

	assert.Equal(t, `const ary = {
  role: "Solution Architect",
  exp: "3+ Years",
  skills: ["Laravel", "WordPress", "IA Integration"]
};`, doc.Find("#codeSnippet").Text())
}

func TestRender_Language(t *testing.T) {
	b := newBuilder(t)
	s := session.NewState("s1")
	s.Language = types.LangEN

	_, doc := render(t, b.Build(s))

	assert.Equal(t, "EN", doc.Find("#langLabel").Text())
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "Home", doc.Find(`a[data-tab="home"]`).Text())
	assert.Contains(t, doc.Find("#projects-tab").Text(), "Booking platform")
}

func TestRender_DoubleToggleIsByteIdentical(t *testing.T) {
	b := newBuilder(t)
	s := session.NewState("s1")
	s.Applied = acmeRecord()
	s.Record = acmeRecord()
	s.Status = types.StatusResult

	original, _ := render(t, b.Build(s))

	s.Language = i18n.Toggle(s.Language)
	toggled, _ := render(t, b.Build(s))
	assert.NotEqual(t, original, toggled)

	s.Language = i18n.Toggle(s.Language)
	restored, _ := render(t, b.Build(s))
	assert.Equal(t, original, restored)
}

func TestRender_StackGrid(t *testing.T) {
	_, doc := render(t, newBuilder(t).Build(session.NewState("s1")))

	cards := doc.Find("#stackGrid .stack-card")
	require.Equal(t, 6, cards.Length())
	assert.Equal(t, "Laravel", cards.First().Find("span").Text())
	assert.True(t, cards.First().Find("i").HasClass("devicon-laravel-original"))
	assert.True(t, cards.Last().HasClass("hover:border-orange-500"))
}

func TestRender_ProjectModal(t *testing.T) {
	s := session.NewState("s1")
	s.Tab = types.TabProjects
	c := gallery.Open("booking-platform", 3).Prev()
	s.Gallery = &c

	_, doc := render(t, newBuilder(t).Build(s))

	modal := doc.Find("#projectModal")
	require.Equal(t, 1, modal.Length())
	assert.Equal(t, "booking-platform", modal.AttrOr("data-project", ""))
	assert.Equal(t, "transform: translateX(-200%)", doc.Find("#carouselTrack").AttrOr("style", ""))
	assert.Equal(t, "3 / 3", doc.Find("#carouselPosition").Text())
	assert.Equal(t, 3, doc.Find("#carouselTrack img").Length())
	assert.Equal(t, 1, doc.Find(`form[action="/projects/booking-platform/next"]`).Length())
}

func TestBuild_ModalUnknownProject(t *testing.T) {
	s := session.NewState("s1")
	s.Gallery = &gallery.Carousel{ProjectID: "gone", Len: 2}

	assert.Nil(t, newBuilder(t).Build(s).Modal)
}

func TestRender_Flash(t *testing.T) {
	s := session.NewState("s1")
	s.Flash = session.FlashAnalysisFailed

	_, doc := render(t, newBuilder(t).Build(s))
	assert.Equal(t, "Hubo un error al procesar la imagen.", doc.Find("#flash").Text())
}

func TestRender_EscapesRecordText(t *testing.T) {
	s := session.NewState("s1")
	s.Status = types.StatusResult
	s.Record = &types.AnalysisRecord{Company: `<script>alert(1)</script>`, Role: "Dev"}

	html, doc := render(t, newBuilder(t).Build(s))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Equal(t, `<script>alert(1)</script>`, doc.Find("#res-company").Text())
}

func TestStatic(t *testing.T) {
	css, err := Static().Open("site.css")
	require.NoError(t, err)
	defer css.Close()

	_, err = Static().Open("img/booking-1.svg")
	assert.NoError(t, err)
}
