package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/analysis"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/gallery"
	"github.com/jonathan/portfolio-site/internal/i18n"
	"github.com/jonathan/portfolio-site/internal/types"
)

// FlashAnalysisFailed is the notification shown after any failed upload.
const FlashAnalysisFailed = "ai.error"

// ErrSuperseded is returned by Submit when a newer upload or a reset replaced it mid-flight.
var ErrSuperseded = errors.New("upload superseded by a newer request")

// Inferer extracts a record from an encoded image. *analysis.Analyzer satisfies it.
type Inferer interface {
	Infer(ctx context.Context, img types.EncodedImage) (*types.AnalysisRecord, error)
}

// Transition describes one status change of a session.
type Transition struct {
	SessionID string
	From      types.Status
	To        types.Status
}

// Flow owns every mutation of session state.
type Flow struct {
	store    Store
	inferer  Inferer
	byLang   map[types.Language]Inferer
	catalog  *catalog.Catalog
	logger   *slog.Logger
	observer func(Transition)
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sessionLock
	mu      sync.Mutex
	cancels map[string]inflight

	subMu sync.Mutex
	subs  map[string]map[chan Transition]struct{}
}

// subscriberBuffer is how many transitions a slow subscriber may lag before events are dropped.
const subscriberBuffer = 8

// sessionLock serializes updates of one session. It is dropped once no update holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithLogger sets the logger used for failed uploads.
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) { f.logger = logger }
}

// WithObserver registers a callback invoked after every status change is saved.
func WithObserver(fn func(Transition)) FlowOption {
	return func(f *Flow) { f.observer = fn }
}

// WithLanguageInferer uses inf for uploads made while the session shows lang.
// Other languages use the inferer given to NewFlow.
func WithLanguageInferer(lang types.Language, inf Inferer) FlowOption {
	return func(f *Flow) { f.byLang[lang] = inf }
}

// NewFlow creates a Flow over a store, an inferer and the project catalog.
func NewFlow(store Store, inferer Inferer, cat *catalog.Catalog, opts ...FlowOption) *Flow {
	f := &Flow{
		store:   store,
		inferer: inferer,
		byLang:  make(map[types.Language]Inferer),
		catalog: cat,
		logger:  slog.Default(),
		now:     time.Now,
		cancels: make(map[string]inflight),
		locks:   make(map[string]*sessionLock),
		subs:    make(map[string]map[chan Transition]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get returns the state for id, creating a fresh one on first visit.
func (f *Flow) Get(ctx context.Context, id string) (*State, error) {
	state, err := f.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NewState(id), nil
	}
	return state, err
}

// Submit runs the upload flow: loading first, then encode and infer, then result or idle.
// Any encode or infer failure moves loading back to idle with the failure notification.
// A newer Submit or a Reset for the same session cancels this one, and its outcome is discarded.
func (f *Flow) Submit(ctx context.Context, id string, r io.Reader) (*State, error) {
	var (
		gen      uint64
		lang     types.Language
		inferCtx context.Context
		cancel   context.CancelFunc = func() {}
	)
	_, err := f.update(ctx, id, func(s *State) error {
		s.Generation++
		gen = s.Generation
		lang = s.Language
		s.Flash = ""
		s.Preview = ""
		s.Status = types.StatusLoading
		inferCtx, cancel = f.begin(ctx, id, gen)
		return nil
	})
	if err != nil {
		cancel()
		return nil, err
	}
	defer f.finish(id, gen)

	// The outcome is saved even if the caller has gone away, so the session never sticks in loading.
	saveCtx := context.WithoutCancel(ctx)

	img, flowErr := analysis.Encode(r)
	var record *types.AnalysisRecord
	if flowErr == nil {
		superseded := false
		_, err = f.update(saveCtx, id, func(s *State) error {
			if s.Generation != gen {
				superseded = true
				return errSkipSave
			}
			s.Preview = img.DataURL()
			return nil
		})
		if err != nil {
			return nil, err
		}
		if superseded {
			return f.superseded(saveCtx, id)
		}
		record, flowErr = f.infererFor(lang).Infer(inferCtx, img)
	}

	superseded := false
	state, err := f.update(saveCtx, id, func(s *State) error {
		if s.Generation != gen {
			superseded = true
			return errSkipSave
		}
		if flowErr != nil {
			s.Status = types.StatusIdle
			s.Flash = FlashAnalysisFailed
			return nil
		}
		s.Record = record
		s.Status = types.StatusResult
		return nil
	})
	if err != nil {
		return nil, err
	}
	if superseded {
		return state, ErrSuperseded
	}
	if flowErr != nil {
		f.logger.Error("job posting analysis failed", "session", id, "error", flowErr, "type", fmt.Sprintf("%T", flowErr))
		return state, flowErr
	}

	f.logger.Info("job posting analyzed", "session", id, "company", record.Company, "role", record.Role)
	return state, nil
}

func (f *Flow) infererFor(lang types.Language) Inferer {
	if inf, ok := f.byLang[lang]; ok {
		return inf
	}
	return f.inferer
}

func (f *Flow) superseded(ctx context.Context, id string) (*State, error) {
	state, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return state, ErrSuperseded
}

// Reset hides the preview and result and returns to idle. Any upload in flight is cancelled.
// The current record is kept until the next successful upload replaces it.
func (f *Flow) Reset(ctx context.Context, id string) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		s.Generation++
		s.Preview = ""
		s.Status = types.StatusIdle
		s.Flash = ""
		f.cancel(id)
		return nil
	})
}

// Apply adapts the hero copy to the current record and switches to the home tab.
// Without a record it changes nothing and returns a nil hero.
func (f *Flow) Apply(ctx context.Context, id string) (*adapt.Hero, *State, error) {
	var hero *adapt.Hero
	state, err := f.update(ctx, id, func(s *State) error {
		h, err := adapt.Apply(s.Record, s.Language)
		if err != nil {
			return err
		}
		if h == nil {
			return errSkipSave
		}
		hero = h
		s.Applied = cloneRecord(s.Record)
		s.Tab = types.TabHome
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if hero != nil {
		f.logger.Info("portfolio adapted", "session", id, "company", hero.Company)
	}
	return hero, state, nil
}

// ToggleLanguage flips the session language.
func (f *Flow) ToggleLanguage(ctx context.Context, id string) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		s.Language = i18n.Toggle(s.Language)
		return nil
	})
}

// SetLanguage selects a language directly; unsupported values are ignored.
func (f *Flow) SetLanguage(ctx context.Context, id string, lang types.Language) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		if !lang.Valid() {
			return errSkipSave
		}
		s.Language = lang
		return nil
	})
}

// SwitchTab activates a tab; unknown tabs are ignored.
func (f *Flow) SwitchTab(ctx context.Context, id string, tab types.Tab) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		if !tab.Valid() {
			return errSkipSave
		}
		s.Tab = tab
		return nil
	})
}

// DismissFlash clears a shown notification.
func (f *Flow) DismissFlash(ctx context.Context, id string) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		if s.Flash == "" {
			return errSkipSave
		}
		s.Flash = ""
		return nil
	})
}

// OpenProject shows a project's modal on its first image.
func (f *Flow) OpenProject(ctx context.Context, id, projectID string) (*State, error) {
	project, err := f.catalog.Get(projectID)
	if err != nil {
		return nil, err
	}
	return f.update(ctx, id, func(s *State) error {
		c := gallery.Open(project.ID, len(project.Images))
		s.Gallery = &c
		s.Tab = types.TabProjects
		return nil
	})
}

// NextSlide advances the carousel of projectID, opening it first if another project is showing.
func (f *Flow) NextSlide(ctx context.Context, id, projectID string) (*State, error) {
	return f.moveSlide(ctx, id, projectID, gallery.Carousel.Next)
}

// PrevSlide steps the carousel of projectID back.
func (f *Flow) PrevSlide(ctx context.Context, id, projectID string) (*State, error) {
	return f.moveSlide(ctx, id, projectID, gallery.Carousel.Prev)
}

// CloseProject hides the project modal.
func (f *Flow) CloseProject(ctx context.Context, id string) (*State, error) {
	return f.update(ctx, id, func(s *State) error {
		s.Gallery = nil
		return nil
	})
}

func (f *Flow) moveSlide(ctx context.Context, id, projectID string, move func(gallery.Carousel) gallery.Carousel) (*State, error) {
	project, err := f.catalog.Get(projectID)
	if err != nil {
		return nil, err
	}
	return f.update(ctx, id, func(s *State) error {
		c := gallery.Open(project.ID, len(project.Images))
		if s.Gallery != nil && s.Gallery.ProjectID == project.ID {
			c = *s.Gallery
			c.Len = len(project.Images)
		}
		c = move(c)
		s.Gallery = &c
		s.Tab = types.TabProjects
		return nil
	})
}

var errSkipSave = errors.New("skip save")

// update loads, mutates and saves a session under its lock. Status changes are reported
// to the observer after the save.
func (f *Flow) update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	unlock := f.lock(id)
	defer unlock()

	state, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := state.Status

	if err := fn(state); err != nil {
		if errors.Is(err, errSkipSave) {
			return state, nil
		}
		return nil, err
	}

	state.UpdatedAt = f.now()
	if err := f.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if before != state.Status {
		tr := Transition{SessionID: id, From: before, To: state.Status}
		if f.observer != nil {
			f.observer(tr)
		}
		f.publish(tr)
	}
	return state, nil
}

// Subscribe streams the status changes of one session until the returned func is called.
// Events are dropped for a subscriber that falls behind.
func (f *Flow) Subscribe(id string) (<-chan Transition, func()) {
	ch := make(chan Transition, subscriberBuffer)

	f.subMu.Lock()
	if f.subs[id] == nil {
		f.subs[id] = make(map[chan Transition]struct{})
	}
	f.subs[id][ch] = struct{}{}
	f.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.subMu.Lock()
			delete(f.subs[id], ch)
			if len(f.subs[id]) == 0 {
				delete(f.subs, id)
			}
			f.subMu.Unlock()
			close(ch)
		})
	}
}

func (f *Flow) publish(tr Transition) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	for ch := range f.subs[tr.SessionID] {
		select {
		case ch <- tr:
		default:
		}
	}
}

// lock acquires the session's mutex and returns its release func.
func (f *Flow) lock(id string) func() {
	f.locksMu.Lock()
	l, ok := f.locks[id]
	if !ok {
		l = &sessionLock{}
		f.locks[id] = l
	}
	l.refs++
	f.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		f.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(f.locks, id)
		}
		f.locksMu.Unlock()
	}
}

// begin cancels the session's in-flight upload and registers a new one.
func (f *Flow) begin(ctx context.Context, id string, gen uint64) (context.Context, context.CancelFunc) {
	inferCtx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if prev, ok := f.cancels[id]; ok {
		prev.cancel()
	}
	f.cancels[id] = inflight{generation: gen, cancel: cancel}
	f.mu.Unlock()

	return inferCtx, cancel
}

func (f *Flow) finish(id string, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.cancels[id]; ok && cur.generation == gen {
		cur.cancel()
		delete(f.cancels, id)
	}
}

func (f *Flow) cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.cancels[id]; ok {
		cur.cancel()
		delete(f.cancels, id)
	}
}
