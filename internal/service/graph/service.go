// Package graph provides the business logic for a user's relationship
// graph: person, link and category mutations, re-centering, and the
// read models (layout scene, analytics) derived from it.
package graph

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kinship-backend/internal/analytics"
	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
	"kinship-backend/internal/observability"
	"kinship-backend/internal/repository"
	"kinship-backend/internal/scene"
	appErrors "kinship-backend/pkg/errors"
)

// PersonInput carries the already-validated form fields for adding or
// editing a person.
type PersonInput struct {
	Name    string
	Group   string
	Details string
}

// Service defines the graph-related business operations.
type Service interface {
	// AddPerson creates a node and returns it with its assigned id.
	AddPerson(ctx context.Context, userID string, in PersonInput) (*domain.Person, error)

	// BulkAddPeople adds several people at once; all inputs are
	// validated before any mutation happens.
	BulkAddPeople(ctx context.Context, userID string, in []PersonInput) ([]domain.Person, error)

	// UpdatePerson edits name, group and details of an existing node.
	UpdatePerson(ctx context.Context, userID, personID string, in PersonInput) (*domain.Person, error)

	// MarkContacted stamps the person's lastContacted with now.
	MarkContacted(ctx context.Context, userID, personID string) error

	// DeletePerson removes a node and cascades to all touching links.
	// The self node is protected.
	DeletePerson(ctx context.Context, userID, personID string) error

	// AddLink creates an undirected relationship; duplicates in either
	// orientation and self-loops are rejected.
	AddLink(ctx context.Context, userID, a, b string, strength int) (*domain.Link, error)

	// UpdateLink changes a relationship's strength.
	UpdateLink(ctx context.Context, userID, a, b string, strength int) error

	// DeleteLink removes the relationship between the unordered pair.
	DeleteLink(ctx context.Context, userID, a, b string) error

	// AddCategory defines a custom category.
	AddCategory(ctx context.Context, userID, label, color string) (*domain.Category, error)

	// UpdateCategory edits a custom category's label and color.
	UpdateCategory(ctx context.Context, userID, key, label, color string) error

	// DeleteCategory removes a custom category, reassigning its
	// members to the fallback category.
	DeleteCategory(ctx context.Context, userID, key string) error

	// SetDefaultCategoryColor overrides a default category's color.
	SetDefaultCategoryColor(ctx context.Context, userID, key, color string) error

	// DeleteDefaultCategory hides a default category (restorable) and
	// reassigns its members to the fallback category.
	DeleteDefaultCategory(ctx context.Context, userID, key string) error

	// RestoreDefaultCategory un-hides a previously deleted default.
	RestoreDefaultCategory(ctx context.Context, userID, key string) error

	// SetCenter re-centers the layout on the given node. This is the
	// one operation that discards all cached positions.
	SetCenter(ctx context.Context, userID, personID string) error

	// Snapshot returns a copy of the user's current graph.
	Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error)

	// Scene returns the current drawable frame (layout + encodings).
	Scene(ctx context.Context, userID string) (*scene.Scene, error)

	// Surface exposes the interaction surface for the user's session,
	// used by hosts that forward pointer events.
	Surface(ctx context.Context, userID string) (*scene.Surface, error)

	// Analytics computes the derived-metrics report on demand.
	Analytics(ctx context.Context, userID string) (*analytics.Report, error)
}

// service implements Service over a snapshot store, keeping one live
// session (model + layout engine + surface) per user.
type service struct {
	store     repository.Store
	logger    *zap.Logger
	collector *observability.Collector
	layoutCfg layout.Config

	sessions *sessionSet
	saves    sync.WaitGroup
}

// NewService creates the graph service. The collector may be nil.
func NewService(store repository.Store, logger *zap.Logger, collector *observability.Collector, layoutCfg layout.Config) Service {
	return &service{
		store:     store,
		logger:    logger,
		collector: collector,
		layoutCfg: layoutCfg,
		sessions:  newSessionSet(),
	}
}

// withSession runs fn with the user's session locked. Mutations go
// through mutate instead.
func (s *service) withSession(ctx context.Context, userID string, fn func(*session) error) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// mutate runs fn atomically against the session model, then recomputes
// the layout and persists the snapshot. fn must not leave a partial
// mutation behind on error.
func (s *service) mutate(ctx context.Context, userID, operation string, fn func(*session) error) error {
	return s.withSession(ctx, userID, func(sess *session) error {
		if err := fn(sess); err != nil {
			return err
		}
		s.relayout(sess)
		s.persist(ctx, userID, sess)
		if s.collector != nil {
			s.collector.RecordMutation(operation)
		}
		return nil
	})
}

// session returns the live session for the user, loading the snapshot
// on first touch. A failing or empty store yields a fresh default graph
// so the account is always usable.
func (s *service) session(ctx context.Context, userID string) (*session, error) {
	if userID == "" {
		return nil, appErrors.NewValidation("user id cannot be empty")
	}
	sess := s.sessions.get(userID)
	sess.init.Do(func() {
		snap, err := s.store.LoadSnapshot(ctx, userID)
		if err != nil {
			if err != repository.ErrSnapshotNotFound {
				s.logger.Warn("failed to load snapshot, starting with default graph",
					zap.String("userId", userID),
					zap.Error(err))
			}
			snap = domain.NewSnapshot("")
		}
		sess.snap = snap
		sess.engine = layout.NewEngine(s.layoutCfg)
		sess.surface = scene.NewSurface(sess.engine, s.layoutCfg.Width, s.layoutCfg.Height)
		s.relayout(sess)
	})
	return sess, nil
}

// relayout recomputes positions from the current model and refreshes
// the surface. Runs with the session lock held.
func (s *service) relayout(sess *session) {
	sess.engine.Load(sess.snap.Persons, sess.snap.Links)
	start := time.Now()
	sess.engine.Run()
	if s.collector != nil {
		s.collector.ObserveLayout(time.Since(start))
	}
	sess.surface.Update(sess.snap.Persons, sess.snap.Links, sess.snap.Categories())
}

// persist hands a self-consistent copy of the snapshot to the store.
// The save runs on a background worker so a slow store never stalls
// mutations or reads; rapid mutations coalesce and the store always
// receives the newest state last. Save failures are surfaced as a
// logged, counted, non-fatal event; the in-memory session stays fully
// usable.
func (s *service) persist(ctx context.Context, userID string, sess *session) {
	snap := sess.snap.Clone()
	ctx = context.WithoutCancel(ctx)

	sess.saveMu.Lock()
	sess.saveQueue = snap
	if sess.saveBusy {
		sess.saveMu.Unlock()
		return
	}
	sess.saveBusy = true
	sess.saveMu.Unlock()

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		for {
			sess.saveMu.Lock()
			pending := sess.saveQueue
			sess.saveQueue = nil
			if pending == nil {
				sess.saveBusy = false
				sess.saveMu.Unlock()
				return
			}
			sess.saveMu.Unlock()

			if err := s.store.SaveSnapshot(ctx, userID, pending); err != nil {
				s.logger.Warn("failed to save snapshot",
					zap.String("userId", userID),
					zap.Error(err))
				if s.collector != nil {
					s.collector.SaveFailures.Inc()
				}
			}
		}
	}()
}

// --- Person operations ---

func (s *service) AddPerson(ctx context.Context, userID string, in PersonInput) (*domain.Person, error) {
	var added *domain.Person
	err := s.mutate(ctx, userID, "add_person", func(sess *session) error {
		p, err := buildPerson(sess.snap, in)
		if err != nil {
			return err
		}
		sess.snap.Persons = append(sess.snap.Persons, *p)
		added = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *service) BulkAddPeople(ctx context.Context, userID string, in []PersonInput) ([]domain.Person, error) {
	if len(in) == 0 {
		return nil, appErrors.NewValidation("people list cannot be empty")
	}
	var added []domain.Person
	err := s.mutate(ctx, userID, "bulk_add_people", func(sess *session) error {
		// Validate everything before touching the model: bulk add is
		// all-or-nothing.
		batch := make([]domain.Person, 0, len(in))
		for _, one := range in {
			p, err := buildPerson(sess.snap, one)
			if err != nil {
				return err
			}
			batch = append(batch, *p)
		}
		sess.snap.Persons = append(sess.snap.Persons, batch...)
		added = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *service) UpdatePerson(ctx context.Context, userID, personID string, in PersonInput) (*domain.Person, error) {
	var updated *domain.Person
	err := s.mutate(ctx, userID, "update_person", func(sess *session) error {
		p := sess.snap.PersonByID(personID)
		if p == nil {
			return appErrors.NewNotFound("person not found")
		}
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return appErrors.NewValidation("name cannot be empty")
		}
		if err := validGroup(sess.snap, in.Group); err != nil {
			return err
		}
		p.Name = name
		p.Group = in.Group
		p.Details = in.Details
		cp := *p
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) MarkContacted(ctx context.Context, userID, personID string) error {
	return s.mutate(ctx, userID, "mark_contacted", func(sess *session) error {
		p := sess.snap.PersonByID(personID)
		if p == nil {
			return appErrors.NewNotFound("person not found")
		}
		now := time.Now()
		p.LastContacted = &now
		return nil
	})
}

func (s *service) DeletePerson(ctx context.Context, userID, personID string) error {
	return s.mutate(ctx, userID, "delete_person", func(sess *session) error {
		if personID == domain.SelfID {
			return appErrors.NewValidation("the self node cannot be deleted")
		}
		idx := -1
		for i := range sess.snap.Persons {
			if sess.snap.Persons[i].ID == personID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.NewNotFound("person not found")
		}
		sess.snap.Persons = append(sess.snap.Persons[:idx], sess.snap.Persons[idx+1:]...)

		// Cascade: no link may keep referencing the deleted node.
		kept := sess.snap.Links[:0]
		for _, l := range sess.snap.Links {
			if !l.HasEndpoint(personID) {
				kept = append(kept, l)
			}
		}
		sess.snap.Links = kept

		// A deleted center falls back to the self node.
		if sess.engine.Center() == personID {
			sess.engine.SetCenter(domain.SelfID)
		}
		return nil
	})
}

// --- Link operations ---

func (s *service) AddLink(ctx context.Context, userID, a, b string, strength int) (*domain.Link, error) {
	var added *domain.Link
	err := s.mutate(ctx, userID, "add_link", func(sess *session) error {
		if a == b {
			return appErrors.NewValidation("a person cannot be linked to themselves")
		}
		if err := validStrength(strength); err != nil {
			return err
		}
		if sess.snap.PersonByID(a) == nil || sess.snap.PersonByID(b) == nil {
			return appErrors.NewNotFound("link endpoint not found")
		}
		if sess.snap.LinkBetween(a, b) != nil {
			return appErrors.NewConflict("these people are already linked")
		}
		l := domain.NewLink(a, b, strength)
		sess.snap.Links = append(sess.snap.Links, l)
		added = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *service) UpdateLink(ctx context.Context, userID, a, b string, strength int) error {
	return s.mutate(ctx, userID, "update_link", func(sess *session) error {
		if err := validStrength(strength); err != nil {
			return err
		}
		l := sess.snap.LinkBetween(a, b)
		if l == nil {
			return appErrors.NewNotFound("link not found")
		}
		l.Strength = strength
		return nil
	})
}

func (s *service) DeleteLink(ctx context.Context, userID, a, b string) error {
	return s.mutate(ctx, userID, "delete_link", func(sess *session) error {
		key := domain.PairKey(a, b)
		for i := range sess.snap.Links {
			if sess.snap.Links[i].Key() == key {
				sess.snap.Links = append(sess.snap.Links[:i], sess.snap.Links[i+1:]...)
				return nil
			}
		}
		return appErrors.NewNotFound("link not found")
	})
}

// --- Category operations ---

func (s *service) AddCategory(ctx context.Context, userID, label, color string) (*domain.Category, error) {
	var added *domain.Category
	err := s.mutate(ctx, userID, "add_category", func(sess *session) error {
		label = strings.TrimSpace(label)
		if label == "" {
			return appErrors.NewValidation("category label cannot be empty")
		}
		key := categoryKey(label)
		if domain.CategoryByKey(sess.snap.Categories(), key) != nil {
			return appErrors.NewConflict("a category with this name already exists")
		}
		c := domain.Category{
			Key:   key,
			Label: label,
			Color: color,
			Kind:  domain.CategoryCustom,
		}
		sess.snap.CustomCategories = append(sess.snap.CustomCategories, c)
		added = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *service) UpdateCategory(ctx context.Context, userID, key, label, color string) error {
	return s.mutate(ctx, userID, "update_category", func(sess *session) error {
		for i := range sess.snap.CustomCategories {
			if sess.snap.CustomCategories[i].Key == key {
				if l := strings.TrimSpace(label); l != "" {
					sess.snap.CustomCategories[i].Label = l
				}
				if color != "" {
					sess.snap.CustomCategories[i].Color = color
				}
				return nil
			}
		}
		return appErrors.NewNotFound("category not found")
	})
}

func (s *service) DeleteCategory(ctx context.Context, userID, key string) error {
	return s.mutate(ctx, userID, "delete_category", func(sess *session) error {
		for i := range sess.snap.CustomCategories {
			if sess.snap.CustomCategories[i].Key == key {
				sess.snap.CustomCategories = append(sess.snap.CustomCategories[:i], sess.snap.CustomCategories[i+1:]...)
				reassignGroup(sess.snap, key)
				return nil
			}
		}
		return appErrors.NewNotFound("category not found")
	})
}

func (s *service) SetDefaultCategoryColor(ctx context.Context, userID, key, color string) error {
	return s.mutate(ctx, userID, "set_default_category_color", func(sess *session) error {
		if !domain.IsDefaultCategoryKey(key) {
			return appErrors.NewNotFound("default category not found")
		}
		if color == "" {
			return appErrors.NewValidation("color cannot be empty")
		}
		if sess.snap.ColorOverrides == nil {
			sess.snap.ColorOverrides = make(map[string]string)
		}
		sess.snap.ColorOverrides[key] = color
		return nil
	})
}

func (s *service) DeleteDefaultCategory(ctx context.Context, userID, key string) error {
	return s.mutate(ctx, userID, "delete_default_category", func(sess *session) error {
		if !domain.IsDefaultCategoryKey(key) {
			return appErrors.NewNotFound("default category not found")
		}
		if key == domain.FallbackCategoryKey {
			return appErrors.NewValidation("the fallback category cannot be deleted")
		}
		for _, k := range sess.snap.DeletedDefaultKeys {
			if k == key {
				return nil // already hidden
			}
		}
		sess.snap.DeletedDefaultKeys = append(sess.snap.DeletedDefaultKeys, key)
		reassignGroup(sess.snap, key)
		return nil
	})
}

func (s *service) RestoreDefaultCategory(ctx context.Context, userID, key string) error {
	return s.mutate(ctx, userID, "restore_default_category", func(sess *session) error {
		for i, k := range sess.snap.DeletedDefaultKeys {
			if k == key {
				sess.snap.DeletedDefaultKeys = append(sess.snap.DeletedDefaultKeys[:i], sess.snap.DeletedDefaultKeys[i+1:]...)
				return nil
			}
		}
		return appErrors.NewNotFound("category is not deleted")
	})
}

// --- Layout / read operations ---

func (s *service) SetCenter(ctx context.Context, userID, personID string) error {
	return s.withSession(ctx, userID, func(sess *session) error {
		if sess.snap.PersonByID(personID) == nil {
			return appErrors.NewNotFound("person not found")
		}
		sess.engine.SetCenter(personID)
		s.relayout(sess)
		if s.collector != nil {
			s.collector.RecordMutation("set_center")
		}
		return nil
	})
}

func (s *service) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.withSession(ctx, userID, func(sess *session) error {
		snap = sess.snap.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *service) Scene(ctx context.Context, userID string) (*scene.Scene, error) {
	var sc *scene.Scene
	err := s.withSession(ctx, userID, func(sess *session) error {
		sc = sess.surface.Scene()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *service) Surface(ctx context.Context, userID string) (*scene.Surface, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.surface, nil
}

func (s *service) Analytics(ctx context.Context, userID string) (*analytics.Report, error) {
	var report *analytics.Report
	err := s.withSession(ctx, userID, func(sess *session) error {
		report = analytics.Compute(sess.snap, s.logger)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// --- helpers ---

func buildPerson(snap *domain.Snapshot, in PersonInput) (*domain.Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.NewValidation("name cannot be empty")
	}
	if err := validGroup(snap, in.Group); err != nil {
		return nil, err
	}
	return &domain.Person{
		ID:      uuid.New().String(),
		Name:    name,
		Group:   in.Group,
		Details: in.Details,
	}, nil
}

func validGroup(snap *domain.Snapshot, group string) error {
	c := domain.CategoryByKey(snap.Categories(), group)
	if c == nil || c.Hidden {
		return appErrors.NewValidation("unknown category")
	}
	return nil
}

func validStrength(strength int) error {
	if strength < domain.MinStrength || strength > domain.MaxStrength {
		return appErrors.NewValidation("strength must be between 1 and 10")
	}
	return nil
}

// reassignGroup moves every member of a removed category to the
// fallback category.
func reassignGroup(snap *domain.Snapshot, key string) {
	for i := range snap.Persons {
		if snap.Persons[i].Group == key {
			snap.Persons[i].Group = domain.FallbackCategoryKey
		}
	}
}

// categoryKey derives a stable key from a label.
func categoryKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(key), "-")
}
