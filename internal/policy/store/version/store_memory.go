// Package version persists document version revisions.
package version

import (
	"context"
	"sort"
	"sync"
	"time"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemory is a map-backed version store for tests and local development.
// The (document, locale, version) uniqueness the database enforces with a
// constraint is checked on insert here.
type InMemory struct {
	mu       sync.RWMutex
	versions map[id.VersionID]*models.Version
}

func NewInMemory() *InMemory {
	return &InMemory{versions: make(map[id.VersionID]*models.Version)}
}

func (s *InMemory) Create(_ context.Context, version *models.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.versions[version.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.versions {
		if existing.DocumentID == version.DocumentID &&
			existing.Locale == version.Locale &&
			existing.Version == version.Version {
			return sentinel.ErrConflict
		}
	}
	s.versions[version.ID] = clone(version)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, versionID id.VersionID) (*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, exists := s.versions[versionID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return clone(version), nil
}

func (s *InMemory) ListByDocument(_ context.Context, documentID id.DocumentID, locale string) ([]*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Version
	for _, version := range s.versions {
		if version.DocumentID != documentID {
			continue
		}
		if locale != "" && version.Locale != locale {
			continue
		}
		result = append(result, clone(version))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Locale != result[j].Locale {
			return result[i].Locale < result[j].Locale
		}
		return result[i].Version > result[j].Version
	})
	return result, nil
}

func (s *InMemory) NextNumber(_ context.Context, documentID id.DocumentID, locale string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	highest := 0
	for _, version := range s.versions {
		if version.DocumentID == documentID && version.Locale == locale && version.Version > highest {
			highest = version.Version
		}
	}
	return highest + 1, nil
}

func (s *InMemory) HasConflict(_ context.Context, documentID id.DocumentID, locale string, number int, exclude id.VersionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, version := range s.versions {
		if version.ID == exclude {
			continue
		}
		if version.DocumentID == documentID && version.Locale == locale && version.Version == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) Execute(_ context.Context, versionID id.VersionID, validate func(*models.Version) error, mutate func(*models.Version)) (*models.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, exists := s.versions[versionID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(version); err != nil {
			return nil, err
		}
	}
	mutate(version)
	return clone(version), nil
}

func (s *InMemory) SupersedeOthers(_ context.Context, documentID id.DocumentID, except id.VersionID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	superseded := 0
	for _, version := range s.versions {
		if version.DocumentID != documentID || version.ID == except {
			continue
		}
		if version.SupersededAt != nil {
			continue
		}
		if version.Status != models.VersionStatusPublished && version.Status != models.VersionStatusApproved {
			continue
		}
		stamp := now
		version.SupersededAt = &stamp
		version.UpdatedAt = now
		superseded++
	}
	return superseded, nil
}

func clone(version *models.Version) *models.Version {
	copied := *version
	copied.EffectiveAt = cloneTime(version.EffectiveAt)
	copied.PublishedAt = cloneTime(version.PublishedAt)
	copied.SupersededAt = cloneTime(version.SupersededAt)
	return &copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
