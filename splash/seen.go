package splash

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const seenObject = "splash"

// SeenBackend is the persistence the SeenStore writes to. *gdata.Manager
// satisfies it.
type SeenBackend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

type seenRecord struct {
	Shown     int       `yaml:"shown"`
	LastShown time.Time `yaml:"last_shown"`
}

// SeenStore remembers whether a splash has been shown before.
type SeenStore struct {
	backend SeenBackend
	key     string
	record  seenRecord
}

// NewSeenStore reads the record stored under key. A missing or unreadable
// record counts as never shown.
func NewSeenStore(backend SeenBackend, key string) *SeenStore {
	s := &SeenStore{backend: backend, key: key}
	if err := s.load(); err != nil {
		log.Printf("[SeenStore] Warning: %v", err)
	}
	return s
}

// OpenSeenStore opens the gdata storage of appName.
func OpenSeenStore(appName, key string) (*SeenStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open data storage for %s: %w", appName, err)
	}
	return NewSeenStore(manager, key), nil
}

func (s *SeenStore) load() error {
	if s.backend == nil || !s.backend.ObjectPropExists(seenObject, s.key) {
		return nil
	}
	data, err := s.backend.LoadObjectProp(seenObject, s.key)
	if err != nil {
		return fmt.Errorf("failed to load splash record %s: %w", s.key, err)
	}
	if err := yaml.Unmarshal(data, &s.record); err != nil {
		s.record = seenRecord{}
		return fmt.Errorf("failed to unmarshal splash record %s: %w", s.key, err)
	}
	return nil
}

func (s *SeenStore) save() error {
	if s.backend == nil {
		return nil
	}
	data, err := yaml.Marshal(s.record)
	if err != nil {
		return fmt.Errorf("failed to marshal splash record: %w", err)
	}
	if err := s.backend.SaveObjectProp(seenObject, s.key, data); err != nil {
		return fmt.Errorf("failed to save splash record %s: %w", s.key, err)
	}
	return nil
}

// Seen reports whether the splash finished on an earlier run.
func (s *SeenStore) Seen() bool {
	return s.record.Shown > 0
}

// Count returns how many times the splash has finished.
func (s *SeenStore) Count() int {
	return s.record.Shown
}

// MarkSeen records one more completed showing.
func (s *SeenStore) MarkSeen() error {
	s.record.Shown++
	s.record.LastShown = time.Now().UTC()
	return s.save()
}

// Reset forgets every earlier showing.
func (s *SeenStore) Reset() error {
	s.record = seenRecord{}
	return s.save()
}
