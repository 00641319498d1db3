package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notexe/daily-reminders/internal/kv"
	"github.com/rs/zerolog"
)

// Persistence keys.
const (
	RemindersKey   = "reminders_v1"
	CompletionsKey = "completions_v1"
)

// completionDateField holds the day stamp inside the completion record.
const completionDateField = "_date"

// ErrNotFound is returned when no reminder has the requested id.
var ErrNotFound = errors.New("reminder not found")

// Store keeps the reminder collection and today's completion flags in a kv.Store.
// Every mutation rewrites the whole persisted value.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides the wall clock used for creation stamps and day rollover.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id assignment.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates a Store persisting into backend.
func NewStore(backend kv.Store, logger zerolog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		kv:     backend,
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every reminder in insertion order. Missing or unreadable
// data yields an empty slice.
func (s *Store) GetAll() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []Reminder {
	data, err := s.kv.Get(RemindersKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("reminders unreadable, treating as empty")
		}
		return []Reminder{}
	}

	var reminders []Reminder
	if err := json.Unmarshal([]byte(data), &reminders); err != nil {
		s.logger.Warn().Err(err).Msg("reminders corrupt, treating as empty")
		return []Reminder{}
	}
	if reminders == nil {
		reminders = []Reminder{}
	}
	return reminders
}

func (s *Store) save(reminders []Reminder) error {
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := s.kv.Set(RemindersKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist reminders: %w", err)
	}
	return nil
}

// Add assigns an id, creation time and enabled=true, appends r and persists.
func (s *Store) Add(r Reminder) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.newID()
	r.CreatedAt = s.now().UnixMilli()
	r.Enabled = true
	r.Days = append([]int(nil), r.Days...)
	normalize(&r)

	reminders := append(s.load(), r)
	if err := s.save(reminders); err != nil {
		return Reminder{}, err
	}

	s.logger.Debug().Str("id", r.ID).Str("name", r.Name).Msg("reminder added")
	return r, nil
}

// Update merges the non-nil fields of p into the reminder with the given id.
func (s *Store) Update(id string, p Patch) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := s.load()
	idx := indexOf(reminders, id)
	if idx < 0 {
		return Reminder{}, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}

	p.apply(&reminders[idx])
	normalize(&reminders[idx])

	if err := s.save(reminders); err != nil {
		return Reminder{}, err
	}
	return reminders[idx], nil
}

// Remove deletes the reminder with the given id. Removing an unknown id is not an error.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := s.load()
	kept := reminders[:0]
	for _, r := range reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.save(kept)
}

// Get returns the reminder with the given id.
func (s *Store) Get(id string) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := s.load()
	if idx := indexOf(reminders, id); idx >= 0 {
		return reminders[idx], nil
	}
	return Reminder{}, fmt.Errorf("reminder %s: %w", id, ErrNotFound)
}

func indexOf(reminders []Reminder, id string) int {
	for i, r := range reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// DayKey formats t as the unpadded local "YYYY-M-D" completion stamp.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// completions reads today's completion flags. A record stamped with another
// day, or one that cannot be parsed, reads as empty.
func (s *Store) completions() map[string]bool {
	done := make(map[string]bool)

	data, err := s.kv.Get(CompletionsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("completions unreadable, treating as empty")
		}
		return done
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		s.logger.Warn().Err(err).Msg("completions corrupt, treating as empty")
		return done
	}
	if stamp, _ := raw[completionDateField].(string); stamp != DayKey(s.now()) {
		return done
	}

	for id, v := range raw {
		if id == completionDateField {
			continue
		}
		if b, ok := v.(bool); ok {
			done[id] = b
		}
	}
	return done
}

func (s *Store) saveCompletions(done map[string]bool) error {
	raw := make(map[string]any, len(done)+1)
	for id, v := range done {
		raw[id] = v
	}
	raw[completionDateField] = DayKey(s.now())

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode completions: %w", err)
	}
	if err := s.kv.Set(CompletionsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist completions: %w", err)
	}
	return nil
}

// IsCompleted reports whether id was marked done today.
func (s *Store) IsCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions()[id]
}

// Completions returns a copy of today's completion flags.
func (s *Store) Completions() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions()
}

// ToggleCompletion flips today's done flag for id and returns the new value.
func (s *Store) ToggleCompletion(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	done := s.completions()
	done[id] = !done[id]
	if err := s.saveCompletions(done); err != nil {
		return false, err
	}
	return done[id], nil
}

// Progress counts how many of today's due reminders are done.
func (s *Store) Progress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := s.completions()
	for _, r := range DueToday(s.load(), s.now()) {
		total++
		if completed[r.ID] {
			done++
		}
	}
	return done, total
}

// ResetAll deletes every reminder and the completion record.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save([]Reminder{}); err != nil {
		return err
	}
	if err := s.kv.Delete(CompletionsKey); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	return nil
}

// SeedPresets adds the built-in starter reminders and returns them.
func (s *Store) SeedPresets() ([]Reminder, error) {
	presets := PresetReminders()
	added := make([]Reminder, 0, len(presets))
	for _, p := range presets {
		r, err := s.Add(p)
		if err != nil {
			return added, fmt.Errorf("failed to seed %q: %w", p.Name, err)
		}
		added = append(added, r)
	}
	return added, nil
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// FirstLaunch reports whether no reminder collection was ever persisted.
// A collection emptied by the user does not count.
func (s *Store) FirstLaunch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.kv.Get(RemindersKey)
	return errors.Is(err, kv.ErrNotFound)
}
