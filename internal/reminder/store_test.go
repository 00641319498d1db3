package reminder

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/notexe/daily-reminders/internal/kv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *kv.Memory, *fakeClock) {
	t.Helper()
	backend := kv.NewMemory()
	clock := &fakeClock{t: at(time.October, 12, 6, 0)}
	s := NewStore(backend, zerolog.Nop(), WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	return s, backend, clock
}

func TestStoreAddAndGet(t *testing.T) {
	s, _, clock := newTestStore(t)

	input := Reminder{
		Name:       "Gym",
		Category:   "gym",
		Hour:       7,
		Recurrence: RecurrenceSpecificDays,
		Days:       []int{1, 3, 5},
	}
	added, err := s.Add(input)
	require.NoError(t, err)

	assert.Equal(t, "r1", added.ID)
	assert.True(t, added.Enabled)
	assert.Equal(t, clock.t.UnixMilli(), added.CreatedAt)
	assert.True(t, clock.t.Equal(added.Created()))

	got, err := s.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	want := input
	want.ID = "r1"
	want.Enabled = true
	want.CreatedAt = clock.t.UnixMilli()
	assert.Equal(t, want, got)
}

func TestStoreAddRoundTripsWithWallClock(t *testing.T) {
	s := NewStore(kv.NewMemory(), zerolog.Nop())

	added, err := s.Add(Reminder{Name: "Water", Category: "water", Hour: 9, Recurrence: RecurrenceDaily})
	require.NoError(t, err)

	got, err := s.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
	assert.Equal(t, []Reminder{added}, s.GetAll())
}

func TestStoreReadsBrowserFormatBlob(t *testing.T) {
	s, backend, _ := newTestStore(t)
	blob := `[{"id":"a","name":"Gym","category":"gym","hour":7,"minute":0,` +
		`"recurrence":"specific_days","days":[1,3,5],"monthDay":1,"createdAt":1760000000000,"enabled":true},` +
		`{"id":"b","name":"Bills","category":"bills","hour":10,"minute":30,` +
		`"recurrence":"monthly","days":[],"monthDay":15,"createdAt":1760000000500,"enabled":false}]`
	require.NoError(t, backend.Set(RemindersKey, blob))

	all := s.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, []int{1, 3, 5}, all[0].Days)
	assert.Equal(t, int64(1760000000000), all[0].CreatedAt)
	assert.Equal(t, 15, all[1].MonthDay)
	assert.False(t, all[1].Enabled)

	// A later write keeps the existing records.
	_, err := s.Add(Reminder{Name: "Read", Category: "reading", Hour: 21, Recurrence: RecurrenceDaily})
	require.NoError(t, err)
	assert.Len(t, s.GetAll(), 3)
}

func TestStoreAddUsesUUIDByDefault(t *testing.T) {
	s := NewStore(kv.NewMemory(), zerolog.Nop())

	a, err := s.Add(Reminder{Name: "a", Recurrence: RecurrenceDaily})
	require.NoError(t, err)
	b, err := s.Add(Reminder{Name: "b", Recurrence: RecurrenceDaily})
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStoreGetAllKeepsInsertionOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.Empty(t, s.GetAll())

	for _, name := range []string{"late", "early", "middle"} {
		_, err := s.Add(Reminder{Name: name, Recurrence: RecurrenceDaily})
		require.NoError(t, err)
	}

	var names []string
	for _, r := range s.GetAll() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"late", "early", "middle"}, names)
}

func TestStoreCorruptDataReadsEmpty(t *testing.T) {
	s, backend, _ := newTestStore(t)

	require.NoError(t, backend.Set(RemindersKey, "{not json"))
	assert.Empty(t, s.GetAll())

	_, err := s.Get("r1")
	assert.ErrorIs(t, err, ErrNotFound)

	// A later add overwrites the corrupt blob.
	_, err = s.Add(Reminder{Name: "fresh", Recurrence: RecurrenceDaily})
	require.NoError(t, err)
	assert.Len(t, s.GetAll(), 1)
}

func TestStoreUpdate(t *testing.T) {
	s, _, _ := newTestStore(t)
	r, err := s.Add(Reminder{Name: "Read", Recurrence: RecurrenceDaily, Hour: 21})
	require.NoError(t, err)

	name := "Read a book"
	enabled := false
	updated, err := s.Update(r.ID, Patch{Name: &name, Enabled: &enabled})
	require.NoError(t, err)
	assert.Equal(t, "Read a book", updated.Name)
	assert.False(t, updated.Enabled)
	assert.Equal(t, 21, updated.Hour)

	got, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = s.Update("missing", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCollapsesWeeklyDays(t *testing.T) {
	s, _, _ := newTestStore(t)

	r, err := s.Add(Reminder{Name: "Laundry", Recurrence: RecurrenceWeekly, Days: []int{6, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{6}, r.Days)

	rec := RecurrenceSpecificDays
	days := []int{1, 2, 3}
	r, err = s.Update(r.ID, Patch{Recurrence: &rec, Days: &days})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, r.Days)

	rec = RecurrenceWeekly
	r, err = s.Update(r.ID, Patch{Recurrence: &rec})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, r.Days)
}

func TestStoreRemove(t *testing.T) {
	s, _, _ := newTestStore(t)
	a, _ := s.Add(Reminder{Name: "a", Recurrence: RecurrenceDaily})
	b, _ := s.Add(Reminder{Name: "b", Recurrence: RecurrenceDaily})

	require.NoError(t, s.Remove(a.ID))
	require.NoError(t, s.Remove(a.ID))
	require.NoError(t, s.Remove("never-existed"))

	all := s.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestStoreCompletions(t *testing.T) {
	s, backend, _ := newTestStore(t)

	assert.False(t, s.IsCompleted("r1"))

	done, err := s.ToggleCompletion("r1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, s.IsCompleted("r1"))
	assert.False(t, s.IsCompleted("r2"))

	raw, err := backend.Get(CompletionsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_date":"2026-10-12","r1":true}`, raw)

	done, err = s.ToggleCompletion("r1")
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, s.IsCompleted("r1"))
}

func TestStoreCompletionsResetOnNextDay(t *testing.T) {
	s, _, clock := newTestStore(t)

	_, err := s.ToggleCompletion("r1")
	require.NoError(t, err)
	_, err = s.ToggleCompletion("r2")
	require.NoError(t, err)

	clock.t = clock.t.AddDate(0, 0, 1)
	assert.False(t, s.IsCompleted("r1"))
	assert.False(t, s.IsCompleted("r2"))
	assert.Empty(t, s.Completions())

	done, err := s.ToggleCompletion("r2")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, map[string]bool{"r2": true}, s.Completions())
}

func TestStoreCompletionsDateIsUnpadded(t *testing.T) {
	s, backend, clock := newTestStore(t)
	clock.t = time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)

	require.NoError(t, backend.Set(CompletionsKey, `{"_date":"2026-03-05","x":true}`))
	assert.False(t, s.IsCompleted("x"))

	require.NoError(t, backend.Set(CompletionsKey, `{"_date":"2026-3-5","x":true}`))
	assert.True(t, s.IsCompleted("x"))

	require.NoError(t, backend.Set(CompletionsKey, `garbage`))
	assert.False(t, s.IsCompleted("x"))
}

func TestStoreProgressAndReset(t *testing.T) {
	s, backend, _ := newTestStore(t)

	a, _ := s.Add(Reminder{Name: "a", Recurrence: RecurrenceDaily, Hour: 8})
	_, _ = s.Add(Reminder{Name: "b", Recurrence: RecurrenceWeekly, Days: []int{1}, Hour: 9})
	_, _ = s.Add(Reminder{Name: "not today", Recurrence: RecurrenceWeekly, Days: []int{3}, Hour: 9})
	_, err := s.ToggleCompletion(a.ID)
	require.NoError(t, err)

	done, total := s.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	require.NoError(t, s.ResetAll())
	assert.Empty(t, s.GetAll())
	_, err = backend.Get(CompletionsKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStoreSeedPresets(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.True(t, s.FirstLaunch())

	added, err := s.SeedPresets()
	require.NoError(t, err)
	assert.Len(t, added, 10)
	assert.Len(t, s.GetAll(), 10)
	assert.False(t, s.FirstLaunch())

	require.NoError(t, s.ResetAll())
	assert.False(t, s.FirstLaunch())

	for _, r := range added {
		assert.True(t, r.Enabled)
		_, ok := LookupCategory(r.Category)
		assert.True(t, ok, r.Category)
	}
}

type failingKV struct {
	kv.Store
}

func (failingKV) Set(string, string) error { return errors.New("disk full") }

func TestStoreReportsWriteFailures(t *testing.T) {
	s := NewStore(failingKV{Store: kv.NewMemory()}, zerolog.Nop())

	_, err := s.Add(Reminder{Name: "x", Recurrence: RecurrenceDaily})
	assert.ErrorContains(t, err, "disk full")

	_, err = s.ToggleCompletion("x")
	assert.ErrorContains(t, err, "disk full")
}
