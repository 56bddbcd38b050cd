package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	op01 = "ROMANCE DAWN- [OP-01]"
	op02 = "PARAMOUNT WAR- [OP-02]"
	st01 = "Starter Deck: Straw Hat Crew- [ST-01]"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return NewModel([]*Card{
		{ID: "OP01-001", Name: "Roronoa Zoro", SeriesName: op01},
		{ID: "OP01-002", Name: "Trafalgar Law", SeriesName: op01},
		{ID: "OP02-001", Name: "Edward.Newgate", SeriesName: op02},
		{ID: "ST01-001", Name: "Monkey.D.Luffy", SeriesName: st01},
	})
}

func TestSeriesCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"booster", "ROMANCE DAWN- [OP-01]", "OP-01"},
		{"starter", "Starter Deck: Straw Hat Crew- [ST-01]", "ST-01"},
		{"padded", "Extra Booster [ EB-01 ]", "EB-01"},
		{"last bracket wins", "Promo [P] - [PRB-01]", "PRB-01"},
		{"no bracket", "  Promotion card ", "Promotion card"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeriesCode(tt.in))
		})
	}
}

func TestSeriesTitle(t *testing.T) {
	assert.Equal(t, "ROMANCE DAWN", SeriesTitle("ROMANCE DAWN- [OP-01]"))
	assert.Equal(t, "Promotion card", SeriesTitle("Promotion card"))
}

func TestNewModel_SkipsDuplicateIDs(t *testing.T) {
	m := NewModel([]*Card{
		{ID: "A1", Name: "first"},
		{ID: "A1", Name: "second"},
		nil,
		{ID: "A2"},
	})
	require.Equal(t, 2, m.Len())
	c, ok := m.Lookup("A1")
	require.True(t, ok)
	assert.Equal(t, "first", c.Name)
}

func TestNewModel_KeepsCardsWithoutID(t *testing.T) {
	first := &Card{Name: "one", SeriesName: op01}
	second := &Card{Name: "two", SeriesName: op01}
	m := NewModel([]*Card{first, second, {ID: "OP01-001", SeriesName: op01}})
	require.Equal(t, 3, m.Len())

	m.IncrementOwned(second)
	m.IncrementOwned(&Card{Name: "stranger"})
	assert.Equal(t, 0, first.Owned())
	assert.Equal(t, 1, second.Owned())
	assert.Empty(t, m.Progress(), "cards without an id are not persisted")
}

func TestFilter_BySeriesAndMissing(t *testing.T) {
	m := newTestModel(t)
	m.ApplyProgress(map[string]int{"OP01-001": 1})

	assert.Len(t, m.Filter(BySeries(AllSeries)), 4)
	assert.Len(t, m.Filter(BySeries("")), 4)
	assert.Len(t, m.Filter(BySeries(op01)), 2)

	missing := m.Filter(Missing(BySeries(op01), true))
	require.Len(t, missing, 1)
	assert.Equal(t, "OP01-002", missing[0].ID)

	assert.Len(t, m.Filter(Missing(BySeries(op01), false)), 2)
	assert.Len(t, m.Filter(Missing(BySeries(AllSeries), true)), 3)
}

func TestIncrementOwned_CountsDuplicates(t *testing.T) {
	m := newTestModel(t)
	a1, _ := m.Lookup("OP01-001")
	a2, _ := m.Lookup("OP01-002")

	for _, c := range []*Card{a1, a1, a2} {
		m.IncrementOwned(c)
	}

	assert.Equal(t, 2, a1.Owned())
	assert.Equal(t, 1, a2.Owned())

	// Cards from outside the model are ignored.
	m.IncrementOwned(&Card{ID: "nope"})
	m.IncrementOwned(nil)
	assert.Len(t, m.Progress(), 2)
}

func TestResetSeries(t *testing.T) {
	m := newTestModel(t)
	m.ApplyProgress(map[string]int{"OP01-001": 3, "OP01-002": 1, "OP02-001": 2})

	changed, err := m.ResetSeries(op01)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	assert.Equal(t, map[string]int{"OP02-001": 2}, m.Progress())
}

func TestResetSeries_RejectsAll(t *testing.T) {
	m := newTestModel(t)
	m.ApplyProgress(map[string]int{"OP01-001": 3})

	for _, name := range []string{AllSeries, ""} {
		_, err := m.ResetSeries(name)
		assert.ErrorIs(t, err, ErrResetAll)
	}
	assert.Equal(t, map[string]int{"OP01-001": 3}, m.Progress())
}

func TestApplyProgress_Merge(t *testing.T) {
	m := NewModel([]*Card{{ID: "A1"}, {ID: "A2"}, {ID: "A3"}})

	applied := m.ApplyProgress(map[string]int{"A1": 2, "ghost": 5, "A3": 0, "A2": -1})
	assert.Equal(t, 1, applied)

	for _, c := range m.Cards() {
		want := 0
		if c.ID == "A1" {
			want = 2
		}
		assert.Equalf(t, want, c.Owned(), "card %s", c.ID)
	}
}

func TestSeriesNames(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, []string{AllSeries, op02, op01, st01}, m.SeriesNames())
}

func TestPacks(t *testing.T) {
	m := newTestModel(t)
	packs := m.Packs()
	require.Len(t, packs, 3)
	assert.Equal(t, PackInfo{Code: "OP-01", Title: "ROMANCE DAWN", SeriesName: op01}, packs[0])
	assert.Equal(t, "OP-02", packs[1].Code)
	assert.Equal(t, "ST-01", packs[2].Code)
}

func TestCompletion(t *testing.T) {
	m := newTestModel(t)
	m.ApplyProgress(map[string]int{"OP01-001": 4})

	stats := m.Completion()
	require.Len(t, stats, 3)

	var got SeriesStats
	for _, s := range stats {
		if s.Code == "OP-01" {
			got = s
		}
	}
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Owned)
	assert.Equal(t, 4, got.Copies)
	assert.InDelta(t, 50.0, got.Percent(), 0.001)
	assert.Zero(t, SeriesStats{}.Percent())
}
