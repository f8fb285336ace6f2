package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/search"
	"github.com/docuseek/docuseek/internal/store"
	"github.com/docuseek/docuseek/internal/task"
)

type stubSearcher struct {
	matches []search.Match
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, threshold float64) ([]search.Match, error) {
	s.queries = append(s.queries, query)
	return s.matches, s.err
}

func makeMatches(n int) []search.Match {
	out := make([]search.Match, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("hh%03d.tif", i)
		out = append(out, search.Match{
			File:  store.IndexedFile{Name: name, Path: "/archive/" + name},
			Score: 1.0 - float64(i)/float64(2*n),
		})
	}
	return out
}

func newTestModel(t *testing.T, sr Searcher, pageSize int) *Model {
	t.Helper()
	return NewModel(context.Background(), Config{
		Engine:     sr,
		Tasks:      task.New(8),
		Threshold:  0.7,
		PageSize:   pageSize,
		NoColor:    true,
		RevealFunc: func(string) error { return nil },
	})
}

func typeQuery(m *Model, q string) {
	m.input.text.SetValue(q)
}

// pumpSearch submits the current query and feeds the resulting outcome
// back through Update, the way the running program would.
func pumpSearch(t *testing.T, m *Model) {
	t.Helper()
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := m.cfg.Tasks.Recv(ctx)
	require.NoError(t, err)
	_, _ = m.Update(outcomeMsg(out))
}

func TestModel_SearchPopulatesResults(t *testing.T) {
	sr := &stubSearcher{matches: makeMatches(3)}
	m := newTestModel(t, sr, 10)

	typeQuery(m, "hh001")
	pumpSearch(t, m)

	assert.Equal(t, []string{"hh001"}, sr.queries)
	assert.Len(t, m.results.Rows(), 3)
	assert.Contains(t, m.status, "3 matches")
	assert.False(t, m.searching)
}

func TestModel_EmptyQueryIsLocalStatus(t *testing.T) {
	sr := &stubSearcher{}
	m := newTestModel(t, sr, 10)

	typeQuery(m, "   ")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, sr.queries)
	assert.True(t, m.statusErr)
}

func TestModel_SearchErrorShownInStatus(t *testing.T) {
	sr := &stubSearcher{err: seekerr.New(seekerr.ErrCodeThresholdRange, "threshold out of range", nil)}
	m := newTestModel(t, sr, 10)

	typeQuery(m, "hh001")
	pumpSearch(t, m)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "threshold out of range")
}

func TestModel_PaginationKeys(t *testing.T) {
	sr := &stubSearcher{matches: makeMatches(25)}
	m := newTestModel(t, sr, 10)

	typeQuery(m, "hh")
	pumpSearch(t, m)

	require.Equal(t, 3, m.pages.PageCount())
	assert.Equal(t, 0, m.page)
	assert.Len(t, m.results.Rows(), 10)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.page)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.page)
	assert.Len(t, m.results.Rows(), 5)

	// Walking past the last page stays put.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.page)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.page)
}

func TestModel_RevealUsesSelectedRow(t *testing.T) {
	var revealed []string
	sr := &stubSearcher{matches: makeMatches(2)}
	m := newTestModel(t, sr, 10)
	m.cfg.RevealFunc = func(path string) error {
		revealed = append(revealed, path)
		return nil
	}

	typeQuery(m, "hh")
	pumpSearch(t, m)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	require.Len(t, revealed, 1)
	assert.Equal(t, "/archive/hh000.tif", revealed[0])
}

func TestModel_BusySubmitDoesNotQueueSecondSearch(t *testing.T) {
	sr := &stubSearcher{matches: makeMatches(1)}
	m := newTestModel(t, sr, 10)

	// Occupy the search slot with a task that is still running.
	release := make(chan struct{})
	err := m.cfg.Tasks.Submit(context.Background(), task.KindSearch, func(ctx context.Context) (any, error) {
		<-release
		return []search.Match{}, nil
	})
	require.NoError(t, err)

	typeQuery(m, "hh001")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.status, "already running")
	assert.Empty(t, sr.queries)

	close(release)
	m.cfg.Tasks.Wait()
}

func TestModel_ViewRendersStatusAndHints(t *testing.T) {
	sr := &stubSearcher{matches: makeMatches(25)}
	m := newTestModel(t, sr, 10)

	typeQuery(m, "hh")
	pumpSearch(t, m)

	view := m.View()
	assert.Contains(t, view, "docuseek")
	assert.Contains(t, view, "page 1/3")
	assert.Contains(t, view, "q quit")
	assert.True(t, strings.Contains(view, "hh000.tif"))
}
