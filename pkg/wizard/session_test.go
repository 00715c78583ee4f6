package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/actionplan/pkg/analyzer"
	"github.com/helmcode/actionplan/pkg/llm/llmtest"
	"github.com/helmcode/actionplan/pkg/model"
	"github.com/helmcode/actionplan/pkg/store"
)

func TestExportRestoreRoundTrip(t *testing.T) {
	m, _ := prioritizing(t)
	m.state.Whys = [model.WhyCount]string{"1", "2", "3", "4", "5"}
	m.state.Extra = map[string]json.RawMessage{"note": json.RawMessage(`"keep"`)}

	sess := m.Export()
	assert.Len(t, sess.Whys, model.WhyCount)
	assert.Len(t, sess.FollowUpQuestions, model.WhyCount)
	assert.Equal(t, int(StepPrioritize), sess.CurrentStep)

	restored, err := Restore(m.coach, sess)
	require.NoError(t, err)
	if diff := cmp.Diff(m.State(), restored.State()); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreValidates(t *testing.T) {
	coach := analyzer.NewWithLLM(llmtest.Failing{})
	tests := []struct {
		name string
		sess model.Session
		want error
	}{
		{"step too large", model.Session{CurrentStep: 5}, ErrOutOfRange},
		{"negative why step", model.Session{CurrentWhyStep: -1}, ErrOutOfRange},
		{"too many whys", model.Session{Whys: make([]string, 6)}, ErrOutOfRange},
		{"step 2 without analysis", model.Session{CurrentStep: 2}, ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(coach, tt.sess)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	m, err := Restore(coach, model.Session{Problem: "p", Whys: []string{"a"}, CurrentWhyStep: 2})
	require.NoError(t, err)
	assert.Equal(t, "a", m.State().Whys[0])
	assert.Equal(t, "", m.State().Whys[4])
}

func TestRestoreAssignsMissingSolutionIDs(t *testing.T) {
	sols := []model.Solution{{Text: "A: one"}}
	m, err := Restore(analyzer.NewWithLLM(llmtest.Failing{}), model.Session{
		CurrentStep: 1,
		Analysis:    &model.FiveWhysResult{},
		Solutions:   sols,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.State().Solutions[0].ID)
	assert.Empty(t, sols[0].ID)
}

func TestSaveThroughFileStore(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	m, _ := prioritizing(t)

	id, err := m.Save(ctx, fs)
	require.NoError(t, err)
	assert.Equal(t, id, m.State().ID)
	created := m.State().CreatedAt
	require.NotEmpty(t, created)

	_, err = m.Save(ctx, fs)
	require.NoError(t, err)

	list, err := fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p", list[0].Title)
	assert.Equal(t, created, list[0].CreatedAt)

	got, err := fs.Get(ctx, id)
	require.NoError(t, err)
	restored, err := Restore(m.coach, got)
	require.NoError(t, err)
	assert.Equal(t, m.State().Solutions, restored.State().Solutions)
}

type failingSaver struct{}

func (failingSaver) Create(context.Context, model.Session) (string, error) {
	return "", &store.PersistenceError{Op: store.OpSave, Err: errors.New("disk full")}
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	m, _ := prioritizing(t)
	before := m.State()

	_, err := m.Save(context.Background(), failingSaver{})
	assert.True(t, store.IsPersistenceError(err))
	assert.Empty(t, cmp.Diff(before, m.State()))
}
