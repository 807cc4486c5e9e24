package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"click", Click, false},
		{" Focus-Start ", FocusStart, false},
		{"focus-stop", FocusStop, false},
		{"error", Error, false},
		{"reload", Reload, false},
		{"feed", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "focus-start")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseName(t *testing.T) {
	id := uuid.NewString()

	k, got, ok := parseName("focus-start-" + id + ".cmd")
	require.True(t, ok)
	assert.Equal(t, FocusStart, k)
	assert.Equal(t, id, got)

	for _, bad := range []string{
		"click-" + id,
		"click-" + id + ".txt",
		"click" + id + ".cmd",
		"dance-" + id + ".cmd",
		"click-not-a-uuid-at-all-but-long-enough-xx.cmd",
		"x.cmd",
	} {
		_, _, ok := parseName(bad)
		assert.False(t, ok, bad)
	}
}

func TestPokeAndDrain(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")

	id1, err := Poke(dir, Click, nil)
	require.NoError(t, err)
	id2, err := Poke(dir, FocusStart, nil)
	require.NoError(t, err)
	// Make ordering deterministic regardless of filesystem timestamp
	// resolution.
	past := time.Now().Add(-time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "click-"+id1+".cmd"), past, past))

	in := New(dir, nil)
	cmds := in.Drain()
	require.Len(t, cmds, 2)
	assert.Equal(t, Click, cmds[0].Kind)
	assert.Equal(t, id1, cmds[0].ID)
	assert.Equal(t, FocusStart, cmds[1].Kind)
	assert.Equal(t, id2, cmds[1].ID)

	assert.Empty(t, cmds[0].Payload)
	assert.Empty(t, in.Drain(), "commands are consumed")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPokeCarriesPayload(t *testing.T) {
	dir := t.TempDir()
	_, err := Poke(dir, Reload, []byte(`{"pomodoro_minutes":50}`))
	require.NoError(t, err)

	cmds := New(dir, nil).Drain()
	require.Len(t, cmds, 1)
	assert.Equal(t, Reload, cmds[0].Kind)
	assert.JSONEq(t, `{"pomodoro_minutes":50}`, string(cmds[0].Payload))
}

func TestDrainDiscardsJunkAndStaleFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pending.tmp"), []byte("x"), 0644))

	id, err := Poke(dir, Error, nil)
	require.NoError(t, err)
	old := time.Now().Add(-2 * StaleAfter)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "error-"+id+".cmd"), old, old))

	assert.Empty(t, New(dir, nil).Drain())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "hidden temp files are left for their writer")
	assert.Equal(t, ".pending.tmp", entries[0].Name())
}

func TestDrainMissingDir(t *testing.T) {
	assert.Empty(t, New(filepath.Join(t.TempDir(), "missing"), nil).Drain())
}

func TestRunDispatchesPokes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	got := make(chan Command, 4)
	in := New(dir, func(c Command) { got <- c })
	in.poll = 50 * time.Millisecond

	// A command already waiting is handled on startup.
	_, err := Poke(dir, Click, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()

	recv := func() Command {
		select {
		case c := <-got:
			return c
		case <-time.After(3 * time.Second):
			t.Fatal("command not dispatched")
			return Command{}
		}
	}

	assert.Equal(t, Click, recv().Kind)

	_, err = Poke(dir, FocusStop, nil)
	require.NoError(t, err)
	assert.Equal(t, FocusStop, recv().Kind)

	cancel()
	require.NoError(t, <-done)
}
