package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/cmd/rebuild/commands"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/build"
)

type call struct {
	method string
	path   string
	opts   app.Options
}

type mockApp struct {
	calls []call
	err   error
}

func (m *mockApp) record(method, path string, opts app.Options) error {
	m.calls = append(m.calls, call{method: method, path: path, opts: opts})
	return m.err
}

func (m *mockApp) Build(_ context.Context, opts app.Options) error {
	return m.record("build", "", opts)
}

func (m *mockApp) Watch(_ context.Context, opts app.Options) error {
	return m.record("watch", "", opts)
}

func (m *mockApp) SaveGraph(_ context.Context, destination string, opts app.Options) error {
	return m.record("save", destination, opts)
}

func (m *mockApp) LoadGraph(_ context.Context, source string, opts app.Options) error {
	return m.record("load", source, opts)
}

func (m *mockApp) CheckGraph(_ context.Context, source string, opts app.Options) error {
	return m.record("check", source, opts)
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	cli.SetArgs(args)
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "-C", "proj", "--output-mode", "progress", "-v")
		require.NoError(t, err)

		require.Len(t, m.calls, 1)
		assert.Equal(t, "build", m.calls[0].method)
		opts := m.calls[0].opts
		assert.Equal(t, "proj", opts.Dir)
		assert.Equal(t, "progress", opts.OutputMode)
		assert.True(t, opts.Verbose)
		assert.Empty(t, opts.Paths)
	})

	t.Run("ci forces summary output", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--ci")
		require.NoError(t, err)

		require.Len(t, m.calls, 1)
		assert.Equal(t, "summary", m.calls[0].opts.OutputMode)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("passes paths", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "src/p", "src/q/Q.java")
		require.NoError(t, err)

		require.Len(t, m.calls, 1)
		assert.Equal(t, []string{"src/p", "src/q/Q.java"}, m.calls[0].opts.Paths)
	})
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch")
	require.NoError(t, err)

	require.Len(t, m.calls, 1)
	assert.Equal(t, "watch", m.calls[0].method)
	assert.Equal(t, "auto", m.calls[0].opts.OutputMode)
}

func TestCommands_Graph(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		method string
		path   string
	}{
		{name: "save default", args: []string{"graph", "save"}, method: "save"},
		{name: "save to path", args: []string{"graph", "save", "out.db"}, method: "save", path: "out.db"},
		{name: "load", args: []string{"graph", "load", "in.json.zst"}, method: "load", path: "in.json.zst"},
		{name: "check default", args: []string{"graph", "check"}, method: "check"},
		{name: "check path", args: []string{"graph", "check", "g.json"}, method: "check", path: "g.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, tt.args...)
			require.NoError(t, err)

			require.Len(t, m.calls, 1)
			assert.Equal(t, tt.method, m.calls[0].method)
			assert.Equal(t, tt.path, m.calls[0].path)
		})
	}

	t.Run("load requires a source", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "graph", "load")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rebuild version "+build.Version)
}
