package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type discardRenderer struct{}

func (discardRenderer) OnSpanStart(string, string, string, map[string]any, time.Time) {}
func (discardRenderer) OnSpanEnd(string, time.Time, error) {}
func (discardRenderer) RenderReport(*domain.UpdateReport) {}
func (discardRenderer) RenderFailure(error, []domain.Diagnostic) {}

type appMocks struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	app    *app.App
}

func newApp(t *testing.T) appMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appMocks{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	m.app = app.New(
		m.loader,
		mocks.NewMockSourceResolver(ctrl),
		mocks.NewMockContentHasher(ctrl),
		mocks.NewMockGraphStore(ctrl),
		mocks.NewMockWatcher(ctrl),
		m.logger,
		telemetry.NewNoOpTracer(),
		discardRenderer{},
	)
	return m
}

func (m appMocks) provider(_ context.Context) (*app.Components, func(), error) {
	return app.NewComponents(m.app, m.logger), func() {}, nil
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	m := newApp(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, m.provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when a command fails.
func TestRun_ExecutionError(t *testing.T) {
	m := newApp(t)
	m.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)
	m.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), m.provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_CompileError verifies that compile failures are not logged a second time.
func TestRun_CompileError(t *testing.T) {
	m := newApp(t)
	m.loader.EXPECT().Load(".").Return(nil, &domain.CompileError{Round: 1})

	exitCode := run(context.Background(), []string{"build"}, new(bytes.Buffer), m.provider)
	assert.Equal(t, 1, exitCode)
}
