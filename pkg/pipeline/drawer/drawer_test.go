package drawer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-provision/pkg/pipeline"
	"github.com/askiada/go-provision/pkg/pipeline/drawer"
	"github.com/askiada/go-provision/pkg/pipeline/model"
)

type link struct {
	parent string
	child  string
}

type recordingDrawer struct {
	stages   []string
	links    []link
	statuses map[string]model.Status
	drawn    int
}

func newRecordingDrawer() *recordingDrawer {
	return &recordingDrawer{statuses: map[string]model.Status{}}
}

func (d *recordingDrawer) AddStage(name string) error {
	d.stages = append(d.stages, name)

	return nil
}

func (d *recordingDrawer) AddLink(parentName, childName string) error {
	d.links = append(d.links, link{parent: parentName, child: childName})

	return nil
}

func (d *recordingDrawer) SetStatus(name string, status model.Status) error {
	d.statuses[name] = status

	return nil
}

func (d *recordingDrawer) SetElapsed(_ string, _ time.Duration) error {
	return nil
}

func (d *recordingDrawer) Draw() error {
	d.drawn++

	return nil
}

var _ drawer.Drawer = (*recordingDrawer)(nil)

type noopStage struct {
	pipeline.Base
}

func (s *noopStage) Run(_ context.Context) error { return nil }

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	drw := newRecordingDrawer()

	pipe, err := pipeline.New(drawer.PipelineDrawer(drw))
	require.NoError(t, err)

	require.NoError(t, pipe.Add(&noopStage{Base: pipeline.NewBase("first")}))
	require.NoError(t, pipe.Add(&noopStage{Base: pipeline.NewBase("second")}))

	require.NoError(t, pipe.Run(context.Background()))

	assert.Equal(t, []string{
		model.StartStage.Name,
		model.EndStage.Name,
		"first",
		"second",
	}, drw.stages)

	assert.Equal(t, []link{
		{parent: model.StartStage.Name, child: "first"},
		{parent: "first", child: "second"},
		{parent: "second", child: model.EndStage.Name},
	}, drw.links)

	assert.Equal(t, model.StatusSatisfied, drw.statuses["first"])
	assert.Equal(t, model.StatusSatisfied, drw.statuses["second"])
	assert.Equal(t, 1, drw.drawn)
}

func TestSVGDrawer(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "pipeline.gv")
	drw := drawer.NewSVGDrawer(out)

	require.NoError(t, drw.AddStage("first"))
	require.NoError(t, drw.AddStage("second"))
	require.NoError(t, drw.AddLink("first", "second"))
	require.NoError(t, drw.SetStatus("second", model.StatusFailed))
	require.NoError(t, drw.SetElapsed("second", 2*time.Second))
	require.NoError(t, drw.Draw())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "first")
	assert.Contains(t, content, "second")
	assert.Contains(t, content, "->")
	assert.Contains(t, content, "fillcolor")
	assert.Contains(t, content, "2s")
}

func TestSVGDrawerUnknownStage(t *testing.T) {
	t.Parallel()

	drw := drawer.NewSVGDrawer(filepath.Join(t.TempDir(), "pipeline.gv"))

	assert.Error(t, drw.SetStatus("missing", model.StatusSatisfied))
	assert.Error(t, drw.AddLink("missing", "also missing"))
}
