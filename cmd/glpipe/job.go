package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/manifest"
	"github.com/gogpu/glpipe/shadersrc"
)

// job is one program built from a manifest.
type job struct {
	m       *manifest.Manifest
	ctx     *glpipe.Context
	prog    *glpipe.Program
	stages  []*glpipe.Stage
	buffers []*glpipe.Buffer
	prim    gputypes.PrimitiveTopology
}

func newJob(ctx *glpipe.Context, m *manifest.Manifest) (*job, error) {
	prim, err := m.Topology()
	if err != nil {
		return nil, err
	}
	j := &job{m: m, ctx: ctx, prog: ctx.NewProgram(), prim: prim}

	for _, ms := range m.Stages {
		s := ctx.NewStage()
		j.stages = append(j.stages, s)
		if err := j.loadStage(s, ms); err != nil {
			j.close()
			return nil, err
		}
		j.prog.AddStage(s)
	}

	in := j.prog.Input()
	for _, ma := range m.Attributes {
		b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
		j.buffers = append(j.buffers, b)
		if err := ma.Upload(b); err != nil {
			j.close()
			return nil, fmt.Errorf("attribute %s: %w", ma.Name, err)
		}
		a := in.AddAttribute(ma.Name)
		ma.Configure(a)
		a.ConnectBuffer(b, 0, 0)
	}
	for _, mu := range m.Uniforms {
		mu.Apply(in.AddUniform(mu.Name))
	}

	out := j.prog.Output()
	for _, name := range m.Varyings {
		out.AddVarying(name)
	}
	out.Interleave(m.Interleave)
	return j, nil
}

func (j *job) loadStage(s *glpipe.Stage, ms manifest.Stage) error {
	kind, err := ms.StageKind()
	if err != nil {
		return err
	}
	path := j.m.StagePath(ms)
	if ms.Entry == "" {
		return s.LoadFileAs(path, kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text, err := shadersrc.Decode(data)
	if err != nil {
		return err
	}
	return s.LoadWGSL(text, kind, ms.Entry)
}

// paths returns the stage files of the job.
func (j *job) paths() []string {
	paths := make([]string, len(j.m.Stages))
	for i, ms := range j.m.Stages {
		paths[i] = filepath.Clean(j.m.StagePath(ms))
	}
	return paths
}

// reload reloads the stage loaded from path. It reports whether path
// belongs to the job.
func (j *job) reload(path string) (bool, error) {
	path = filepath.Clean(path)
	for i, p := range j.paths() {
		if p == path {
			return true, j.loadStage(j.stages[i], j.m.Stages[i])
		}
	}
	return false, nil
}

// run draws the manifest vertices once with capture enabled.
func (j *job) run() error {
	if len(j.m.Varyings) == 0 {
		return glpipe.Render(j.prog, j.prim, j.m.Count, glpipe.WithWait(true))
	}
	return glpipe.Render(j.prog, j.prim, j.m.Count, glpipe.WithCapture(true), glpipe.WithWait(true))
}

func (j *job) close() {
	j.prog.Destroy()
	for _, s := range j.stages {
		s.Destroy()
	}
	for _, b := range j.buffers {
		b.Destroy()
	}
}
