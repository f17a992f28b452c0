// Package memstore provides in-memory job, artifact, and project stores
// for exercising units of work without a database.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/projects"
)

// Jobs is an in-memory jobs.Store. Transitions are recorded in order.
type Jobs struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*jobs.Job
	order       []uuid.UUID
	Transitions []jobs.Status
}

// NewJobs creates an empty Jobs store.
func NewJobs() *Jobs {
	return &Jobs{items: map[uuid.UUID]*jobs.Job{}}
}

func (m *Jobs) Find(_ context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(workspaceID, id)
}

func (m *Jobs) Create(_ context.Context, cmd jobs.CreateCommand) (*jobs.Job, error) {
	input, err := marshal(cmd.Input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j := &jobs.Job{
		ID:          uuid.New(),
		WorkspaceID: cmd.WorkspaceID,
		ProjectID:   cmd.ProjectID,
		Kind:        cmd.Kind,
		Status:      jobs.StatusQueued,
		Input:       input,
		Output:      json.RawMessage("{}"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[j.ID] = j
	m.order = append(m.order, j.ID)
	return clone(j), nil
}

func (m *Jobs) Transition(_ context.Context, workspaceID, id uuid.UUID, cmd jobs.TransitionCommand) (*jobs.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.find(workspaceID, id); err != nil {
		return nil, err
	}
	j := m.items[id]
	if cmd.Status == jobs.StatusRunning && j.Status != jobs.StatusQueued {
		return nil, jobs.ErrNotQueued
	}

	if cmd.Output != nil {
		out, err := marshal(cmd.Output)
		if err != nil {
			return nil, err
		}
		j.Output = out
	}
	j.Status = cmd.Status
	j.Error = cmd.Error
	j.UpdatedAt = time.Now().UTC()
	m.Transitions = append(m.Transitions, cmd.Status)
	return clone(j), nil
}

// SetTaskID records the queue message id of a job.
func (m *Jobs) SetTaskID(_ context.Context, workspaceID, id uuid.UUID, taskID string) (*jobs.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.find(workspaceID, id); err != nil {
		return nil, err
	}
	m.items[id].TaskID = &taskID
	return clone(m.items[id]), nil
}

// All returns every job in creation order.
func (m *Jobs) All() []*jobs.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*jobs.Job, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, clone(m.items[id]))
	}
	return out
}

// Seed stores j as is and returns it.
func (m *Jobs) Seed(j *jobs.Job) *jobs.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	m.items[j.ID] = j
	m.order = append(m.order, j.ID)
	return clone(j)
}

func (m *Jobs) find(workspaceID, id uuid.UUID) (*jobs.Job, error) {
	j, ok := m.items[id]
	if !ok || j.WorkspaceID != workspaceID {
		return nil, jobs.ErrNotFound
	}
	return clone(j), nil
}

// Artifacts is an in-memory artifacts.Store.
type Artifacts struct {
	mu    sync.Mutex
	items []*artifacts.Artifact
}

// NewArtifacts creates an empty Artifacts store.
func NewArtifacts() *Artifacts {
	return &Artifacts{}
}

func (m *Artifacts) Create(_ context.Context, cmd artifacts.CreateCommand) (*artifacts.Artifact, error) {
	meta := cmd.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	now := time.Now().UTC()
	a := &artifacts.Artifact{
		ID:          uuid.New(),
		WorkspaceID: cmd.WorkspaceID,
		ProjectID:   cmd.ProjectID,
		Kind:        cmd.Kind,
		Title:       cmd.Title,
		Content:     cmd.Content,
		Meta:        meta,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return a, nil
}

func (m *Artifacts) Latest(_ context.Context, workspaceID, projectID uuid.UUID, kind artifacts.Kind) (*artifacts.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.items) - 1; i >= 0; i-- {
		a := m.items[i]
		if a.WorkspaceID == workspaceID && a.ProjectID == projectID && a.Kind == kind {
			return a, nil
		}
	}
	return nil, artifacts.ErrNotFound
}

// Find returns an artifact by id within a workspace.
func (m *Artifacts) Find(_ context.Context, workspaceID, id uuid.UUID) (*artifacts.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.items {
		if a.ID == id && a.WorkspaceID == workspaceID {
			return a, nil
		}
	}
	return nil, artifacts.ErrNotFound
}

// All returns every artifact in creation order.
func (m *Artifacts) All() []*artifacts.Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*artifacts.Artifact(nil), m.items...)
}

// Projects is an in-memory projects.Store.
type Projects struct {
	mu    sync.Mutex
	items map[uuid.UUID]*projects.Project
}

// NewProjects creates an empty Projects store.
func NewProjects() *Projects {
	return &Projects{items: map[uuid.UUID]*projects.Project{}}
}

func (m *Projects) Find(_ context.Context, workspaceID, id uuid.UUID) (*projects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.items[id]
	if !ok || p.WorkspaceID != workspaceID {
		return nil, projects.ErrNotFound
	}
	return p, nil
}

func (m *Projects) Create(_ context.Context, cmd projects.CreateCommand) (*projects.Project, error) {
	p := &projects.Project{
		ID:          uuid.New(),
		WorkspaceID: cmd.WorkspaceID,
		Name:        cmd.Name,
		SourceType:  cmd.SourceType,
		SourceRef:   cmd.SourceRef,
		CreatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
	return p, nil
}

// Seed stores p as is and returns it.
func (m *Projects) Seed(p *projects.Project) *projects.Project {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.items[p.ID] = p
	return p
}

// Len returns the number of stored projects.
func (m *Projects) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func marshal(v any) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("{}"), nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

func clone(j *jobs.Job) *jobs.Job {
	c := *j
	return &c
}
