package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/taskboard/types"
)

// JSONAdapter stores the task list and assignee set as JSON blobs
type JSONAdapter struct {
	blobs BlobStore
}

// NewJSONAdapter creates an adapter over blobs
func NewJSONAdapter(blobs BlobStore) *JSONAdapter {
	return &JSONAdapter{blobs: blobs}
}

// Blobs returns the underlying blob store
func (a *JSONAdapter) Blobs() BlobStore {
	return a.blobs
}

// LoadTasks implements Adapter.LoadTasks
func (a *JSONAdapter) LoadTasks() ([]types.Task, bool, error) {
	data, ok, err := a.load(TasksKey)
	if err != nil || !ok {
		return nil, false, err
	}

	var tasks []types.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", TasksKey, err)
	}
	return tasks, true, nil
}

// SaveTasks implements Adapter.SaveTasks
func (a *JSONAdapter) SaveTasks(tasks []types.Task) error {
	if tasks == nil {
		tasks = []types.Task{}
	}
	return a.save(TasksKey, tasks)
}

// LoadAssignees implements Adapter.LoadAssignees
func (a *JSONAdapter) LoadAssignees() ([]string, error) {
	data, ok, err := a.load(AssigneesKey)
	if err != nil || !ok {
		return []string{}, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return []string{}, fmt.Errorf("failed to parse %s: %w", AssigneesKey, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// SaveAssignees implements Adapter.SaveAssignees
func (a *JSONAdapter) SaveAssignees(names []string) error {
	if names == nil {
		names = []string{}
	}
	return a.save(AssigneesKey, names)
}

// load reads a blob, treating an empty or null document as absent
func (a *JSONAdapter) load(key string) ([]byte, bool, error) {
	data, ok, err := a.blobs.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	trimmed := bytes.TrimSpace(data)
	if !ok || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}
	return trimmed, true, nil
}

func (a *JSONAdapter) save(key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := a.blobs.Put(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
