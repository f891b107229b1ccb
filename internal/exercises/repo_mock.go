package exercises

import (
	"context"
	"strings"
	"sync"
	"time"
)

// repoMock is an in-memory exercises repo used in handler tests.
type repoMock struct {
	mu        sync.Mutex
	exercises map[int]*Exercise
	nextID    int
	inUse     map[int]bool

	returnErr error
}

func newRepoMock() *repoMock {
	return &repoMock{
		exercises: make(map[int]*Exercise),
		nextID:    1,
		inUse:     make(map[int]bool),
	}
}

func (m *repoMock) Create(_ context.Context, in ExerciseInput) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return nil, m.returnErr
	}

	for _, e := range m.exercises {
		if strings.EqualFold(e.Name, *in.Name) {
			return nil, ErrExerciseExists
		}
	}

	now := time.Now()
	e := &Exercise{
		ID:          m.nextID,
		Name:        *in.Name,
		MuscleGroup: *in.MuscleGroup,
		Description: in.Description,
		VideoURL:    in.VideoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.exercises[e.ID] = e
	m.nextID++
	return e, nil
}

func (m *repoMock) Get(_ context.Context, id int) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	e, ok := m.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return e, nil
}

func (m *repoMock) List(_ context.Context) ([]Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	all := make([]Exercise, 0, len(m.exercises))
	for id := 1; id < m.nextID; id++ {
		if e, ok := m.exercises[id]; ok {
			all = append(all, *e)
		}
	}
	return all, nil
}

func (m *repoMock) ListByMuscleGroup(_ context.Context, muscleGroup string) ([]Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	filtered := make([]Exercise, 0)
	for id := 1; id < m.nextID; id++ {
		if e, ok := m.exercises[id]; ok && e.MuscleGroup == muscleGroup {
			filtered = append(filtered, *e)
		}
	}
	return filtered, nil
}

func (m *repoMock) Update(_ context.Context, id int, in ExerciseInput) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	e, ok := m.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.MuscleGroup != nil {
		e.MuscleGroup = *in.MuscleGroup
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	if in.VideoURL != nil {
		e.VideoURL = in.VideoURL
	}
	e.UpdatedAt = time.Now()
	return e, nil
}

func (m *repoMock) Delete(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return false, m.returnErr
	}
	if m.inUse[id] {
		return false, ErrExerciseInUse
	}
	if _, ok := m.exercises[id]; !ok {
		return false, nil
	}
	delete(m.exercises, id)
	return true, nil
}
