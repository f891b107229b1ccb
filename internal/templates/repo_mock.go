package templates

import (
	"context"
	"sync"
	"time"
)

// repoMock is an in-memory templates repo used in handler tests.
type repoMock struct {
	mu        sync.Mutex
	templates map[int]*Template
	exercises map[int][]TemplateExercise
	nextID    int
	inUse     map[int]bool

	knownExercises map[int]string
}

func newRepoMock() *repoMock {
	return &repoMock{
		templates:      make(map[int]*Template),
		exercises:      make(map[int][]TemplateExercise),
		nextID:         1,
		inUse:          make(map[int]bool),
		knownExercises: make(map[int]string),
	}
}

func (m *repoMock) Create(_ context.Context, in TemplateInput) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	tmpl := &Template{
		ID:          m.nextID,
		Name:        *in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.templates[tmpl.ID] = tmpl
	m.nextID++
	return tmpl, nil
}

func (m *repoMock) Get(_ context.Context, id int) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

func (m *repoMock) List(_ context.Context) ([]Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]Template, 0, len(m.templates))
	for id := 1; id < m.nextID; id++ {
		if tmpl, ok := m.templates[id]; ok {
			all = append(all, *tmpl)
		}
	}
	return all, nil
}

func (m *repoMock) GetWithExercises(_ context.Context, id int) (*TemplateWithExercises, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	exercises := m.exercises[id]
	if exercises == nil {
		exercises = make([]TemplateExercise, 0)
	}
	return &TemplateWithExercises{
		Template:  *tmpl,
		Exercises: exercises,
	}, nil
}

func (m *repoMock) Update(_ context.Context, id int, in TemplateInput) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	if in.Name != nil {
		tmpl.Name = *in.Name
	}
	if in.Description != nil {
		tmpl.Description = in.Description
	}
	tmpl.UpdatedAt = time.Now()
	return tmpl, nil
}

func (m *repoMock) Delete(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse[id] {
		return false, ErrTemplateInUse
	}
	if _, ok := m.templates[id]; !ok {
		return false, nil
	}
	delete(m.templates, id)
	delete(m.exercises, id)
	return true, nil
}

func (m *repoMock) AddExercise(_ context.Context, templateID int, in TemplateExerciseInput) (*TemplateExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.knownExercises[*in.ExerciseID]
	if !ok {
		return nil, ErrExerciseMissing
	}
	te := TemplateExercise{
		ID:           len(m.exercises[templateID]) + 1,
		TemplateID:   templateID,
		ExerciseID:   *in.ExerciseID,
		ExerciseName: name,
		Sets:         *in.Sets,
		Reps:         *in.Reps,
		RestSeconds:  60,
	}
	if in.InitialWeight != nil {
		te.InitialWeight = *in.InitialWeight
	}
	if in.RestSeconds != nil {
		te.RestSeconds = *in.RestSeconds
	}
	if in.OrderIndex != nil {
		te.OrderIndex = *in.OrderIndex
	}
	m.exercises[templateID] = append(m.exercises[templateID], te)
	return &te, nil
}

func (m *repoMock) RemoveExercise(_ context.Context, templateID, exerciseID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots := m.exercises[templateID]
	for i, te := range slots {
		if te.ExerciseID == exerciseID {
			m.exercises[templateID] = append(slots[:i], slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
