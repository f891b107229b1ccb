package sessions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// repoMock is an in-memory sessions and logs repo used in handler tests.
type repoMock struct {
	mu         sync.Mutex
	sessions   map[int]*WorkoutSession
	logs       map[int]*ExerciseLog
	nextID     int
	nextLogID  int
	templates  map[int]string
	knownExIDs map[int]string
}

func newRepoMock() *repoMock {
	return &repoMock{
		sessions:   make(map[int]*WorkoutSession),
		logs:       make(map[int]*ExerciseLog),
		nextID:     1,
		nextLogID:  1,
		templates:  make(map[int]string),
		knownExIDs: make(map[int]string),
	}
}

func (m *repoMock) CreateSession(_ context.Context, in SessionInput) (*WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	templateName, ok := m.templates[*in.TemplateID]
	if !ok {
		return nil, ErrTemplateMissing
	}
	date, err := normalizeDate(*in.Date)
	if err != nil {
		return nil, err
	}
	s := &WorkoutSession{
		ID:              m.nextID,
		TemplateID:      *in.TemplateID,
		TemplateName:    templateName,
		Date:            date,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
		CreatedAt:       time.Now(),
	}
	m.sessions[s.ID] = s
	m.nextID++
	return s, nil
}

func (m *repoMock) GetSession(_ context.Context, id int) (*WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *repoMock) GetSessionWithLogs(_ context.Context, id int) (*SessionWithLogs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	logs := make([]ExerciseLog, 0)
	for logID := 1; logID < m.nextLogID; logID++ {
		if l, ok := m.logs[logID]; ok && l.SessionID == id {
			logs = append(logs, *l)
		}
	}
	return &SessionWithLogs{WorkoutSession: *s, Logs: logs}, nil
}

func (m *repoMock) ListSessions(_ context.Context) ([]WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]WorkoutSession, 0, len(m.sessions))
	for id := 1; id < m.nextID; id++ {
		if s, ok := m.sessions[id]; ok {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date > all[j].Date
	})
	return all, nil
}

func (m *repoMock) ListSessionsByTemplate(ctx context.Context, templateID int) ([]WorkoutSession, error) {
	all, err := m.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]WorkoutSession, 0)
	for _, s := range all {
		if s.TemplateID == templateID {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (m *repoMock) UpdateSession(_ context.Context, id int, in SessionInput) (*WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if in.DurationMinutes != nil {
		s.DurationMinutes = in.DurationMinutes
	}
	if in.Notes != nil {
		s.Notes = in.Notes
	}
	return s, nil
}

func (m *repoMock) DeleteSession(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	for logID, l := range m.logs {
		if l.SessionID == id {
			delete(m.logs, logID)
		}
	}
	return true, nil
}

func (m *repoMock) CreateLog(_ context.Context, in LogInput) (*ExerciseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[*in.SessionID]
	if !ok {
		return nil, ErrSessionMissing
	}
	if s.Finished() {
		return nil, ErrSessionFinished
	}
	exerciseName, ok := m.knownExIDs[*in.ExerciseID]
	if !ok {
		return nil, ErrExerciseMissing
	}
	l := &ExerciseLog{
		ID:           m.nextLogID,
		SessionID:    *in.SessionID,
		ExerciseID:   *in.ExerciseID,
		ExerciseName: exerciseName,
		Date:         s.Date,
		SetNumber:    *in.SetNumber,
		Completed:    true,
		Notes:        in.Notes,
		CreatedAt:    time.Now(),
	}
	if in.Reps != nil {
		l.Reps = *in.Reps
	}
	if in.Weight != nil {
		l.Weight = *in.Weight
	}
	if in.Completed != nil {
		l.Completed = *in.Completed
	}
	m.logs[l.ID] = l
	m.nextLogID++
	return l, nil
}

func (m *repoMock) UpdateLog(_ context.Context, id int, in LogInput) (*ExerciseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return nil, ErrLogNotFound
	}
	if s, ok := m.sessions[l.SessionID]; ok && s.Finished() {
		return nil, ErrSessionFinished
	}
	if in.SetNumber != nil {
		l.SetNumber = *in.SetNumber
	}
	if in.Reps != nil {
		l.Reps = *in.Reps
	}
	if in.Weight != nil {
		l.Weight = *in.Weight
	}
	if in.Completed != nil {
		l.Completed = *in.Completed
	}
	if in.Notes != nil {
		l.Notes = in.Notes
	}
	return l, nil
}

func (m *repoMock) DeleteLog(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return false, nil
	}
	if s, ok := m.sessions[l.SessionID]; ok && s.Finished() {
		return false, ErrSessionFinished
	}
	delete(m.logs, id)
	return true, nil
}

func (m *repoMock) ListLogsByExercise(_ context.Context, exerciseID int) ([]ExerciseLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]ExerciseLog, 0)
	for id := 1; id < m.nextLogID; id++ {
		if l, ok := m.logs[id]; ok && l.ExerciseID == exerciseID {
			logs = append(logs, *l)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date > logs[j].Date
	})
	return logs, nil
}
