package application

import (
	"context"
	"fmt"
	"slices"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

// historyDays is the width of the completion history window.
const historyDays = 7

// TaskUpdate is the outcome of a completion change.
type TaskUpdate struct {
	Points  int
	Changed bool
}

func (s *Service) today() string {
	return helpers.DateKey(s.now(), s.Opts.Location)
}

func (s *Service) dayOf(t entity.Task) string {
	return helpers.DateKey(t.DateAdded, s.Opts.Location)
}

func findTask(tasks []entity.Task, id string) int {
	return slices.IndexFunc(tasks, func(t entity.Task) bool { return t.ID == id })
}

func addPoints(points, delta int) int {
	return max(points+delta, 0)
}

// AddTask appends a task dated now unless today's cap is already reached.
func (s *Service) AddTask(ctx context.Context, username, text string) (*entity.Task, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	if _, err := s.getUser(ctx, username); err != nil {
		return nil, err
	}
	tasks, err := s.Tasks.ListTasks(ctx, username)
	if err != nil {
		return nil, err
	}
	today := s.today()
	n := 0
	for _, t := range tasks {
		if s.dayOf(t) == today {
			n++
		}
	}
	if n >= s.Opts.MaxTasksPerDay {
		return nil, ErrDailyCapReached
	}
	task := entity.Task{ID: newID(), Text: text, DateAdded: s.now()}
	tasks = append(tasks, task)
	if err := s.Tasks.SaveTasks(ctx, username, tasks); err != nil {
		return nil, err
	}
	metricTasksAdded.Add(1)
	return &task, nil
}

// ListToday returns the tasks created on the current calendar day.
func (s *Service) ListToday(ctx context.Context, username string) ([]entity.Task, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	if _, err := s.getUser(ctx, username); err != nil {
		return nil, err
	}
	tasks, err := s.Tasks.ListTasks(ctx, username)
	if err != nil {
		return nil, err
	}
	today := s.today()
	out := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if s.dayOf(t) == today {
			out = append(out, t)
		}
	}
	return out, nil
}

// History counts completed tasks per creation day over the last seven days,
// zero-filled.
func (s *Service) History(ctx context.Context, username string) (map[string]int, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	if _, err := s.getUser(ctx, username); err != nil {
		return nil, err
	}
	tasks, err := s.Tasks.ListTasks(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, historyDays)
	for _, d := range helpers.LastNDays(s.now(), historyDays, s.Opts.Location) {
		out[d] = 0
	}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		if _, ok := out[s.dayOf(t)]; ok {
			out[s.dayOf(t)]++
		}
	}
	return out, nil
}

// UpdateTask sets the completion flag and moves points accordingly.
func (s *Service) UpdateTask(ctx context.Context, username, taskID string, completed bool) (*TaskUpdate, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Tasks.ListTasks(ctx, username)
	if err != nil {
		return nil, err
	}
	i := findTask(tasks, taskID)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	if tasks[i].Completed == completed {
		return &TaskUpdate{Points: u.Points}, nil
	}
	tasks[i].Completed = completed
	delta := s.Opts.TaskPoints
	if !completed {
		delta = -delta
	}
	u.Points = addPoints(u.Points, delta)

	// Two documents, one lock hold. A crash between the writes leaves them out of step.
	if err := s.Tasks.SaveTasks(ctx, username, tasks); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save points: %w", err)
	}
	s.syncIndex(ctx, u)
	return &TaskUpdate{Points: u.Points, Changed: true}, nil
}

// DeleteTask removes a task, taking back its points if it was completed.
func (s *Service) DeleteTask(ctx context.Context, username, taskID string) (int, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return 0, err
	}
	tasks, err := s.Tasks.ListTasks(ctx, username)
	if err != nil {
		return 0, err
	}
	i := findTask(tasks, taskID)
	if i < 0 {
		return 0, ErrTaskNotFound
	}
	wasCompleted := tasks[i].Completed
	tasks = slices.Delete(tasks, i, i+1)

	if err := s.Tasks.SaveTasks(ctx, username, tasks); err != nil {
		return 0, err
	}
	if wasCompleted {
		u.Points = addPoints(u.Points, -s.Opts.TaskPoints)
		if err := s.Users.Save(ctx, u); err != nil {
			return 0, fmt.Errorf("save points: %w", err)
		}
		s.syncIndex(ctx, u)
	}
	return u.Points, nil
}
