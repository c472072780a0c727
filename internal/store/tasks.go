package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartcal/pkg"
)

// ErrTaskNotFound is returned when a task id does not exist
var ErrTaskNotFound = errors.New("task not found")

// ErrTaskDone is returned when an operation targets a completed task
var ErrTaskDone = errors.New("task already done")

// CreateTask inserts a new pending task and returns its id
func (s *Store) CreateTask(ctx context.Context, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (description) VALUES (?)",
		description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read task id: %w", err)
	}
	return id, nil
}

// Task loads a single task by id
func (s *Store) Task(ctx context.Context, id int64) (*pkg.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, description, status, snooze_until, created_at FROM tasks WHERE id = ?",
		id,
	)
	return scanTask(row)
}

// OpenTasks returns pending and snoozed tasks, newest first
func (s *Store) OpenTasks(ctx context.Context, limit int) ([]pkg.Task, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, status, snooze_until, created_at FROM tasks "+
			"WHERE status IN ('pending', 'snoozed') ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []pkg.Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Snooze transitions an open task to snoozed until the given time
func (s *Store) Snooze(ctx context.Context, id int64, until time.Time) error {
	task, err := s.Task(ctx, id)
	if err != nil {
		return err
	}
	if task.Status == pkg.TaskStatusDone {
		return fmt.Errorf("snooze task #%d: %w", id, ErrTaskDone)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE tasks SET status = 'snoozed', snooze_until = ? WHERE id = ?",
		until.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to snooze task #%d: %w", id, err)
	}
	return nil
}

// Complete marks a task done
func (s *Store) Complete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET status = 'done', snooze_until = NULL WHERE id = ?",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete task #%d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("complete task #%d: %w", id, ErrTaskNotFound)
	}
	return nil
}

// WakeDue returns snoozed tasks whose snooze window has passed back to
// pending, and reports how many woke up.
func (s *Store) WakeDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET status = 'pending', snooze_until = NULL "+
			"WHERE status = 'snoozed' AND snooze_until <= ?",
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to wake snoozed tasks: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*pkg.Task, error) {
	var task pkg.Task
	var snoozeUntil sql.NullTime

	err := row.Scan(&task.ID, &task.Description, &task.Status, &snoozeUntil, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if snoozeUntil.Valid {
		t := snoozeUntil.Time
		task.SnoozeUntil = &t
	}
	return &task, nil
}

func scanTaskRow(rows *sql.Rows) (*pkg.Task, error) {
	return scanTask(rows)
}
