package store

import (
	"context"
	"fmt"
	"time"

	"smartcal/pkg"
)

// InsertObservation logs a weather reading taken at the given time
func (s *Store) InsertObservation(ctx context.Context, at time.Time, temp float64, conditionMet bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO weather_logs (timestamp, temp, condition_met) VALUES (?, ?, ?)",
		at.UTC(), temp, conditionMet,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert weather observation: %w", err)
	}
	return res.LastInsertId()
}

// SustainedWarmth reports whether the trailing window holds enough warm
// readings: at least `checks` observations above `threshold` within the
// last checks*interval. Returns the warm count alongside the verdict.
func (s *Store) SustainedWarmth(ctx context.Context, now time.Time, threshold float64, checks int, interval time.Duration) (int, bool, error) {
	since := now.UTC().Add(-time.Duration(checks) * interval)

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM weather_logs WHERE temp > ? AND timestamp > ?",
		threshold, since,
	).Scan(&count)
	if err != nil {
		return 0, false, fmt.Errorf("failed to count warm observations: %w", err)
	}

	return count, count >= checks, nil
}

// RecentObservations returns the newest weather readings, newest first
func (s *Store) RecentObservations(ctx context.Context, limit int) ([]pkg.Observation, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, timestamp, temp, condition_met FROM weather_logs "+
			"ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer rows.Close()

	var observations []pkg.Observation
	for rows.Next() {
		var obs pkg.Observation
		if err := rows.Scan(&obs.ID, &obs.Timestamp, &obs.Temp, &obs.ConditionMet); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}
