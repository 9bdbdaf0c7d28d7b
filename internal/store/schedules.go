package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SchedulesForPerson lists every schedule for a person ordered by start time,
// joined out to the proceeding and case it belongs to when a link exists.
func (s *Store) SchedulesForPerson(ctx context.Context, personID PersonID) ([]PersonSchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			s.schedule_id,
			s.start_time,
			s.end_time,
			s.description,
			ps.proceeding_id,
			p.case_id
		FROM schedules s
		LEFT JOIN proceeding_schedules ps ON ps.schedule_id = s.schedule_id
		LEFT JOIN proceedings p ON ps.proceeding_id = p.proceeding_id
		WHERE s.person_id = ?
		ORDER BY s.start_time`, string(personID))
	if err != nil {
		return nil, fmt.Errorf("fetch schedules for person %s: %w", personID, err)
	}
	defer rows.Close()

	schedules := []PersonSchedule{}
	for rows.Next() {
		var (
			sc           PersonSchedule
			start, end   sql.NullString
			description  sql.NullString
			proceedingID sql.NullInt64
			caseID       sql.NullInt64
		)
		if err := rows.Scan(&sc.ScheduleID, &start, &end, &description, &proceedingID, &caseID); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		sc.StartTime = nullString(start)
		sc.EndTime = nullString(end)
		sc.Description = nullString(description)
		if proceedingID.Valid {
			v := proceedingID.Int64
			sc.ProceedingID = &v
		}
		if caseID.Valid {
			v := caseID.Int64
			sc.CaseID = &v
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

// ensurePersonExists creates the persons row on first reference.
func (s *Store) ensurePersonExists(ctx context.Context, personID PersonID, name string) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM persons WHERE person_id = ?", string(personID)).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check person %s: %w", personID, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO persons (person_id, name) VALUES (?, ?)", string(personID), name)
	if err != nil {
		return fmt.Errorf("create person %s: %w", personID, err)
	}
	return nil
}

// AddProceedingWithParticipants is the older creation path: the proceeding id
// is assigned by the store, persons are created on first reference, and each
// participant may carry an explicit schedule that gets linked through
// proceeding_schedules. It is the only writer of that join table.
func (s *Store) AddProceedingWithParticipants(ctx context.Context, caseID int64, summary, content string, participants []LegacyParticipant) (int64, error) {
	if err := s.ensureCaseExists(ctx, caseID); err != nil {
		return 0, err
	}

	proceedingID, err := s.nextID(ctx, "proceedings", "proceeding_id")
	if err != nil {
		return 0, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO proceedings (proceeding_id, case_id, date_created, summary, content)
		VALUES (?, ?, CURRENT_TIMESTAMP, ?, ?)`,
		proceedingID, caseID, summary, content,
	)
	if err != nil {
		return 0, fmt.Errorf("add proceeding: %w", err)
	}

	for _, p := range participants {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Person %s", p.PersonID)
		}
		if err := s.ensurePersonExists(ctx, p.PersonID, name); err != nil {
			return 0, err
		}

		var linkedScheduleID string
		if p.Schedule != nil {
			linkedScheduleID = scheduleID(p.PersonID, p.Schedule.StartTime, "")
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO schedules (schedule_id, case_id, person_id, start_time, end_time, description)
				VALUES (?, ?, ?, ?, ?, ?)`,
				linkedScheduleID, caseID, string(p.PersonID),
				normalizedOrNil(p.Schedule.StartTime, ""),
				normalizedOrNil(p.Schedule.EndTime, ""),
				nullable(p.Schedule.Description),
			)
			if err != nil {
				return 0, fmt.Errorf("add proceeding %d schedule: %w", proceedingID, err)
			}
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO proceeding_participants (proceeding_id, person_id, role)
			VALUES (?, ?, ?)`,
			proceedingID, string(p.PersonID), nullable(p.Role),
		)
		if err != nil {
			return 0, fmt.Errorf("add proceeding %d participant: %w", proceedingID, err)
		}

		if linkedScheduleID != "" {
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO proceeding_schedules (proceeding_id, schedule_id)
				VALUES (?, ?)`,
				proceedingID, linkedScheduleID,
			)
			if err != nil {
				return 0, fmt.Errorf("add proceeding %d schedule link: %w", proceedingID, err)
			}
		}
	}

	s.log.Info().Int64("proceeding_id", proceedingID).Msg("added proceeding with participants")
	return proceedingID, nil
}
