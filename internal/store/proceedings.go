package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (s *Store) ensureCaseExists(ctx context.Context, caseID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM cases WHERE case_id = ?", caseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", ErrCaseNotFound, caseID)
	}
	if err != nil {
		return fmt.Errorf("check case %d: %w", caseID, err)
	}
	return nil
}

// CreateProceeding inserts a proceeding with a snapshot participant count,
// one participant row per participant, and one synthesized schedule per
// participant. The case reference is validated before anything is written.
func (s *Store) CreateProceeding(ctx context.Context, in ProceedingInput) (int64, error) {
	if err := s.ensureCaseExists(ctx, in.CaseID); err != nil {
		return 0, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proceedings (
			proceeding_id, case_id, start_time, end_time, summary, content,
			people_count, date_created, date_updated, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.CaseID,
		normalizedOrNil(in.StartTime, in.Date),
		normalizedOrNil(in.EndTime, in.Date),
		nullable(in.Summary),
		nullable(in.Content),
		len(in.Participants),
		normalizedOrNil("", in.DateCreated),
		normalizedOrNil("", in.DateUpdated),
		nullable(in.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("create proceeding %d: %w", in.ID, err)
	}

	for _, p := range in.Participants {
		if p.ID == "" {
			continue
		}

		// The live client populates both identifier columns from the
		// participant's display name; the real id only reaches the
		// schedule row.
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO proceeding_participants (proceeding_id, person_id, name, role)
			VALUES (?, ?, ?, ?)`,
			in.ID, p.Name, p.Name, p.Role,
		)
		if err != nil {
			return 0, fmt.Errorf("create proceeding %d participant: %w", in.ID, err)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO schedules (
				schedule_id, case_id, person_id, start_time, end_time, description, status
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			scheduleID(p.ID, in.StartTime, in.Date),
			in.CaseID,
			string(p.ID),
			normalizedOrNil(in.StartTime, in.Date),
			normalizedOrNil(in.EndTime, in.Date),
			fmt.Sprintf("Proceeding %d schedule", in.ID),
			"scheduled",
		)
		if err != nil {
			return 0, fmt.Errorf("create proceeding %d schedule: %w", in.ID, err)
		}
	}

	s.log.Info().Int64("proceeding_id", in.ID).Int("participants", len(in.Participants)).
		Msg("created proceeding")
	return in.ID, nil
}

// UpdateProceeding overwrites the proceeding row by primary key (silently
// affecting zero rows when the id is absent) and replaces the participant
// set whole. Schedules generated at creation time are left untouched, so
// they go stale when the participant list changes.
func (s *Store) UpdateProceeding(ctx context.Context, in ProceedingInput) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE proceedings SET
			case_id = ?,
			start_time = ?,
			end_time = ?,
			summary = ?,
			content = ?,
			people_count = ?,
			date_created = ?,
			date_updated = ?,
			status = ?
		WHERE proceeding_id = ?`,
		in.CaseID,
		normalizedOrNil(in.StartTime, in.Date),
		normalizedOrNil(in.EndTime, in.Date),
		nullable(in.Summary),
		nullable(in.Content),
		len(in.Participants),
		normalizedOrNil("", in.DateCreated),
		normalizedOrNil("", in.DateUpdated),
		nullable(in.Status),
		in.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update proceeding %d: %w", in.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		"DELETE FROM proceeding_participants WHERE proceeding_id = ?", in.ID)
	if err != nil {
		return 0, fmt.Errorf("update proceeding %d participants: %w", in.ID, err)
	}

	for _, p := range in.Participants {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO proceeding_participants (proceeding_id, person_id, name, role)
			VALUES (?, ?, ?, ?)`,
			in.ID, string(p.ID), p.Name, p.Role,
		)
		if err != nil {
			return 0, fmt.Errorf("update proceeding %d participants: %w", in.ID, err)
		}
	}

	s.log.Info().Int64("proceeding_id", in.ID).Msg("updated proceeding")
	return in.ID, nil
}

// DeleteProceeding removes the proceeding's participants and schedule links,
// then the proceeding row itself.
func (s *Store) DeleteProceeding(ctx context.Context, proceedingID int64) error {
	cascade := []string{
		`DELETE FROM proceeding_participants WHERE proceeding_id = ?`,
		`DELETE FROM proceeding_schedules WHERE proceeding_id = ?`,
		`DELETE FROM proceedings WHERE proceeding_id = ?`,
	}
	for _, query := range cascade {
		if _, err := s.db.ExecContext(ctx, query, proceedingID); err != nil {
			return fmt.Errorf("delete proceeding %d: %w", proceedingID, err)
		}
	}
	s.log.Info().Int64("proceeding_id", proceedingID).Msg("deleted proceeding")
	return nil
}

// Proceedings returns every proceeding for a case, each enriched with its
// participant list by a second query per proceeding.
func (s *Store) Proceedings(ctx context.Context, caseID int64) ([]Proceeding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proceeding_id, case_id, start_time, end_time, summary, content,
		       date_created, date_updated, status
		FROM proceedings
		WHERE case_id = ?`, caseID)
	if err != nil {
		return nil, fmt.Errorf("fetch proceedings for case %d: %w", caseID, err)
	}
	defer rows.Close()

	proceedings := []Proceeding{}
	for rows.Next() {
		var (
			p                Proceeding
			start, end       sql.NullString
			summary, content sql.NullString
			created, updated sql.NullString
			status           sql.NullString
		)
		err := rows.Scan(&p.ID, &p.CaseID, &start, &end, &summary, &content,
			&created, &updated, &status)
		if err != nil {
			return nil, fmt.Errorf("scan proceeding: %w", err)
		}
		p.StartTime = nullString(start)
		p.EndTime = nullString(end)
		p.Summary = nullString(summary)
		p.Content = nullString(content)
		p.DateCreated = nullString(created)
		p.DateUpdated = nullString(updated)
		p.Status = nullString(status)
		p.Date = dateOf(start)
		proceedings = append(proceedings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range proceedings {
		participants, err := s.proceedingParticipants(ctx, proceedings[i].ID)
		if err != nil {
			return nil, err
		}
		proceedings[i].Participants = participants
	}
	return proceedings, nil
}

func (s *Store) proceedingParticipants(ctx context.Context, proceedingID int64) ([]Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, name, role
		FROM proceeding_participants
		WHERE proceeding_id = ?`, proceedingID)
	if err != nil {
		return nil, fmt.Errorf("fetch participants for proceeding %d: %w", proceedingID, err)
	}
	defer rows.Close()

	participants := []Participant{}
	for rows.Next() {
		var (
			p          Participant
			id         sql.NullString
			name, role sql.NullString
		)
		if err := rows.Scan(&id, &name, &role); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.ID = PersonID(id.String)
		p.Name = name.String
		p.Role = role.String
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// dateOf projects a stored timestamp onto its plain date.
func dateOf(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	t, ok := parseISO(v.String)
	if !ok {
		return nil
	}
	d := t.Format("2006-01-02")
	return &d
}
