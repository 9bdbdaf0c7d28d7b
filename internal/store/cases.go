package store

import (
	"context"
	"fmt"
)

// CreateCase inserts a new case with the next identifier and all person
// references and resolution timestamps null, and returns its public fields.
func (s *Store) CreateCase(ctx context.Context, in CaseInput) (CaseSummary, error) {
	caseID, err := s.nextID(ctx, "cases", "case_id")
	if err != nil {
		return CaseSummary{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cases (
			case_id, title, description, priority, status,
			created_by, assigned_to, resolved_by, closed_by,
			resolved_at, closed_at
		) VALUES (?, ?, ?, ?, ?, NULL, NULL, NULL, NULL, NULL, NULL)`,
		caseID, in.Title, in.Description, in.Priority, in.Status,
	)
	if err != nil {
		return CaseSummary{}, fmt.Errorf("create case: %w", err)
	}

	created := CaseSummary{
		Status:      in.Status,
		CaseID:      caseID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
	}
	s.log.Info().Int64("case_id", caseID).Msg("created case")
	return created, nil
}

// Cases returns all cases projected to their public fields, in store order.
func (s *Store) Cases(ctx context.Context) ([]CaseSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT case_id, title, description, priority, status FROM cases")
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}
	defer rows.Close()

	cases := []CaseSummary{}
	for rows.Next() {
		var c CaseSummary
		if err := rows.Scan(&c.CaseID, &c.Title, &c.Description, &c.Priority, &c.Status); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// DeleteCase removes a case and everything hanging off it. The participant
// and schedule-link deletes subquery proceedings by case, so proceedings must
// still exist when they run; the proceeding rows go second to last and the
// case row last.
func (s *Store) DeleteCase(ctx context.Context, caseID int64) error {
	cascade := []string{
		`DELETE FROM schedules WHERE case_id = ?`,
		`DELETE FROM proceeding_participants WHERE proceeding_id IN (
			SELECT proceeding_id FROM proceedings WHERE case_id = ?)`,
		`DELETE FROM proceeding_schedules WHERE proceeding_id IN (
			SELECT proceeding_id FROM proceedings WHERE case_id = ?)`,
		`DELETE FROM proceedings WHERE case_id = ?`,
		`DELETE FROM cases WHERE case_id = ?`,
	}
	for _, query := range cascade {
		if _, err := s.db.ExecContext(ctx, query, caseID); err != nil {
			return fmt.Errorf("delete case %d: %w", caseID, err)
		}
	}
	s.log.Info().Int64("case_id", caseID).Msg("deleted case")
	return nil
}
