package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// caseProceedingView is one element of the nested read model: a proceeding
// with its participants, each carrying their linked schedules.
type caseProceedingView struct {
	ProceedingID int64   `json:"proceeding_id"`
	Summary      *string `json:"summary"`
	Timestamp    *string `json:"timestamp"`
	Participants any     `json:"participants"`
}

// CaseProceedingsJSON builds the nested proceedings read model for a case as
// an indented JSON string, using a single aggregate query with sub-selects.
// Only proceedings whose participants exist in the persons table appear, so
// in practice this covers the AddProceedingWithParticipants path.
func (s *Store) CaseProceedingsJSON(ctx context.Context, caseID int64) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			p.proceeding_id,
			p.summary,
			p.date_created,
			json_group_array(
				json_object(
					'person_id', pp.person_id,
					'name', persons.name,
					'role', pp.role,
					'schedules', json((
						SELECT json_group_array(
							json_object(
								'schedule_id', s.schedule_id,
								'start_time', s.start_time,
								'end_time', s.end_time,
								'description', s.description
							)
						)
						FROM proceeding_schedules ps
						JOIN schedules s ON ps.schedule_id = s.schedule_id
						WHERE ps.proceeding_id = p.proceeding_id
						  AND s.person_id = pp.person_id
					))
				)
			) AS participants_json
		FROM proceedings p
		JOIN proceeding_participants pp ON p.proceeding_id = pp.proceeding_id
		JOIN persons ON pp.person_id = persons.person_id
		WHERE p.case_id = ?
		GROUP BY p.proceeding_id, p.summary, p.date_created
		ORDER BY p.proceeding_id`, caseID)
	if err != nil {
		return "", fmt.Errorf("case proceedings for case %d: %w", caseID, err)
	}
	defer rows.Close()

	result := []caseProceedingView{}
	for rows.Next() {
		var (
			view             caseProceedingView
			summary, created sql.NullString
			participantsJSON sql.NullString
		)
		if err := rows.Scan(&view.ProceedingID, &summary, &created, &participantsJSON); err != nil {
			return "", fmt.Errorf("scan case proceeding: %w", err)
		}
		view.Summary = nullString(summary)
		view.Timestamp = nullString(created)

		participants := []any{}
		if participantsJSON.Valid {
			if err := json.Unmarshal([]byte(participantsJSON.String), &participants); err != nil {
				return "", fmt.Errorf("decode participants for proceeding %d: %w", view.ProceedingID, err)
			}
		}
		view.Participants = participants
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode case proceedings: %w", err)
	}
	return string(out), nil
}
