package store

import (
	"bytes"
	"encoding/json"
)

// PersonID is the canonical participant reference. Callers send it as either
// a JSON string or a number; it is converted to one opaque string form at
// ingress so it round-trips regardless.
type PersonID string

func (id *PersonID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PersonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = PersonID(n.String())
	return nil
}

func (id PersonID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Participant is a person attached to a proceeding with a role.
type Participant struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`
	Role string   `json:"role"`
}

// CaseInput is the payload for creating a case.
type CaseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// CaseSummary is the public projection of a case row.
type CaseSummary struct {
	Status      string `json:"status"`
	CaseID      int64  `json:"case_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ProceedingInput is the payload for creating or updating a proceeding.
// The proceeding id is caller-supplied, not assigned by the store.
type ProceedingInput struct {
	ID           int64         `json:"id"`
	CaseID       int64         `json:"caseId"`
	StartTime    string        `json:"startTime"`
	EndTime      string        `json:"endTime"`
	Date         string        `json:"date"`
	Summary      string        `json:"summary"`
	Content      string        `json:"content"`
	Participants []Participant `json:"participants"`
	DateCreated  string        `json:"dateCreated"`
	DateUpdated  string        `json:"dateUpdated"`
	Status       string        `json:"status"`
}

// Proceeding is a fetched proceeding enriched with its participant list.
// Timestamp fields are ISO-8601 strings or null; Date is the plain date of
// the start time.
type Proceeding struct {
	ID           int64         `json:"id"`
	CaseID       int64         `json:"caseId"`
	StartTime    *string       `json:"startTime"`
	EndTime      *string       `json:"endTime"`
	Summary      *string       `json:"summary"`
	Content      *string       `json:"content"`
	Participants []Participant `json:"participants"`
	Date         *string       `json:"date"`
	DateCreated  *string       `json:"dateCreated"`
	DateUpdated  *string       `json:"dateUpdated"`
	Status       *string       `json:"status"`
}

// PersonSchedule is one row of a person's schedule listing, with the
// proceeding linkage when one exists.
type PersonSchedule struct {
	ScheduleID   string  `json:"schedule_id"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Description  *string `json:"description"`
	ProceedingID *int64  `json:"proceeding_id"`
	CaseID       *int64  `json:"case_id"`
}

// ScheduleInput is an explicit time block for a legacy-path participant.
type ScheduleInput struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

// LegacyParticipant is the participant shape of AddProceedingWithParticipants,
// where the person is identified up front and the schedule is optional.
type LegacyParticipant struct {
	PersonID PersonID       `json:"person_id"`
	Name     string         `json:"name"`
	Role     string         `json:"role"`
	Schedule *ScheduleInput `json:"schedule,omitempty"`
}
