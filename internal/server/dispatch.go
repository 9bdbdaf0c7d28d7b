package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/casewire/casewire/internal/store"
	"github.com/casewire/casewire/pkg/rpc"
)

// caseRef and proceedingRef are the payloads of the read/delete operations.
type caseRef struct {
	CaseID int64 `json:"case_id"`
}

type proceedingRef struct {
	ID int64 `json:"id"`
}

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("invalid query payload: %w", err)
	}
	return v, nil
}

// dispatch routes a query id to its service operation and returns the value
// to push back. Unknown ids are an error result, not a panic.
func (s *Server) dispatch(ctx context.Context, id rpc.QueryID, data json.RawMessage) (any, error) {
	switch id {
	case rpc.QueryCreateCase:
		in, err := decode[store.CaseInput](data)
		if err != nil {
			return nil, err
		}
		return s.store.CreateCase(ctx, in)

	case rpc.QueryFetchCases:
		return s.store.Cases(ctx)

	case rpc.QueryCreateProceeding:
		in, err := decode[store.ProceedingInput](data)
		if err != nil {
			return nil, err
		}
		return s.store.CreateProceeding(ctx, in)

	case rpc.QueryUpdateProceeding:
		in, err := decode[store.ProceedingInput](data)
		if err != nil {
			return nil, err
		}
		return s.store.UpdateProceeding(ctx, in)

	case rpc.QueryCaseProceedingsJSON:
		in, err := decode[caseRef](data)
		if err != nil {
			return nil, err
		}
		return s.store.CaseProceedingsJSON(ctx, in.CaseID)

	case rpc.QueryFetchProceedings:
		in, err := decode[caseRef](data)
		if err != nil {
			return nil, err
		}
		return s.store.Proceedings(ctx, in.CaseID)

	case rpc.QueryDeleteProceeding:
		in, err := decode[proceedingRef](data)
		if err != nil {
			return nil, err
		}
		if err := s.store.DeleteProceeding(ctx, in.ID); err != nil {
			return nil, err
		}
		return in.ID, nil

	case rpc.QueryDeleteCase:
		in, err := decode[caseRef](data)
		if err != nil {
			return nil, err
		}
		if err := s.store.DeleteCase(ctx, in.CaseID); err != nil {
			return nil, err
		}
		return in.CaseID, nil

	default:
		return nil, fmt.Errorf("unknown query id %d", id)
	}
}
