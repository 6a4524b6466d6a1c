package advocate

import (
	"encoding/json"

	"github.com/simp-lee/advocates/internal/domain"
)

// AdvocateResponse is the wire form of a record. Payload carries the stored
// specialties text that search runs over; specialties carries the decoded list.
type AdvocateResponse struct {
	domain.Advocate
	Payload json.RawMessage `json:"payload"`
}

// SeedResponse is the body returned by the seed endpoint.
type SeedResponse struct {
	Advocates []AdvocateResponse `json:"advocates"`
}

func toResponse(a domain.Advocate) AdvocateResponse {
	return AdvocateResponse{
		Advocate: a,
		Payload:  json.RawMessage(a.Specialties.Serialized()),
	}
}

func toResponses(list []domain.Advocate) []AdvocateResponse {
	out := make([]AdvocateResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	return out
}
