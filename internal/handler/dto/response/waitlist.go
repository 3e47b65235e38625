package response

import (
	"grooming-waitlist/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type EntryListResponse struct {
	Items      []*queries.WaitlistEntryView `json:"items"`
	NextCursor string                       `json:"next_cursor,omitempty"`
}

type CandidateListResponse struct {
	Items []*queries.CandidateView `json:"items"`
	Count int                      `json:"count"`
}

func FromCandidates(items []*queries.CandidateView) *CandidateListResponse {
	return &CandidateListResponse{Items: items, Count: len(items)}
}
