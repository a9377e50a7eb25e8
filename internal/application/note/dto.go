package note

import (
	"time"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	domainNote "github.com/cinezone/cinezone/internal/domain/note"
)

type NoteResponse struct {
	ID        uint                `json:"id"`
	UserID    uint                `json:"userId,omitempty"`
	MovieID   uint                `json:"movieId"`
	Rating    float64             `json:"rating"`
	Comment   *string             `json:"comment"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Movie     *commondto.MovieRef `json:"movie,omitempty"`
}

type UpsertResponse struct {
	Note    *NoteResponse `json:"note"`
	Message string        `json:"message"`
	Created bool          `json:"created"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToNoteResponse(n *domainNote.Note) *NoteResponse {
	return &NoteResponse{
		ID:        n.ID(),
		UserID:    n.UserID(),
		MovieID:   n.MovieID(),
		Rating:    n.Rating(),
		Comment:   n.Comment(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}
