package response

import (
	"grooming-waitlist/internal/usecase/commands"

	"github.com/google/uuid"
)

type OpenSlotResponse struct {
	*commands.OpenSlotResult
	Replayed bool `json:"replayed"`
}

func FromOpenSlotResult(r *commands.OpenSlotResult) *OpenSlotResponse {
	return &OpenSlotResponse{OpenSlotResult: r, Replayed: r.IsReplayed}
}

type CancelAppointmentResponse struct {
	AppointmentID uuid.UUID                `json:"appointment_id"`
	Status        string                   `json:"status"`
	Reoffer       *commands.OpenSlotResult `json:"reoffer,omitempty"`
}

func FromCancelAppointmentResult(r *commands.CancelAppointmentResult) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		AppointmentID: r.AppointmentID,
		Status:        "cancelled",
		Reoffer:       r.Reoffer,
	}
}
