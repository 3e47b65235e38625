package response

import "grooming-waitlist/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	Staff       *queries.StaffView `json:"staff"`
}
