package activities

// ParticipationRequest carries the query parameters of signup and unregister.
// Email is a pointer so that an absent parameter fails validation while
// an empty one is kept as an opaque value.
type ParticipationRequest struct {
	Email *string `form:"email" validate:"required"`
}
