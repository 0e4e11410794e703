package activities

type ActivityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	AvailableSpots  int      `json:"available_spots"`
}

type ParticipationResponse struct {
	Message string `json:"message"`
}
