package activities

// Activity is an extracurricular offering and its roster
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// clone returns a copy that shares no memory with the receiver
func (a *Activity) clone() Activity {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)

	return Activity{
		Name:            a.Name,
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

func (a *Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

func (a *Activity) isFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// ToResponse converts an Activity to its wire form
func (a *Activity) ToResponse() ActivityResponse {
	availableSpots := a.MaxParticipants - len(a.Participants)
	if availableSpots < 0 {
		availableSpots = 0
	}

	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}

	return ActivityResponse{
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
		AvailableSpots:  availableSpots,
	}
}
