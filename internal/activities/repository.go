package activities

import (
	"fmt"
	"sync"
)

type Repository interface {
	List() []Activity
	GetByName(name string) (*Activity, error)
	AddParticipant(name, email string) error
	RemoveParticipant(name, email string) error
}

// entry guards one activity's roster
type entry struct {
	mu       sync.Mutex
	activity Activity
}

// repository is the in-memory activity registry. The name index is built once
// and never written again, so only the per-activity locks are needed.
type repository struct {
	entries         map[string]*entry
	order           []string
	enforceCapacity bool
}

// NewRepository builds a registry from seed data. Seeds are copied, so later
// changes to the slice do not leak into the registry.
func NewRepository(seed []Activity, enforceCapacity bool) (Repository, error) {
	r := &repository{
		entries:         make(map[string]*entry, len(seed)),
		order:           make([]string, 0, len(seed)),
		enforceCapacity: enforceCapacity,
	}

	for i := range seed {
		activity := seed[i].clone()
		if err := validateSeed(&activity); err != nil {
			return nil, err
		}
		if _, exists := r.entries[activity.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate activity %q", ErrInvalidSeed, activity.Name)
		}

		r.entries[activity.Name] = &entry{activity: activity}
		r.order = append(r.order, activity.Name)
	}

	return r, nil
}

func validateSeed(a *Activity) error {
	if a.Name == "" {
		return fmt.Errorf("%w: activity name is empty", ErrInvalidSeed)
	}
	if a.MaxParticipants <= 0 {
		return fmt.Errorf("%w: %q has non-positive max_participants", ErrInvalidSeed, a.Name)
	}

	seen := make(map[string]struct{}, len(a.Participants))
	for _, email := range a.Participants {
		if _, dup := seen[email]; dup {
			return fmt.Errorf("%w: %q lists %s twice", ErrInvalidSeed, a.Name, email)
		}
		seen[email] = struct{}{}
	}
	return nil
}

// List returns a snapshot of every activity in seed order
func (r *repository) List() []Activity {
	result := make([]Activity, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		e.mu.Lock()
		result = append(result, e.activity.clone())
		e.mu.Unlock()
	}
	return result
}

func (r *repository) GetByName(name string) (*Activity, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, ErrActivityNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	activity := e.activity.clone()
	return &activity, nil
}

func (r *repository) AddParticipant(name, email string) error {
	e, ok := r.entries[name]
	if !ok {
		return ErrActivityNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activity.indexOf(email) >= 0 {
		return ErrAlreadySignedUp
	}
	if r.enforceCapacity && e.activity.isFull() {
		return ErrActivityFull
	}

	e.activity.Participants = append(e.activity.Participants, email)
	return nil
}

func (r *repository) RemoveParticipant(name, email string) error {
	e, ok := r.entries[name]
	if !ok {
		return ErrActivityNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.activity.indexOf(email)
	if i < 0 {
		return ErrNotRegistered
	}

	// Shift left to keep signup order for the rest of the roster
	e.activity.Participants = append(e.activity.Participants[:i], e.activity.Participants[i+1:]...)
	return nil
}
