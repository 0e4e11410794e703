package activities

import (
	"context"
	"errors"
	"fmt"

	"mergington/internal/notifications"
	"mergington/internal/shared/metrics"
	"mergington/pkg/logger"
)

const (
	operationSignup     = "signup"
	operationUnregister = "unregister"
)

type Service interface {
	ListActivities(ctx context.Context) map[string]ActivityResponse
	GetActivity(ctx context.Context, name string) (*ActivityResponse, error)
	Signup(ctx context.Context, name, email string) (*ParticipationResponse, error)
	Unregister(ctx context.Context, name, email string) (*ParticipationResponse, error)
}

type service struct {
	repo      Repository
	publisher notifications.Publisher
	log       *logger.Logger
}

func NewService(repo Repository, publisher notifications.Publisher, log *logger.Logger) Service {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	if log == nil {
		log = logger.GetDefault()
	}

	return &service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

func (s *service) ListActivities(ctx context.Context) map[string]ActivityResponse {
	list := s.repo.List()

	result := make(map[string]ActivityResponse, len(list))
	for i := range list {
		result[list[i].Name] = list[i].ToResponse()
	}
	return result
}

func (s *service) GetActivity(ctx context.Context, name string) (*ActivityResponse, error) {
	activity, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}

	response := activity.ToResponse()
	return &response, nil
}

func (s *service) Signup(ctx context.Context, name, email string) (*ParticipationResponse, error) {
	if err := s.repo.AddParticipant(name, email); err != nil {
		s.reject(ctx, operationSignup, name, email, err)
		return nil, err
	}

	metrics.ActivitySignups.WithLabelValues(name).Inc()
	s.log.LogSignup(ctx, name, email)
	s.publish(ctx, notifications.NewParticipationEvent(notifications.ParticipationEventSignedUp, name, email))

	return &ParticipationResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	}, nil
}

func (s *service) Unregister(ctx context.Context, name, email string) (*ParticipationResponse, error) {
	if err := s.repo.RemoveParticipant(name, email); err != nil {
		s.reject(ctx, operationUnregister, name, email, err)
		return nil, err
	}

	metrics.ActivityUnregistrations.WithLabelValues(name).Inc()
	s.log.LogUnregister(ctx, name, email)
	s.publish(ctx, notifications.NewParticipationEvent(notifications.ParticipationEventUnregistered, name, email))

	return &ParticipationResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	}, nil
}

func (s *service) reject(ctx context.Context, operation, name, email string, err error) {
	metrics.ParticipationRejected.WithLabelValues(operation, rejectionReason(err)).Inc()
	s.log.LogParticipationRejected(ctx, operation, name, email, err)
}

// publish never fails the caller: the roster change has already happened
func (s *service) publish(ctx context.Context, event *notifications.ParticipationEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.ParticipationEventsFailed.Inc()
		s.log.LogPublishFailure(ctx, string(event.Type), event.Activity, err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, ErrAlreadySignedUp):
		return "already_signed_up"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrActivityFull):
		return "activity_full"
	default:
		return "unknown"
	}
}
