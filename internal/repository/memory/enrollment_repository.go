package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

type enrollmentRepository struct {
	s *Store
}

func NewEnrollmentRepository(s *Store) repository.EnrollmentRepository {
	return &enrollmentRepository{s: s}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[enrollment.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	for _, existing := range r.s.enrollments {
		if existing.EventID != enrollment.EventID {
			continue
		}
		if enrollment.ProfileID != nil && existing.ProfileID != nil && *existing.ProfileID == *enrollment.ProfileID {
			return domain.ErrAlreadyJoined
		}
	}
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	if enrollment.JoinedAt.IsZero() {
		enrollment.JoinedAt = time.Now().UTC()
	}
	r.s.enrollments[enrollment.ID] = cloneEnrollment(enrollment)
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	return cloneEnrollment(e), nil
}

func (r *enrollmentRepository) GetByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.enrollments {
		if e.EventID == eventID && e.ProfileID != nil && *e.ProfileID == profileID {
			return cloneEnrollment(e), nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (r *enrollmentRepository) GetByEventAndCode(ctx context.Context, eventID uuid.UUID, code string) (*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.enrollments {
		if e.EventID == eventID && e.TicketCode == code {
			return cloneEnrollment(e), nil
		}
	}
	return nil, domain.ErrEnrollmentNotFound
}

func (r *enrollmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error) {
	return r.list(eventID, func(*domain.Enrollment) bool { return true }), nil
}

func (r *enrollmentRepository) ListMatchable(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error) {
	return r.list(eventID, func(e *domain.Enrollment) bool {
		return e.OptIn && e.ProfileID != nil
	}), nil
}

func (r *enrollmentRepository) list(eventID uuid.UUID, keep func(*domain.Enrollment) bool) []*domain.Enrollment {
	r.s.mu.RLock()
	var out []*domain.Enrollment
	for _, e := range r.s.enrollments {
		if e.EventID == eventID && keep(e) {
			out = append(out, cloneEnrollment(e))
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

func (r *enrollmentRepository) SetOptIn(ctx context.Context, id uuid.UUID, optIn bool) (*domain.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	e.OptIn = optIn
	return cloneEnrollment(e), nil
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	e.Status = status
	return cloneEnrollment(e), nil
}

func (r *enrollmentRepository) Redeem(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.enrollments[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	if e.Status != domain.EntryAccepted {
		return nil, domain.ErrNotAccepted
	}
	if e.CheckedIn {
		return nil, &domain.TicketUsedError{CheckedInAt: *e.CheckedInAt}
	}
	redeemedAt := at
	e.CheckedIn = true
	e.CheckedInAt = &redeemedAt
	return cloneEnrollment(e), nil
}
