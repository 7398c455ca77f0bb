package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"rent_flow_app_go/models"

	"gorm.io/gorm"
)

// ErrInvalidRange is returned when a caller supplies a candidate range whose
// start falls after its end. This is a caller contract violation, signaled
// distinctly from a backend fetch failure.
var ErrInvalidRange = errors.New("start date must not be after end date")

// DefaultAvailabilityTimeout bounds each store query. A timed-out fetch is
// treated exactly like a failed one.
const DefaultAvailabilityTimeout = 5 * time.Second

// ConflictKind discriminates why a range is unavailable, so callers can tell
// "pick different dates" apart from "we couldn't verify".
type ConflictKind string

const (
	ConflictBlockedDate  ConflictKind = "blocked_date"
	ConflictReservation  ConflictKind = "reservation_conflict"
	ConflictVerification ConflictKind = "verification_error"
)

// Conflict is a structured reason why a candidate range is unavailable
type Conflict struct {
	Kind          ConflictKind `json:"kind"`
	Date          *time.Time   `json:"date,omitempty"`       // Set for blocked_date
	StartDate     *time.Time   `json:"start_date,omitempty"` // Set for reservation_conflict
	EndDate       *time.Time   `json:"end_date,omitempty"`
	ReservationID string       `json:"reservation_id,omitempty"`
	Message       string       `json:"message"`
}

// RangeCheck is the result of an availability query for a candidate range
type RangeCheck struct {
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

// AvailabilityStore abstracts the two read queries the resolver depends on,
// keeping the resolver free of any storage technology.
type AvailabilityStore interface {
	ListBlockedDates(ctx context.Context, vehicleID string) ([]models.BlockedDate, error)
	ListBlockingReservations(ctx context.Context, vehicleID, excludeReservationID string) ([]models.Reservation, error)
}

// GormAvailabilityStore implements AvailabilityStore against the database
type GormAvailabilityStore struct {
	DB *gorm.DB
}

// ListBlockedDates fetches all blocked-day records for a vehicle
func (s *GormAvailabilityStore) ListBlockedDates(ctx context.Context, vehicleID string) ([]models.BlockedDate, error) {
	var blocked []models.BlockedDate
	err := s.DB.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date asc").
		Find(&blocked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}
	return blocked, nil
}

// ListBlockingReservations fetches all reservations for a vehicle whose status
// occupies the calendar, optionally excluding one reservation by id
func (s *GormAvailabilityStore) ListBlockingReservations(ctx context.Context, vehicleID, excludeReservationID string) ([]models.Reservation, error) {
	query := s.DB.WithContext(ctx).
		Where("vehicle_id = ? AND status IN (?)", vehicleID, models.BlockingStatuses)

	if excludeReservationID != "" {
		query = query.Where("id != ?", excludeReservationID)
	}

	var reservations []models.Reservation
	if err := query.Order("start_date asc").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list blocking reservations: %w", err)
	}
	return reservations, nil
}

// AvailabilityResolver answers whether a candidate date range is bookable for
// a vehicle and enumerates its unavailable days for calendar rendering. It is
// stateless; every call re-reads the store.
type AvailabilityResolver struct {
	store   AvailabilityStore
	timeout time.Duration
}

// NewAvailabilityResolver creates a resolver with the default query timeout
func NewAvailabilityResolver(store AvailabilityStore) *AvailabilityResolver {
	return &AvailabilityResolver{store: store, timeout: DefaultAvailabilityTimeout}
}

// NewAvailabilityResolverWithTimeout creates a resolver with a custom query timeout
func NewAvailabilityResolverWithTimeout(store AvailabilityStore, timeout time.Duration) *AvailabilityResolver {
	return &AvailabilityResolver{store: store, timeout: timeout}
}

// CheckRange determines whether [start, end] is free for the vehicle.
//
// excludeReservationID lets a reservation edit skip its own interval, so a
// reschedule never conflicts with itself.
//
// Conflicts from both passes are collected in full rather than
// short-circuited, so callers can surface every reason at once. A store
// failure fails closed: the range is reported unavailable with a single
// verification_error conflict and a nil error - an availability check that
// cannot complete must never read as "available".
func (r *AvailabilityResolver) CheckRange(ctx context.Context, vehicleID string, start, end time.Time, excludeReservationID string) (*RangeCheck, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	candStart := NormalizeDay(start)
	candEnd := NormalizeDay(end)
	candidateDays := DatesInRange(candStart, candEnd)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	blocked, err := r.store.ListBlockedDates(ctx, vehicleID)
	if err != nil {
		return failClosed(vehicleID, err), nil
	}

	reservations, err := r.store.ListBlockingReservations(ctx, vehicleID, excludeReservationID)
	if err != nil {
		return failClosed(vehicleID, err), nil
	}

	var conflicts []Conflict

	// Pass 1: blocked days by exact calendar-day membership
	blockedSet := make(map[time.Time]bool, len(blocked))
	for _, b := range blocked {
		blockedSet[b.Day()] = true
	}
	for _, day := range candidateDays {
		if blockedSet[day] {
			d := day
			conflicts = append(conflicts, Conflict{
				Kind:    ConflictBlockedDate,
				Date:    &d,
				Message: fmt.Sprintf("date %s is blocked by the owner", d.Format("2006-01-02")),
			})
		}
	}

	// Pass 2: closed-interval overlap against each blocking reservation
	for _, res := range reservations {
		resStart := NormalizeDay(res.StartDate)
		resEnd := NormalizeDay(res.EndDate)
		if !candStart.After(resEnd) && !candEnd.Before(resStart) {
			rs, re := resStart, resEnd
			conflicts = append(conflicts, Conflict{
				Kind:          ConflictReservation,
				StartDate:     &rs,
				EndDate:       &re,
				ReservationID: res.ID,
				Message: fmt.Sprintf("conflicts with an existing reservation from %s to %s",
					rs.Format("2006-01-02"), re.Format("2006-01-02")),
			})
		}
	}

	return &RangeCheck{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// UnavailableDates returns every individual calendar day currently
// unavailable for a vehicle, deduplicated and ascending, for driving disabled
// dates in a date picker. A store failure yields an empty slice: showing no
// pre-emptively disabled dates is an acceptable degraded view, unlike
// reporting a range bookable when it is not.
func (r *AvailabilityResolver) UnavailableDates(ctx context.Context, vehicleID string) []time.Time {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	blocked, err := r.store.ListBlockedDates(ctx, vehicleID)
	if err != nil {
		log.Printf("[WARNING] Failed to load blocked dates for vehicle %s: %v", vehicleID, err)
		return []time.Time{}
	}

	reservations, err := r.store.ListBlockingReservations(ctx, vehicleID, "")
	if err != nil {
		log.Printf("[WARNING] Failed to load reservations for vehicle %s: %v", vehicleID, err)
		return []time.Time{}
	}

	daySet := make(map[time.Time]bool)
	for _, b := range blocked {
		daySet[b.Day()] = true
	}
	for _, res := range reservations {
		for _, day := range DatesInRange(res.StartDate, res.EndDate) {
			daySet[day] = true
		}
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return days
}

// failClosed converts a fetch failure into an unavailable result
func failClosed(vehicleID string, err error) *RangeCheck {
	log.Printf("[WARNING] Availability check failed for vehicle %s: %v", vehicleID, err)
	return &RangeCheck{
		Available: false,
		Conflicts: []Conflict{{
			Kind:    ConflictVerification,
			Message: "could not verify availability, please try again",
		}},
	}
}
