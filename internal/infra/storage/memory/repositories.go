package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
)

// PropertyRepository is an in-memory implementation backing the demo/default
// storage mode.
type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperties.PropertyID]*domainproperties.Property
}

// NewPropertyRepository builds an empty repository.
func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{
		items: make(map[domainproperties.PropertyID]*domainproperties.Property),
	}
}

// ByID returns a property or properties.ErrNotFound.
func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	property, ok := r.items[id]
	if !ok {
		return nil, domainproperties.ErrNotFound
	}
	return property, nil
}

// Save stores/updates a property entry.
func (r *PropertyRepository) Save(ctx context.Context, property *domainproperties.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[property.ID] = property
	return nil
}

// Delete removes a property. Unknown ids surface ErrNotFound.
func (r *PropertyRepository) Delete(ctx context.Context, id domainproperties.PropertyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainproperties.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Search returns properties satisfying the non-availability filters, featured
// listings first, then cheapest first.
func (r *PropertyRepository) Search(ctx context.Context, params domainproperties.SearchParams) (domainproperties.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainproperties.Property, 0, len(r.items))
	for _, property := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return domainproperties.SearchResult{}, ctx.Err()
			default:
			}
		}
		if !opts.Matches(property) {
			continue
		}
		matches = append(matches, property)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Featured != matches[j].Featured {
			return matches[i].Featured
		}
		if matches[i].NightlyRateCents != matches[j].NightlyRateCents {
			return matches[i].NightlyRateCents < matches[j].NightlyRateCents
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	return domainproperties.SearchResult{
		Items: matches[start:end],
		Total: total,
	}, nil
}

// AvailabilityRepository keeps availability calendars in memory.
type AvailabilityRepository struct {
	mu        sync.RWMutex
	calendars map[string]*domainavailability.Map
}

// NewAvailabilityRepository returns a repository initialized with empty calendars.
func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{
		calendars: make(map[string]*domainavailability.Map),
	}
}

// ForProperty retrieves a private copy of the availability map, lazily
// creating an empty one. An empty map marks every date unbookable until the
// owner opens dates. Changes to the copy only land through Save, so
// concurrent readers never share state with a writer.
func (r *AvailabilityRepository) ForProperty(ctx context.Context, propertyID string) (*domainavailability.Map, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.calendars[propertyID]
	if !ok {
		m = domainavailability.NewMap(propertyID)
		r.calendars[propertyID] = m
	}
	return m.Snapshot(), nil
}

// Save replaces the stored calendar with a copy of the given map.
func (r *AvailabilityRepository) Save(ctx context.Context, m *domainavailability.Map) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendars[m.PropertyID] = m.Snapshot()
	return nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return booking, nil
}

// Save stores the current booking state.
func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.Version++
	r.items[booking.ID] = booking
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(guestID)
	if id == "" {
		return nil, domainbooking.ErrGuestRequired
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, booking := range r.items {
		if booking.GuestID == id {
			matches = append(matches, booking)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domainbooking.Booking, 0, len(r.items))
	for _, booking := range r.items {
		all = append(all, booking)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	start := params.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	limit := params.Limit
	if limit <= 0 {
		limit = total - start
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
var _ domainavailability.Repository = (*AvailabilityRepository)(nil)
var _ domainbooking.Repository = (*BookingRepository)(nil)
