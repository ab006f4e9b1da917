package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
	"stayfinder/internal/infra/storage/memory"
)

func seedProperty(t *testing.T, repo *memory.PropertyRepository, id string, rate int64, featured bool) {
	t.Helper()
	p, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:               domainproperties.PropertyID(id),
		Title:            "Listing " + id,
		Location:         "Elysian, MN",
		NightlyRateCents: rate,
		MaxGuests:        4,
		Featured:         featured,
		Host:             domainproperties.Host{ID: "host-" + id},
		Now:              time.Now(),
	})
	require.NoError(t, err)
	p.ClearEvents()
	require.NoError(t, repo.Save(context.Background(), p))
}

func TestPropertyRepositoryByID(t *testing.T) {
	repo := memory.NewPropertyRepository()
	seedProperty(t, repo, "1", 10000, false)

	p, err := repo.ByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, domainproperties.PropertyID("1"), p.ID)

	_, err = repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}

func TestPropertyRepositoryDelete(t *testing.T) {
	repo := memory.NewPropertyRepository()
	seedProperty(t, repo, "1", 10000, false)

	require.NoError(t, repo.Delete(context.Background(), "1"))
	_, err := repo.ByID(context.Background(), "1")
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), "1"), domainproperties.ErrNotFound)
}

func TestPropertyRepositorySearchOrdering(t *testing.T) {
	repo := memory.NewPropertyRepository()
	seedProperty(t, repo, "cheap", 5000, false)
	seedProperty(t, repo, "pricey-featured", 90000, true)
	seedProperty(t, repo, "cheap-featured", 30000, true)

	result, err := repo.Search(context.Background(), domainproperties.SearchParams{}.Normalized())
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, domainproperties.PropertyID("cheap-featured"), result.Items[0].ID)
	assert.Equal(t, domainproperties.PropertyID("pricey-featured"), result.Items[1].ID)
	assert.Equal(t, domainproperties.PropertyID("cheap"), result.Items[2].ID)
}

func TestPropertyRepositorySearchPaging(t *testing.T) {
	repo := memory.NewPropertyRepository()
	for _, id := range []string{"1", "2", "3", "4"} {
		seedProperty(t, repo, id, 10000, false)
	}

	page, err := repo.Search(context.Background(), domainproperties.SearchParams{Limit: 2, Offset: 2}.Normalized())
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Total)

	past, err := repo.Search(context.Background(), domainproperties.SearchParams{Limit: 2, Offset: 10}.Normalized())
	require.NoError(t, err)
	assert.Empty(t, past.Items)
	assert.Equal(t, 4, past.Total)
}

func TestAvailabilityRepositoryLazyMap(t *testing.T) {
	repo := memory.NewAvailabilityRepository()

	m, err := repo.ForProperty(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "prop-1", m.PropertyID)
	assert.Empty(t, m.BookableDates())

	m.SetBookable(calendar.New(2023, time.April, 25), true)
	require.NoError(t, repo.Save(context.Background(), m))

	again, err := repo.ForProperty(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.True(t, again.IsBookable(calendar.New(2023, time.April, 25)))
}

func TestAvailabilityRepositoryCopiesOnRead(t *testing.T) {
	repo := memory.NewAvailabilityRepository()
	ctx := context.Background()
	d := calendar.New(2023, time.April, 25)

	m, err := repo.ForProperty(ctx, "prop-1")
	require.NoError(t, err)
	m.SetBookable(d, true)

	other, err := repo.ForProperty(ctx, "prop-1")
	require.NoError(t, err)
	assert.False(t, other.IsBookable(d), "unsaved changes stay private to the caller")

	require.NoError(t, repo.Save(ctx, m))
	m.SetBookable(d, false)

	stored, err := repo.ForProperty(ctx, "prop-1")
	require.NoError(t, err)
	assert.True(t, stored.IsBookable(d), "the store keeps its own copy after save")
}

func TestAvailabilityRepositoryConcurrentReadsAndWrites(t *testing.T) {
	repo := memory.NewAvailabilityRepository()
	ctx := context.Background()
	start := calendar.New(2023, time.April, 25)

	seed, err := repo.ForProperty(ctx, "prop-1")
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		seed.SetBookable(start.AddDays(i), true)
	}
	require.NoError(t, repo.Save(ctx, seed))

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m, err := repo.ForProperty(ctx, "prop-1")
				if !assert.NoError(t, err) {
					return
				}
				m.BookableRun(start, start.AddDays(30))
			}
		}()
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m, err := repo.ForProperty(ctx, "prop-1")
				if !assert.NoError(t, err) {
					return
				}
				m.SetBookable(start.AddDays(g), i%2 == 0)
				if !assert.NoError(t, repo.Save(ctx, m)) {
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func storedBooking(t *testing.T, id, guestID string, createdAt time.Time) *domainbooking.Booking {
	t.Helper()
	checkIn := calendar.New(2023, time.April, 25)
	stay, err := daterange.New(checkIn, checkIn.AddDays(2))
	require.NoError(t, err)
	intent := &domainbooking.BookingIntent{
		PropertyID: "prop-1",
		Range:      stay,
		Guests:     2,
		Contact:    domainbooking.Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555"},
		Quote:      domainbooking.Quote{Nights: 2, Nightly: money.Must(10000, "USD"), Fees: money.Must(0, "USD"), Total: money.Must(20000, "USD")},
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(id),
		GuestID:        guestID,
		Intent:         intent,
		PaymentReceipt: "rcpt_" + id,
		Now:            createdAt,
	})
	require.NoError(t, err)
	b.ClearEvents()
	return b
}

func TestBookingRepositoryListByGuest(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	base := time.Date(2023, time.April, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, storedBooking(t, "b1", "guest-1", base)))
	require.NoError(t, repo.Save(ctx, storedBooking(t, "b2", "guest-1", base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, storedBooking(t, "b3", "guest-2", base)))

	list, err := repo.ListByGuest(ctx, "guest-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domainbooking.BookingID("b2"), list[0].ID, "newest first")
	assert.Equal(t, domainbooking.BookingID("b1"), list[1].ID)

	_, err = repo.ListByGuest(ctx, "  ")
	assert.ErrorIs(t, err, domainbooking.ErrGuestRequired)
}

func TestBookingRepositoryList(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	base := time.Date(2023, time.April, 20, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, repo.Save(ctx, storedBooking(t, id, "guest-1", base.Add(time.Duration(i)*time.Hour))))
	}

	all, total, err := repo.List(ctx, domainbooking.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, domainbooking.BookingID("b3"), all[0].ID)

	page, total, err := repo.List(ctx, domainbooking.ListParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, domainbooking.BookingID("b2"), page[0].ID)
}

func TestBookingRepositorySaveBumpsVersion(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()

	b := storedBooking(t, "b1", "guest-1", time.Now())
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, int64(1), b.Version)
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, int64(2), b.Version)
}
