package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiflow/domain/entities/trip"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "taxi_test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init())
	return store
}

func sampleTrip(tripID string) *trip.Trip {
	return &trip.Trip{
		TripID:               tripID,
		VendorID:             2,
		PickupDatetime:       "2016-03-14 17:24:55",
		DropoffDatetime:      "2016-03-14 17:34:55",
		PassengerCount:       3,
		PickupLongitude:      -73.99,
		PickupLatitude:       40.75,
		DropoffLongitude:     -73.98,
		DropoffLatitude:      40.76,
		StoreAndFwdFlag:      "N",
		TripDuration:         600,
		DistanceKM:           1.395,
		SpeedKMH:             8.37,
		TimeOfDay:            "afternoon",
		TripDistanceCategory: "short",
		Hour:                 17,
		DayOfWeek:            0,
		Month:                3,
	}
}

func TestStoreTripsIgnoresDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{sampleTrip("id1"), sampleTrip("id2")}))

	// a second run over the same dataset must not error nor duplicate rows
	duplicate := sampleTrip("id1")
	duplicate.ID = 0
	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{duplicate}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalTrips)
}

func TestStatsAggregateTheWholeDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	morning := sampleTrip("id-morning")
	morning.PickupDatetime = "2016-03-14 08:00:00"
	morning.TimeOfDay = "morning"
	morning.Hour = 8
	morning.TripDuration = 300
	morning.DistanceKM = 2.5
	morning.SpeedKMH = 30
	morning.TripDistanceCategory = "medium"

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{sampleTrip("id-afternoon"), morning}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalTrips)
	assert.InDelta(t, 450, stats.AvgDuration, 0.01)
	assert.InDelta(t, 1.95, stats.AvgDistance, 0.01)
	assert.InDelta(t, 19.19, stats.AvgSpeed, 0.02)
	assert.Equal(t, "2016-03-14 08:00:00", stats.EarliestTrip)
	assert.Equal(t, "2016-03-14 17:24:55", stats.LatestTrip)
}

func TestStatsOfAnEmptyDataset(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.TotalTrips)
	assert.Zero(t, stats.AvgDuration)
	assert.Empty(t, stats.EarliestTrip)
}

func TestUniqueVendorsAreSortedAndDeduplicated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleTrip("id1")
	first.VendorID = 2
	second := sampleTrip("id2")
	second.VendorID = 1
	third := sampleTrip("id3")
	third.VendorID = 2

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{first, second, third}))

	vendors, err := store.UniqueVendors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, vendors)
}

func TestFilterTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	afternoon := sampleTrip("id-afternoon")

	morning := sampleTrip("id-morning")
	morning.PickupDatetime = "2016-03-15 08:00:00"
	morning.TimeOfDay = "morning"
	morning.Hour = 8
	morning.VendorID = 1

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{afternoon, morning}))

	t.Run("no filter returns everything most recent first", func(t *testing.T) {
		trips, err := store.FilterTrips(ctx, TripFilter{})
		require.NoError(t, err)
		require.Len(t, trips, 2)
		assert.Equal(t, "id-morning", trips[0].TripID)
	})

	t.Run("time of day filter", func(t *testing.T) {
		trips, err := store.FilterTrips(ctx, TripFilter{TimeOfDay: "morning"})
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, "id-morning", trips[0].TripID)
	})

	t.Run("vendor filter", func(t *testing.T) {
		trips, err := store.FilterTrips(ctx, TripFilter{VendorID: 2})
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, "id-afternoon", trips[0].TripID)
	})

	t.Run("limit", func(t *testing.T) {
		trips, err := store.FilterTrips(ctx, TripFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, trips, 1)
	})
}

func TestSummaryAggregatesTheFilteredPopulation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	afternoon := sampleTrip("id-afternoon")

	morning := sampleTrip("id-morning")
	morning.TimeOfDay = "morning"
	morning.TripDuration = 300
	morning.DistanceKM = 3

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{afternoon, morning}))

	summary, err := store.Summary(ctx, TripFilter{TimeOfDay: "morning"})
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.TotalCount)
	assert.InDelta(t, 300, summary.AvgDuration, 0.01)
	assert.InDelta(t, 3, summary.AvgDistance, 0.01)
}

func TestTimeOfDayBreakdownKeepsCanonicalOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	night := sampleTrip("id-night")
	night.TimeOfDay = "night"
	night.Hour = 23

	morning := sampleTrip("id-morning")
	morning.TimeOfDay = "morning"
	morning.Hour = 8

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{night, sampleTrip("id-afternoon"), morning}))

	buckets, err := store.TimeOfDayBreakdown(ctx, TripFilter{})
	require.NoError(t, err)

	require.Len(t, buckets, 3)
	assert.Equal(t, "morning", buckets[0].TimeOfDay)
	assert.Equal(t, "afternoon", buckets[1].TimeOfDay)
	assert.Equal(t, "night", buckets[2].TimeOfDay)
	assert.EqualValues(t, 1, buckets[0].Count)
}

func TestDistanceBreakdownIgnoresTheDistanceFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	long := sampleTrip("id-long")
	long.TripDistanceCategory = "long"
	long.DistanceKM = 15

	require.NoError(t, store.StoreTrips(ctx, []*trip.Trip{sampleTrip("id-short"), long}))

	buckets, err := store.DistanceBreakdown(ctx, TripFilter{DistanceCategory: "short"})
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, "short", buckets[0].TripDistanceCategory)
	assert.Equal(t, "long", buckets[1].TripDistanceCategory)
}
