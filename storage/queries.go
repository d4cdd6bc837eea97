package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"gorm.io/gorm"

	"taxiflow/domain/entities/trip"
)

const (
	timeOfDayChartOrder = "CASE time_of_day WHEN 'morning' THEN 1 WHEN 'afternoon' THEN 2 WHEN 'evening' THEN 3 WHEN 'night' THEN 4 END"
	distanceChartOrder  = "CASE trip_distance_category WHEN 'short' THEN 1 WHEN 'medium' THEN 2 WHEN 'long' THEN 3 END"
)

// TripFilter narrows dashboard queries. Zero values mean no filtering on
// that dimension
// + TimeOfDay: morning, afternoon, evening or night
// + VendorID: taxi company ID
// + DistanceCategory: short, medium or long
// + Limit: maximum amount of rows returned
type TripFilter struct {
	TimeOfDay        string
	VendorID         int
	DistanceCategory string
	Limit            int
}

func (f TripFilter) apply(tx *gorm.DB) *gorm.DB {
	if f.TimeOfDay != "" {
		tx = tx.Where("time_of_day = ?", f.TimeOfDay)
	}
	if f.VendorID != 0 {
		tx = tx.Where("vendor_id = ?", f.VendorID)
	}
	if f.DistanceCategory != "" {
		tx = tx.Where("trip_distance_category = ?", f.DistanceCategory)
	}
	return tx
}

// TripStats dataset-level statistics shown when the dashboard loads
type TripStats struct {
	TotalTrips   int64   `json:"total_trips"`
	AvgDuration  float64 `json:"avg_duration"`
	AvgDistance  float64 `json:"avg_distance"`
	AvgSpeed     float64 `json:"avg_speed"`
	EarliestTrip string  `json:"earliest_trip"`
	LatestTrip   string  `json:"latest_trip"`
}

// FilterSummary aggregates over the whole filtered population, regardless of
// the row limit applied to the trip listing
type FilterSummary struct {
	TotalCount  int64   `json:"total_count"`
	AvgDuration float64 `json:"avg_duration"`
	AvgDistance float64 `json:"avg_distance"`
}

// TimeOfDayBucket one slice of the time-of-day chart
type TimeOfDayBucket struct {
	TimeOfDay   string  `json:"time_of_day"`
	Count       int64   `json:"count"`
	AvgDuration float64 `json:"avg_duration"`
	AvgDistance float64 `json:"avg_distance"`
}

// DistanceBucket one bar of the distance-category chart
type DistanceBucket struct {
	TripDistanceCategory string  `json:"trip_distance_category"`
	Count                int64   `json:"count"`
	AvgSpeed             float64 `json:"avg_speed"`
}

// FilterTrips returns the most recent trips matching the filter, ordered by
// pickup time descending
func (s *Store) FilterTrips(ctx context.Context, filter TripFilter) ([]trip.Trip, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}

	var trips []trip.Trip
	err := filter.apply(s.db.WithContext(ctx).Model(&trip.Trip{})).
		Order("pickup_datetime DESC").
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("error filtering trips: %w", err)
	}
	return trips, nil
}

// Summary returns count and averages over everything matching the filter
func (s *Store) Summary(ctx context.Context, filter TripFilter) (FilterSummary, error) {
	var row struct {
		TotalCount  int64
		AvgDuration sql.NullFloat64
		AvgDistance sql.NullFloat64
	}

	err := filter.apply(s.db.WithContext(ctx).Model(&trip.Trip{})).
		Select("COUNT(*) as total_count, AVG(trip_duration) as avg_duration, AVG(distance_km) as avg_distance").
		Scan(&row).Error
	if err != nil {
		return FilterSummary{}, fmt.Errorf("error summarizing trips: %w", err)
	}

	return FilterSummary{
		TotalCount:  row.TotalCount,
		AvgDuration: roundTo(row.AvgDuration.Float64, 2),
		AvgDistance: roundTo(row.AvgDistance.Float64, 2),
	}, nil
}

// UniqueVendors returns every vendor present in the dataset, ascending
func (s *Store) UniqueVendors(ctx context.Context) ([]int, error) {
	var vendors []int
	err := s.db.WithContext(ctx).Model(&trip.Trip{}).
		Distinct().
		Order("vendor_id").
		Pluck("vendor_id", &vendors).Error
	if err != nil {
		return nil, fmt.Errorf("error getting unique vendors: %w", err)
	}
	return vendors, nil
}

// Stats returns dataset-level statistics over all stored trips
func (s *Store) Stats(ctx context.Context) (TripStats, error) {
	var row struct {
		TotalTrips   int64
		AvgDuration  sql.NullFloat64
		AvgDistance  sql.NullFloat64
		AvgSpeed     sql.NullFloat64
		EarliestTrip sql.NullString
		LatestTrip   sql.NullString
	}

	err := s.db.WithContext(ctx).Model(&trip.Trip{}).
		Select("COUNT(*) as total_trips, AVG(trip_duration) as avg_duration, AVG(distance_km) as avg_distance, " +
			"AVG(speed_kmh) as avg_speed, MIN(pickup_datetime) as earliest_trip, MAX(pickup_datetime) as latest_trip").
		Scan(&row).Error
	if err != nil {
		return TripStats{}, fmt.Errorf("error getting trip stats: %w", err)
	}

	return TripStats{
		TotalTrips:   row.TotalTrips,
		AvgDuration:  roundTo(row.AvgDuration.Float64, 2),
		AvgDistance:  roundTo(row.AvgDistance.Float64, 2),
		AvgSpeed:     roundTo(row.AvgSpeed.Float64, 2),
		EarliestTrip: row.EarliestTrip.String,
		LatestTrip:   row.LatestTrip.String,
	}, nil
}

// TimeOfDayBreakdown groups the dataset by time of day in canonical order
// (morning first, night last). Only the vendor and distance filters apply,
// filtering by time of day would collapse the chart to one slice
func (s *Store) TimeOfDayBreakdown(ctx context.Context, filter TripFilter) ([]TimeOfDayBucket, error) {
	chartFilter := TripFilter{VendorID: filter.VendorID, DistanceCategory: filter.DistanceCategory}

	var buckets []TimeOfDayBucket
	err := chartFilter.apply(s.db.WithContext(ctx).Model(&trip.Trip{})).
		Select("time_of_day, COUNT(*) as count, AVG(trip_duration) as avg_duration, AVG(distance_km) as avg_distance").
		Group("time_of_day").
		Order(timeOfDayChartOrder).
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("error getting time of day breakdown: %w", err)
	}

	for idx := range buckets {
		buckets[idx].AvgDuration = roundTo(buckets[idx].AvgDuration, 2)
		buckets[idx].AvgDistance = roundTo(buckets[idx].AvgDistance, 2)
	}
	return buckets, nil
}

// DistanceBreakdown groups the dataset by distance category in canonical
// order (short, medium, long). The distance filter itself does not apply
func (s *Store) DistanceBreakdown(ctx context.Context, filter TripFilter) ([]DistanceBucket, error) {
	chartFilter := TripFilter{TimeOfDay: filter.TimeOfDay, VendorID: filter.VendorID}

	var buckets []DistanceBucket
	err := chartFilter.apply(s.db.WithContext(ctx).Model(&trip.Trip{})).
		Select("trip_distance_category, COUNT(*) as count, AVG(speed_kmh) as avg_speed").
		Group("trip_distance_category").
		Order(distanceChartOrder).
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("error getting distance breakdown: %w", err)
	}

	for idx := range buckets {
		buckets[idx].AvgSpeed = roundTo(buckets[idx].AvgSpeed, 2)
	}
	return buckets, nil
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
