package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiflow/domain/business/outliers"
	"taxiflow/domain/entities/trip"
)

func newTestPipeline(pipelineConfig Config) *Pipeline {
	estimator := outliers.NewEstimator(outliers.EstimatorConfig{
		SampleCeiling:      50000,
		DefaultMinDuration: 30,
		DefaultMaxDuration: 7200,
	})
	return NewPipeline(pipelineConfig, estimator)
}

func rawTrip(id string) trip.RawRecord {
	return trip.RawRecord{
		"id":                id,
		"vendor_id":         "1",
		"pickup_datetime":   "2016-03-14 17:24:55",
		"dropoff_datetime":  "2016-03-14 17:34:55",
		"passenger_count":   "2",
		"pickup_latitude":   "40.75",
		"pickup_longitude":  "-73.99",
		"dropoff_latitude":  "40.76",
		"dropoff_longitude": "-73.98",
		"trip_duration":     "600",
	}
}

func TestRunSeparatesAcceptedAndRejectedRecords(t *testing.T) {
	missingVendor := rawTrip("id2")
	delete(missingVendor, "vendor_id")

	zeroCoordinates := rawTrip("id4")
	zeroCoordinates["pickup_latitude"] = "0"

	records := []trip.RawRecord{
		rawTrip("id1"),
		missingVendor,
		rawTrip("id3"),
		zeroCoordinates,
		rawTrip("id5"),
	}

	acceptedTrips, report := newTestPipeline(Config{MaxTrips: 10000, BatchSize: 5000}).Run(records)

	require.Len(t, acceptedTrips, 3)
	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, 2, report.Rejected)
	assert.Equal(t, 1, report.Reasons["Missing required field: vendor_id"])
	assert.Equal(t, 1, report.Reasons["Zero coordinates"])
}

func TestRunPreservesInputOrder(t *testing.T) {
	var records []trip.RawRecord
	for i := 0; i < 7; i++ {
		records = append(records, rawTrip("id"+strconv.Itoa(i)))
	}

	acceptedTrips, _ := newTestPipeline(Config{BatchSize: 3}).Run(records)

	require.Len(t, acceptedTrips, 7)
	for i, acceptedTrip := range acceptedTrips {
		assert.Equal(t, "id"+strconv.Itoa(i), acceptedTrip.TripID)
	}
}

func TestRunRejectionCountsSumToTheExcludedRecords(t *testing.T) {
	badDuration := rawTrip("id-bad-duration")
	badDuration["trip_duration"] = "abc"

	badSequence := rawTrip("id-bad-sequence")
	badSequence["dropoff_datetime"] = "2016-03-14 17:14:55"

	records := []trip.RawRecord{rawTrip("id1"), badDuration, badSequence, rawTrip("id2")}

	_, report := newTestPipeline(Config{BatchSize: 5000}).Run(records)

	reasonsTotal := 0
	for _, count := range report.Reasons {
		reasonsTotal += count
	}
	assert.Equal(t, report.Rejected, reasonsTotal)
	assert.Equal(t, len(records), report.Accepted+report.Rejected)
}

func TestRunCapsThePopulation(t *testing.T) {
	var records []trip.RawRecord
	for i := 0; i < 10; i++ {
		records = append(records, rawTrip("id"+strconv.Itoa(i)))
	}

	acceptedTrips, report := newTestPipeline(Config{MaxTrips: 4, BatchSize: 5000}).Run(records)

	assert.Len(t, acceptedTrips, 4)
	assert.Equal(t, 4, report.Accepted)
	assert.Zero(t, report.Rejected)
}

func TestRunWithAnEmptyPopulation(t *testing.T) {
	acceptedTrips, report := newTestPipeline(Config{BatchSize: 5000}).Run(nil)

	assert.Empty(t, acceptedTrips)
	assert.Zero(t, report.Accepted)
	assert.Zero(t, report.Rejected)
	assert.Equal(t, outliers.Bounds{MinDuration: 30, MaxDuration: 7200}, report.Bounds)
}

func TestRunEstimatesBoundsBeforeValidating(t *testing.T) {
	// every sampled duration is 600s, so the IQR fence collapses to exactly
	// 600 and anything else is out of bounds
	outlier := rawTrip("id-outlier")
	outlier["trip_duration"] = "540"

	records := []trip.RawRecord{rawTrip("id1"), rawTrip("id2"), rawTrip("id3"), outlier}

	_, report := newTestPipeline(Config{BatchSize: 5000}).Run(records)

	assert.Equal(t, 600.0, report.Bounds.MinDuration)
	assert.Equal(t, 600.0, report.Bounds.MaxDuration)
	assert.Equal(t, 1, report.Reasons["Invalid duration"])
}
