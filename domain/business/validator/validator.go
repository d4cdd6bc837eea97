package validator

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"taxiflow/domain/business/geo"
	"taxiflow/domain/business/outliers"
	"taxiflow/domain/entities/trip"
)

const (
	storedDatetimeLayout = "2006-01-02 15:04:05"
	tripIDLayout         = "20060102_150405"

	// NYC service area, intentionally lenient
	minLatitude  = 40.0
	maxLatitude  = 41.0
	minLongitude = -75.0
	maxLongitude = -73.0

	minDistanceKM = 0.1
	maxSpeedKMH   = 120.0

	minPassengers = 1
	maxPassengers = 8

	defaultPassengerCount = 1
	defaultVendorID       = 1
	defaultStoreAndFwd    = "N"

	timeOfDayMorning   = "morning"
	timeOfDayAfternoon = "afternoon"
	timeOfDayEvening   = "evening"
	timeOfDayNight     = "night"

	distanceShort  = "short"
	distanceMedium = "medium"
	distanceLong   = "long"
)

// requiredFields are checked in this order; the first missing one names the rejection
var requiredFields = []string{
	"trip_duration",
	"pickup_latitude",
	"pickup_longitude",
	"dropoff_latitude",
	"dropoff_longitude",
	"pickup_datetime",
	"dropoff_datetime",
	"vendor_id",
}

// datetimeLayouts are tried in order, the first one that parses both
// timestamps of a record wins
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04",
}

// Validate applies the ordered validation checks to one raw record and
// returns either the cleaned trip or the rejection reason. The checks
// short-circuit: a record can fail several of them but only the first
// failure is reported. Any panic raised while processing the record is
// recovered and surfaced as a generic processing error, a single bad record
// must never abort the batch
func Validate(record trip.RawRecord, bounds outliers.Bounds) (cleanedTrip *trip.Trip, rejection error) {
	defer func() {
		if r := recover(); r != nil {
			cleanedTrip = nil
			rejection = fmt.Errorf("%w: %v", ErrProcessingFailure, r)
		}
	}()

	for _, field := range requiredFields {
		if record.Field(field) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	rawDuration, err := strconv.ParseFloat(record.Field("trip_duration"), 64)
	if err != nil {
		return nil, ErrInvalidDuration
	}
	duration := int(rawDuration)
	if float64(duration) < bounds.MinDuration || float64(duration) > bounds.MaxDuration {
		return nil, ErrInvalidDuration
	}

	// An unparsable coordinate degenerates to 0 and is caught by the zero check
	pickupLat := parseCoordinate(record.Field("pickup_latitude"))
	pickupLong := parseCoordinate(record.Field("pickup_longitude"))
	dropoffLat := parseCoordinate(record.Field("dropoff_latitude"))
	dropoffLong := parseCoordinate(record.Field("dropoff_longitude"))

	if pickupLat == 0 || pickupLong == 0 || dropoffLat == 0 || dropoffLong == 0 {
		return nil, ErrZeroCoordinates
	}

	if !insideServiceArea(pickupLat, pickupLong) {
		return nil, ErrInvalidPickup
	}
	if !insideServiceArea(dropoffLat, dropoffLong) {
		return nil, ErrInvalidDropoff
	}

	pickupTime, dropoffTime, err := parseDatetimes(record.Field("pickup_datetime"), record.Field("dropoff_datetime"))
	if err != nil {
		return nil, ErrInvalidDatetime
	}

	if !dropoffTime.After(pickupTime) {
		return nil, ErrInvalidSequence
	}

	distanceKM := geo.Distance(pickupLat, pickupLong, dropoffLat, dropoffLong)
	if distanceKM < minDistanceKM {
		return nil, ErrTripTooShort
	}

	speedKMH := 0.0
	if duration > 0 {
		speedKMH = distanceKM / float64(duration) * 3600
	}
	if speedKMH > maxSpeedKMH {
		return nil, ErrUnrealisticSpeed
	}

	return &trip.Trip{
		TripID:               tripID(record, pickupTime),
		VendorID:             parseSmallInt(record.Field("vendor_id"), defaultVendorID),
		PickupDatetime:       pickupTime.Format(storedDatetimeLayout),
		DropoffDatetime:      dropoffTime.Format(storedDatetimeLayout),
		PassengerCount:       passengerCount(record.Field("passenger_count")),
		PickupLongitude:      roundTo(pickupLong, 6),
		PickupLatitude:       roundTo(pickupLat, 6),
		DropoffLongitude:     roundTo(dropoffLong, 6),
		DropoffLatitude:      roundTo(dropoffLat, 6),
		StoreAndFwdFlag:      storeAndFwdFlag(record),
		TripDuration:         duration,
		DistanceKM:           roundTo(distanceKM, 3),
		SpeedKMH:             roundTo(speedKMH, 2),
		TimeOfDay:            timeOfDay(pickupTime.Hour()),
		TripDistanceCategory: distanceCategory(distanceKM),
		Hour:                 pickupTime.Hour(),
		DayOfWeek:            (int(pickupTime.Weekday()) + 6) % 7, // 0=Monday
		Month:                int(pickupTime.Month()),
	}, nil
}

func parseCoordinate(rawCoordinate string) float64 {
	coordinate, err := strconv.ParseFloat(rawCoordinate, 64)
	if err != nil {
		return 0
	}
	return coordinate
}

func insideServiceArea(lat float64, long float64) bool {
	return minLatitude <= lat && lat <= maxLatitude && minLongitude <= long && long <= maxLongitude
}

// parseDatetimes parses both timestamps with the first layout that accepts
// the two of them
func parseDatetimes(rawPickup string, rawDropoff string) (time.Time, time.Time, error) {
	for _, layout := range datetimeLayouts {
		pickupTime, err := time.Parse(layout, rawPickup)
		if err != nil {
			continue
		}
		dropoffTime, err := time.Parse(layout, rawDropoff)
		if err != nil {
			continue
		}
		return pickupTime, dropoffTime, nil
	}
	return time.Time{}, time.Time{}, ErrInvalidDatetime
}

// tripID takes the source id when present, otherwise synthesizes one from
// the pickup timestamp
func tripID(record trip.RawRecord, pickupTime time.Time) string {
	if id := record.Field("id"); id != "" {
		return id
	}
	return "trip_" + pickupTime.Format(tripIDLayout)
}

// passengerCount is normalized, never a rejection: unparsable or
// out-of-range values default to 1
func passengerCount(rawCount string) int {
	count := parseSmallInt(rawCount, defaultPassengerCount)
	if count < minPassengers || count > maxPassengers {
		return defaultPassengerCount
	}
	return count
}

// parseSmallInt parses an integer that may be written with a fractional part
// ("2.0"), falling back to the given default
func parseSmallInt(rawValue string, defaultValue int) int {
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

func storeAndFwdFlag(record trip.RawRecord) string {
	if flag := record.Field("store_and_fwd_flag"); flag != "" {
		return flag
	}
	return defaultStoreAndFwd
}

func timeOfDay(hour int) string {
	if 6 <= hour && hour < 12 {
		return timeOfDayMorning
	}

	if 12 <= hour && hour < 18 {
		return timeOfDayAfternoon
	}

	if 18 <= hour && hour < 22 {
		return timeOfDayEvening
	}
	return timeOfDayNight
}

func distanceCategory(distanceKM float64) string {
	if distanceKM < 2 {
		return distanceShort
	}

	if distanceKM < 10 {
		return distanceMedium
	}
	return distanceLong
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
