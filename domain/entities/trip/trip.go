package trip

// RawRecord is a field-keyed trip record exactly as it came from the source
// file. Fields may be missing or empty, values are untrusted text.
type RawRecord map[string]string

// Field returns the raw value of the given field, or "" if it is not present
func (rr RawRecord) Field(name string) string {
	return rr[name]
}

// Trip struct that contains one cleaned and validated taxi trip
// + TripID: unique identifier, from the source id or synthesized from the pickup timestamp
// + VendorID: taxi company that recorded the trip
// + PickupDatetime: when the trip began, "2006-01-02 15:04:05"
// + DropoffDatetime: when the trip ended, always after PickupDatetime
// + PassengerCount: passengers on board, normalized to 1..8
// + StoreAndFwdFlag: whether the record was stored before forwarding ("Y"/"N")
// + TripDuration: trip length in seconds
// + DistanceKM: great-circle pickup to dropoff distance in kilometers
// + SpeedKMH: average speed in km/h
// + TimeOfDay: morning, afternoon, evening or night, from the pickup hour
// + TripDistanceCategory: short, medium or long, from DistanceKM
// + Hour: pickup hour (0-23)
// + DayOfWeek: pickup day (0=Monday .. 6=Sunday)
// + Month: pickup month (1-12)
type Trip struct {
	ID                   uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	TripID               string  `json:"trip_id" gorm:"uniqueIndex;not null"`
	VendorID             int     `json:"vendor_id" gorm:"index;not null"`
	PickupDatetime       string  `json:"pickup_datetime" gorm:"index;not null"`
	DropoffDatetime      string  `json:"dropoff_datetime" gorm:"not null"`
	PassengerCount       int     `json:"passenger_count" gorm:"not null"`
	PickupLongitude      float64 `json:"pickup_longitude" gorm:"not null"`
	PickupLatitude       float64 `json:"pickup_latitude" gorm:"not null"`
	DropoffLongitude     float64 `json:"dropoff_longitude" gorm:"not null"`
	DropoffLatitude      float64 `json:"dropoff_latitude" gorm:"not null"`
	StoreAndFwdFlag      string  `json:"store_and_fwd_flag"`
	TripDuration         int     `json:"trip_duration" gorm:"index;not null"`
	DistanceKM           float64 `json:"distance_km" gorm:"column:distance_km;index;not null"`
	SpeedKMH             float64 `json:"speed_kmh" gorm:"column:speed_kmh;index;not null"`
	TimeOfDay            string  `json:"time_of_day" gorm:"index;not null"`
	TripDistanceCategory string  `json:"trip_distance_category" gorm:"index;not null"`
	Hour                 int     `json:"hour" gorm:"index;not null"`
	DayOfWeek            int     `json:"day_of_week" gorm:"index;not null"`
	Month                int     `json:"month" gorm:"index;not null"`
}

// TableName keeps the table name used by the dashboard queries
func (Trip) TableName() string {
	return "taxi_trips"
}
