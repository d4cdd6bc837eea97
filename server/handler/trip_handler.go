package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"taxiflow/domain/entities/trip"
	"taxiflow/storage"
	"taxiflow/utils"
)

const filterAll = "all"

var (
	validTimesOfDay         = []string{"morning", "afternoon", "evening", "night"}
	validDistanceCategories = []string{"short", "medium", "long"}
)

// TripHandler serves the dashboard endpoints from the trips store
type TripHandler struct {
	store        *storage.Store
	defaultLimit int
}

func NewTripHandler(store *storage.Store, defaultLimit int) *TripHandler {
	return &TripHandler{
		store:        store,
		defaultLimit: defaultLimit,
	}
}

// timeChartData feeds the time-of-day pie chart, one entry per bucket in
// canonical morning to night order
type timeChartData struct {
	Labels      []string  `json:"labels"`
	Values      []int64   `json:"values"`
	AvgDuration []float64 `json:"avg_duration"`
	AvgDistance []float64 `json:"avg_distance"`
}

// distanceChartData feeds the distance-category bar chart
type distanceChartData struct {
	Labels   []string  `json:"labels"`
	Values   []int64   `json:"values"`
	AvgSpeed []float64 `json:"avg_speed"`
}

type dataResponse struct {
	Trips             []trip.Trip       `json:"trips"`
	TimeChartData     timeChartData     `json:"time_chart_data"`
	DistanceChartData distanceChartData `json:"distance_chart_data"`
	TotalCount        int64             `json:"total_count"`
	AvgDuration       float64           `json:"avg_duration"`
	AvgDistance       float64           `json:"avg_distance"`
	Vendors           []int             `json:"vendors"`
}

// GetData returns the trips matching the requested filters plus the chart
// aggregations and the filtered totals
func (th *TripHandler) GetData(w http.ResponseWriter, r *http.Request) {
	filter, ok := th.parseFilter(w, r)
	if !ok {
		return
	}

	log.Debugf("[handler][method: GetData] time: %s, vendor: %v, distance: %s",
		filter.TimeOfDay, filter.VendorID, filter.DistanceCategory)

	ctx := r.Context()

	trips, err := th.store.FilterTrips(ctx, filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	summary, err := th.store.Summary(ctx, filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	timeBuckets, err := th.store.TimeOfDayBreakdown(ctx, filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	distanceBuckets, err := th.store.DistanceBreakdown(ctx, filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	vendors, err := th.store.UniqueVendors(ctx)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if trips == nil {
		trips = []trip.Trip{}
	}
	if vendors == nil {
		vendors = []int{}
	}

	response := dataResponse{
		Trips:             trips,
		TimeChartData:     newTimeChartData(timeBuckets),
		DistanceChartData: newDistanceChartData(distanceBuckets),
		TotalCount:        summary.TotalCount,
		AvgDuration:       summary.AvgDuration,
		AvgDistance:       summary.AvgDistance,
		Vendors:           vendors,
	}

	log.Debugf("[handler][method: GetData] found %v trips", summary.TotalCount)
	render.JSON(w, r, response)
}

// GetStats returns dataset-level statistics, shown when the dashboard loads
func (th *TripHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := th.store.Stats(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (th *TripHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// parseFilter builds the store filter from the query params. Every filter
// defaults to "all", an unknown filter value is a client error
func (th *TripHandler) parseFilter(w http.ResponseWriter, r *http.Request) (storage.TripFilter, bool) {
	filter := storage.TripFilter{Limit: th.defaultLimit}

	timeOfDay := queryParam(r, "time_of_day", filterAll)
	if timeOfDay != filterAll {
		if !utils.ContainsString(timeOfDay, validTimesOfDay) {
			renderBadRequest(w, r, "invalid time_of_day filter: "+timeOfDay)
			return storage.TripFilter{}, false
		}
		filter.TimeOfDay = timeOfDay
	}

	distanceCategory := queryParam(r, "distance_category", filterAll)
	if distanceCategory != filterAll {
		if !utils.ContainsString(distanceCategory, validDistanceCategories) {
			renderBadRequest(w, r, "invalid distance_category filter: "+distanceCategory)
			return storage.TripFilter{}, false
		}
		filter.DistanceCategory = distanceCategory
	}

	vendorID := queryParam(r, "vendor_id", filterAll)
	if vendorID != filterAll {
		vendor, err := strconv.Atoi(vendorID)
		if err != nil {
			renderBadRequest(w, r, "invalid vendor_id filter: "+vendorID)
			return storage.TripFilter{}, false
		}
		filter.VendorID = vendor
	}

	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit <= 0 {
			renderBadRequest(w, r, "invalid limit: "+rawLimit)
			return storage.TripFilter{}, false
		}
		filter.Limit = limit
	}

	return filter, true
}

func newTimeChartData(buckets []storage.TimeOfDayBucket) timeChartData {
	chart := timeChartData{
		Labels:      []string{},
		Values:      []int64{},
		AvgDuration: []float64{},
		AvgDistance: []float64{},
	}
	for _, bucket := range buckets {
		chart.Labels = append(chart.Labels, bucket.TimeOfDay)
		chart.Values = append(chart.Values, bucket.Count)
		chart.AvgDuration = append(chart.AvgDuration, bucket.AvgDuration)
		chart.AvgDistance = append(chart.AvgDistance, bucket.AvgDistance)
	}
	return chart
}

func newDistanceChartData(buckets []storage.DistanceBucket) distanceChartData {
	chart := distanceChartData{
		Labels:   []string{},
		Values:   []int64{},
		AvgSpeed: []float64{},
	}
	for _, bucket := range buckets {
		chart.Labels = append(chart.Labels, bucket.TripDistanceCategory)
		chart.Values = append(chart.Values, bucket.Count)
		chart.AvgSpeed = append(chart.AvgSpeed, bucket.AvgSpeed)
	}
	return chart
}

func queryParam(r *http.Request, name string, defaultValue string) string {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue
	}
	return value
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	log.Errorf("[handler] %s", err.Error())
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": message})
}
