package outliers

import (
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"taxiflow/domain/business/orderstats"
	"taxiflow/domain/entities/trip"
)

const iqrFenceFactor = 1.5

// Bounds contains the acceptable trip duration window for one pipeline run,
// in seconds. Computed once before validation begins and held constant
type Bounds struct {
	MinDuration float64
	MaxDuration float64
}

// EstimatorConfig configuration of the duration bounds estimator
// + SampleCeiling: maximum amount of records sampled from the population
// + DefaultMinDuration: lower bound used when no sample survives, also the floor of the estimated lower bound
// + DefaultMaxDuration: upper bound used when no sample survives, also the ceiling of the estimated upper bound
type EstimatorConfig struct {
	SampleCeiling      int     `yaml:"sample_ceiling"`
	DefaultMinDuration float64 `yaml:"default_min_duration"`
	DefaultMaxDuration float64 `yaml:"default_max_duration"`
}

type Estimator struct {
	config EstimatorConfig
}

func NewEstimator(estimatorConfig EstimatorConfig) *Estimator {
	return &Estimator{
		config: estimatorConfig,
	}
}

// EstimateBounds draws a systematic sample from the population, every
// stride-th record starting at index 0, and derives the acceptable duration
// window from the interquartile range of the sampled durations, clamped to
// the configured defaults. Records whose duration does not parse as a
// positive integer are skipped silently: this pass runs before formal
// validation and must not contribute to the rejection report
func (e *Estimator) EstimateBounds(records []trip.RawRecord) Bounds {
	sampleSize := len(records)
	if sampleSize > e.config.SampleCeiling {
		sampleSize = e.config.SampleCeiling
	}

	var durations []int
	if sampleSize > 0 {
		stride := len(records) / sampleSize
		if stride < 1 {
			stride = 1
		}

		log.Debugf("[estimator] sampling %v trips with stride %v for outlier detection", sampleSize, stride)
		for i := 0; i < len(records); i += stride {
			duration, err := strconv.Atoi(strings.TrimSpace(records[i].Field("trip_duration")))
			if err != nil || duration <= 0 {
				continue
			}
			durations = append(durations, duration)
		}
	}

	if len(durations) == 0 {
		log.Infof("[estimator] no usable duration samples, using default bounds %v-%v seconds",
			e.config.DefaultMinDuration, e.config.DefaultMaxDuration)
		return Bounds{
			MinDuration: e.config.DefaultMinDuration,
			MaxDuration: e.config.DefaultMaxDuration,
		}
	}

	orderstats.Quicksort(durations)
	q1 := float64(orderstats.LowerQuartile(durations))
	q3 := float64(orderstats.UpperQuartile(durations))
	iqr := q3 - q1

	bounds := Bounds{
		MinDuration: math.Max(e.config.DefaultMinDuration, q1-iqrFenceFactor*iqr),
		MaxDuration: math.Min(e.config.DefaultMaxDuration, q3+iqrFenceFactor*iqr),
	}

	log.Infof("[estimator] duration bounds determined: %v-%v seconds", bounds.MinDuration, bounds.MaxDuration)
	return bounds
}
