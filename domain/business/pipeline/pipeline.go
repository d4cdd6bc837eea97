package pipeline

import (
	log "github.com/sirupsen/logrus"

	"taxiflow/domain/business/outliers"
	"taxiflow/domain/business/validator"
	"taxiflow/domain/entities/trip"
)

// Config tunable policy knobs of one pipeline run
// + MaxTrips: throughput cap applied before any processing, 0 disables it
// + BatchSize: amount of records validated per batch
type Config struct {
	MaxTrips  int `yaml:"max_trips"`
	BatchSize int `yaml:"batch_size"`
}

// Report summary of one pipeline run
// + Accepted: amount of records that became clean trips
// + Rejected: amount of records excluded, equals the sum of Reasons
// + Reasons: rejection histogram, reason label to occurrence count
// + Bounds: the duration bounds the run validated against
type Report struct {
	Accepted int
	Rejected int
	Reasons  map[string]int
	Bounds   outliers.Bounds
}

type Pipeline struct {
	config    Config
	estimator *outliers.Estimator
}

func NewPipeline(pipelineConfig Config, estimator *outliers.Estimator) *Pipeline {
	return &Pipeline{
		config:    pipelineConfig,
		estimator: estimator,
	}
}

// Run validates the whole population in fixed-size batches and returns the
// accepted trips, in input order, together with the run report. The duration
// bounds are estimated once, over the already capped population, and held
// constant for every batch. A rejected record only affects its own outcome
func (p *Pipeline) Run(records []trip.RawRecord) ([]*trip.Trip, Report) {
	if p.config.MaxTrips > 0 && len(records) > p.config.MaxTrips {
		log.Infof("[pipeline] limiting processing to the first %v of %v trips", p.config.MaxTrips, len(records))
		records = records[:p.config.MaxTrips]
	}

	bounds := p.estimator.EstimateBounds(records)

	report := Report{
		Reasons: make(map[string]int),
		Bounds:  bounds,
	}

	batchSize := p.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(records)
	}

	var acceptedTrips []*trip.Trip
	if len(records) == 0 {
		return acceptedTrips, report
	}

	totalBatches := (len(records) + batchSize - 1) / batchSize
	for batchNum := 0; batchNum < totalBatches; batchNum++ {
		startIdx := batchNum * batchSize
		endIdx := startIdx + batchSize
		if endIdx > len(records) {
			endIdx = len(records)
		}

		log.Infof("[pipeline][batch: %v/%v] processing trips %v-%v", batchNum+1, totalBatches, startIdx+1, endIdx)
		for _, record := range records[startIdx:endIdx] {
			cleanedTrip, rejection := validator.Validate(record, bounds)
			if rejection != nil {
				report.Reasons[rejection.Error()] += 1
				continue
			}
			acceptedTrips = append(acceptedTrips, cleanedTrip)
		}
	}

	report.Accepted = len(acceptedTrips)
	report.Rejected = len(records) - len(acceptedTrips)
	return acceptedTrips, report
}

// Log writes the run summary, one line per rejection reason
func (r Report) Log() {
	log.Infof("[pipeline] processing complete: %v valid trips, %v excluded", r.Accepted, r.Rejected)
	for reason, count := range r.Reasons {
		log.Infof("[pipeline][reason: %s] %v trips excluded", reason, count)
	}
}
