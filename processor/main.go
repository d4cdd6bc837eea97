package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"

	"taxiflow/domain/business/outliers"
	"taxiflow/domain/business/pipeline"
	"taxiflow/processor/config"
	"taxiflow/reader"
	"taxiflow/storage"
)

// InitLogger Receives the log level to be set in logrus as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	logrus.SetFormatter(customFormatter)
	logrus.SetLevel(level)
	return nil
}

func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}
	if err := InitLogger(logLevel); err != nil {
		log.Fatalf("%s", err)
		return
	}

	processorConfig, err := config.LoadConfig()
	if err != nil {
		log.Errorf("[processor] error loading config: %s", err.Error())
		return
	}

	store, err := storage.NewStore(processorConfig.DatabasePath)
	if err != nil {
		log.Errorf("[processor] error opening storage: %s", err.Error())
		return
	}

	err = store.Init()
	if err != nil {
		log.Errorf("[processor] error initializing storage: %s", err.Error())
		return
	}

	records, _, err := reader.ParseCSV(processorConfig.DatasetPath)
	if err != nil {
		log.Errorf("[processor] error reading dataset: %s", err.Error())
		return
	}

	if len(records) == 0 {
		log.Errorf("[processor] no data loaded, check that %s exists and has records", processorConfig.DatasetPath)
		return
	}

	estimator := outliers.NewEstimator(processorConfig.Estimator)
	tripPipeline := pipeline.NewPipeline(processorConfig.Pipeline, estimator)

	cleanedTrips, report := tripPipeline.Run(records)
	report.Log()

	if len(cleanedTrips) == 0 {
		log.Error("[processor] no valid trips found after processing, check the data quality")
		return
	}

	err = store.StoreTrips(context.Background(), cleanedTrips)
	if err != nil {
		log.Errorf("[processor] error storing trips: %s", err.Error())
		return
	}

	log.Infof("[processor] pipeline completed, the clean dataset contains %v trips", report.Accepted)
}
