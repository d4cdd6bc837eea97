package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taxiflow/domain/business/outliers"
	"taxiflow/domain/business/pipeline"
	"taxiflow/utils"
)

const configFilepath = "./processor/config/config.yaml"

// ProcessorConfig configuration of the cleaning pipeline binary
// + DatasetPath: CSV file with the raw trip records
// + DatabasePath: SQLite file that receives the clean dataset
// + Pipeline: cap and batch size of the run
// + Estimator: sampling ceiling and default duration bounds
type ProcessorConfig struct {
	DatasetPath  string                   `yaml:"dataset_path"`
	DatabasePath string                   `yaml:"database_path"`
	Pipeline     pipeline.Config          `yaml:"pipeline"`
	Estimator    outliers.EstimatorConfig `yaml:"estimator"`
}

func LoadConfig() (*ProcessorConfig, error) {
	configFile, err := utils.GetConfigFile(configFilepath)
	if err != nil {
		return nil, err
	}

	var processorConfig ProcessorConfig
	err = yaml.Unmarshal(configFile, &processorConfig)
	if err != nil {
		return nil, fmt.Errorf("error parsing processor config file: %s", err)
	}

	if datasetPath := os.Getenv("DATASET_PATH"); datasetPath != "" {
		processorConfig.DatasetPath = datasetPath
	}
	if databasePath := os.Getenv("DATABASE_PATH"); databasePath != "" {
		processorConfig.DatabasePath = databasePath
	}

	return &processorConfig, nil
}
