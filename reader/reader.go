package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"taxiflow/domain/entities/trip"
)

// essentialFields should already be guaranteed by the upstream export; rows
// missing any of them are filtered here before the pipeline re-validates
// field presence
var essentialFields = []string{"pickup_datetime", "dropoff_datetime", "trip_duration"}

// ParseCSV reads the raw trip dataset into field-keyed records using the
// header row as field names. Rows missing an essential field are excluded
// and counted, but a source that cannot be read at all is fatal: no partial
// result is returned in that case
func ParseCSV(filepath string) ([]trip.RawRecord, int, error) {
	dataFile, err := os.Open(filepath)
	if err != nil {
		return nil, 0, fmt.Errorf("error opening %s: %w", filepath, err)
	}

	defer func(dataFile *os.File) {
		err := dataFile.Close()
		if err != nil {
			log.Errorf("[reader] error closing %s: %s", filepath, err.Error())
		}
	}(dataFile)

	csvReader := csv.NewReader(dataFile)
	csvReader.FieldsPerRecord = -1 // tolerate ragged rows, presence checks handle them

	header, err := csvReader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("error reading header of %s: %w", filepath, err)
	}

	var records []trip.RawRecord
	excludedCount := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("error reading %s: %w", filepath, err)
		}

		record := make(trip.RawRecord, len(header))
		for idx, field := range header {
			if idx < len(row) {
				record[field] = row[idx]
			}
		}

		if !hasEssentialFields(record) {
			excludedCount += 1
			continue
		}
		records = append(records, record)
	}

	log.Infof("[reader] loaded %v valid trips, excluded %v incomplete records", len(records), excludedCount)
	return records, excludedCount, nil
}

func hasEssentialFields(record trip.RawRecord) bool {
	for _, field := range essentialFields {
		if record.Field(field) == "" {
			return false
		}
	}
	return true
}
