package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

var csvHeader = []string{
	"site_id", "site_name", "timestamp", "latitude", "longitude",
	"pressure", "flow_rate", "conductivity", "temperature", "ph",
	"recovery_rate", "salt_rejection",
}

// LoadCSV reads readings from a CSV file into the store.
func (s *ReadingStore) LoadCSV(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Read() // header

	var batch []models.Reading
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		reading, err := parseRow(fields)
		if err != nil {
			return err
		}
		batch = append(batch, reading)
	}

	s.AddBatch(batch)
	return nil
}

func parseRow(fields []string) (models.Reading, error) {
	if len(fields) < len(csvHeader) {
		return models.Reading{}, fmt.Errorf("malformed reading row: expected %d fields, got %d", len(csvHeader), len(fields))
	}

	ts, err := time.Parse(time.RFC3339, fields[2])
	if err != nil {
		return models.Reading{}, fmt.Errorf("invalid timestamp %q: %w", fields[2], err)
	}

	values := make([]float64, 9)
	for i, idx := range []int{3, 4, 5, 6, 7, 8, 9, 10, 11} {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return models.Reading{}, fmt.Errorf("invalid value in column %s: %w", csvHeader[idx], err)
		}
		values[i] = v
	}

	return models.Reading{
		SiteID:        fields[0],
		SiteName:      fields[1],
		Timestamp:     ts,
		Latitude:      values[0],
		Longitude:     values[1],
		Pressure:      values[2],
		FlowRate:      values[3],
		Conductivity:  values[4],
		Temperature:   values[5],
		PH:            values[6],
		RecoveryRate:  values[7],
		SaltRejection: values[8],
	}, nil
}

// WriteCSV streams readings as CSV, header included.
func WriteCSV(w io.Writer, readings []models.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range readings {
		row := []string{
			r.SiteID,
			r.SiteName,
			r.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			formatFloat(r.Pressure),
			formatFloat(r.FlowRate),
			formatFloat(r.Conductivity),
			formatFloat(r.Temperature),
			formatFloat(r.PH),
			formatFloat(r.RecoveryRate),
			formatFloat(r.SaltRejection),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
