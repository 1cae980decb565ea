package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/obslog"
)

// loadEventsCSV reads a two-column CSV (header: type_name,time_ms) into
// events. Malformed rows are skipped with a warning rather than aborting
// the whole load, since one bad row in an otherwise large export shouldn't
// sink the run.
func loadEventsCSV(path string) ([]eventmodel.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	typeCol, timeCol := columnIndices(header)
	if typeCol < 0 || timeCol < 0 {
		return nil, fmt.Errorf("%s: header must contain type_name and time_ms columns", path)
	}

	var events []eventmodel.Event
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				obslog.Warn("%s: skipping malformed row: %v", path, err)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(row) <= typeCol || len(row) <= timeCol {
			obslog.Warn("%s: skipping row with missing columns", path)
			continue
		}
		timeMs, err := strconv.ParseInt(strings.TrimSpace(row[timeCol]), 10, 64)
		if err != nil {
			obslog.Warn("%s: skipping row with unparseable time_ms: %v", path, err)
			continue
		}
		events = append(events, eventmodel.Event{TypeName: strings.TrimSpace(row[typeCol]), TimeMs: timeMs})
	}
	return events, nil
}

func columnIndices(header []string) (typeCol, timeCol int) {
	typeCol, timeCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "type_name", "type":
			typeCol = i
		case "time_ms", "timestamp_ms":
			timeCol = i
		}
	}
	return
}
