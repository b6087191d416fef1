package stream

import (
	"math"
	"strconv"
	"strings"

	"soil_monitor/internal/models"
)

// Parse extracts schema fields from one line of the device's
// comma-separated name:value protocol. Fields with an unknown name or
// a value that is not a finite number are skipped silently; a line
// yielding no valid fields produces an empty update, never an error.
// Callers treat an empty update as "no change".
func Parse(line string) models.Update {
	var upd models.Update
	for _, tok := range strings.Split(line, ",") {
		name, rawVal, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		field, ok := models.FieldByKey(strings.TrimSpace(name))
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rawVal), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		upd = append(upd, models.FieldValue{Field: field, Value: v})
	}
	return upd
}
