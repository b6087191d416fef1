package models

import "time"

// Field identifies one reading in the closed sensor schema.
// The set is fixed: unknown field names coming off the wire are
// dropped by the parser, never added here.
type Field uint8

const (
	FieldNitrogen Field = iota
	FieldPhosphorus
	FieldPotassium
	FieldConductivity
	FieldTemperature
	FieldMoisture
)

// Key returns the wire name of the field as it appears in the
// device's name:value line protocol.
func (f Field) Key() string {
	switch f {
	case FieldNitrogen:
		return "N"
	case FieldPhosphorus:
		return "P"
	case FieldPotassium:
		return "K"
	case FieldConductivity:
		return "EC"
	case FieldTemperature:
		return "temp"
	case FieldMoisture:
		return "moisture"
	default:
		return "unknown"
	}
}

// FieldByKey resolves a wire name against the schema.
// Returns false for any name outside the closed set.
func FieldByKey(name string) (Field, bool) {
	switch name {
	case "N":
		return FieldNitrogen, true
	case "P":
		return FieldPhosphorus, true
	case "K":
		return FieldPotassium, true
	case "EC":
		return FieldConductivity, true
	case "temp":
		return FieldTemperature, true
	case "moisture":
		return FieldMoisture, true
	default:
		return 0, false
	}
}

// FieldValue is one parsed field/value pair.
type FieldValue struct {
	Field Field
	Value float64
}

// Update is the subset of schema fields parsed from a single line.
// It is transient: produced by the parser, consumed by the store.
type Update []FieldValue

// Readings is the current snapshot of every schema field.
// Absent optional fields stay at their zero value until the device
// reports them.
type Readings struct {
	Nitrogen     float64   `json:"n"`        // mg/kg
	Phosphorus   float64   `json:"p"`        // mg/kg
	Potassium    float64   `json:"k"`        // mg/kg
	Conductivity float64   `json:"ec"`       // µS/cm
	Temperature  float64   `json:"temp"`     // °C
	Moisture     float64   `json:"moisture"` // %
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Apply merges an update onto the snapshot and reports whether any
// field actually changed value. Fields absent from the update are
// left untouched. The switch is exhaustive over the schema.
func (r Readings) Apply(u Update) (Readings, bool) {
	changed := false
	for _, fv := range u {
		switch fv.Field {
		case FieldNitrogen:
			if r.Nitrogen != fv.Value {
				r.Nitrogen = fv.Value
				changed = true
			}
		case FieldPhosphorus:
			if r.Phosphorus != fv.Value {
				r.Phosphorus = fv.Value
				changed = true
			}
		case FieldPotassium:
			if r.Potassium != fv.Value {
				r.Potassium = fv.Value
				changed = true
			}
		case FieldConductivity:
			if r.Conductivity != fv.Value {
				r.Conductivity = fv.Value
				changed = true
			}
		case FieldTemperature:
			if r.Temperature != fv.Value {
				r.Temperature = fv.Value
				changed = true
			}
		case FieldMoisture:
			if r.Moisture != fv.Value {
				r.Moisture = fv.Value
				changed = true
			}
		}
	}
	return r, changed
}
