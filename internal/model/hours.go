package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Hours is the operating-hours value attached to a facility. Source
// data carries either a structured JSON schedule or free text, so the
// two shapes are kept distinct: consumers switch on the concrete type
// instead of probing for a "raw" key.
type Hours interface {
	isHours()
}

// ScheduleHours maps a day label to an hours string, e.g.
// {"monday": "9am-9pm"}.
type ScheduleHours map[string]string

func (ScheduleHours) isHours() {}

// RawHours preserves free-text hours that did not parse as JSON.
type RawHours string

func (RawHours) isHours() {}

// rawHoursEnvelope is the stored form of RawHours.
type rawHoursEnvelope struct {
	Raw string `json:"raw"`
}

// MarshalHours encodes either shape for storage. A schedule becomes a
// plain JSON object; raw text becomes {"raw": <text>}.
func MarshalHours(h Hours) ([]byte, error) {
	switch v := h.(type) {
	case nil:
		return nil, nil
	case ScheduleHours:
		b, err := json.Marshal(map[string]string(v))
		return b, eris.Wrap(err, "model: marshal schedule hours")
	case RawHours:
		b, err := json.Marshal(rawHoursEnvelope{Raw: string(v)})
		return b, eris.Wrap(err, "model: marshal raw hours")
	default:
		return nil, eris.Errorf("model: unknown hours type %T", h)
	}
}

// UnmarshalHours decodes the stored form back into the matching shape.
// The envelope is ambiguous for a schedule whose only day label is
// literally "raw": `{"raw": "9am-5pm"}` always decodes as RawHours,
// so such a schedule does not round-trip. "raw" is not a day label in
// any real export, and the stored bytes are identical either way.
func UnmarshalHours(data []byte) (Hours, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var env rawHoursEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Raw != "" {
		return RawHours(env.Raw), nil
	}

	var sched map[string]string
	if err := json.Unmarshal(data, &sched); err != nil {
		return nil, eris.Wrap(err, "model: unmarshal hours")
	}
	return ScheduleHours(sched), nil
}
