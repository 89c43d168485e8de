package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalHours_Schedule(t *testing.T) {
	b, err := MarshalHours(ScheduleHours{"monday": "9am-9pm"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"monday": "9am-9pm"}`, string(b))

	h, err := UnmarshalHours(b)
	require.NoError(t, err)
	sched, ok := h.(ScheduleHours)
	require.True(t, ok, "expected ScheduleHours, got %T", h)
	assert.Equal(t, "9am-9pm", sched["monday"])
}

func TestMarshalHours_Raw(t *testing.T) {
	b, err := MarshalHours(RawHours("weekdays 9-5"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw": "weekdays 9-5"}`, string(b))

	h, err := UnmarshalHours(b)
	require.NoError(t, err)
	raw, ok := h.(RawHours)
	require.True(t, ok, "expected RawHours, got %T", h)
	assert.Equal(t, "weekdays 9-5", string(raw))
}

func TestUnmarshalHours_RawKeyWinsOverSchedule(t *testing.T) {
	// A schedule keyed only by the literal day label "raw" marshals to
	// the same bytes as the raw-text envelope, so it decodes as
	// RawHours. Pinned: the stored value survives, the shape does not.
	b, err := MarshalHours(ScheduleHours{"raw": "9am-5pm"})
	require.NoError(t, err)

	h, err := UnmarshalHours(b)
	require.NoError(t, err)
	raw, ok := h.(RawHours)
	require.True(t, ok, "expected RawHours, got %T", h)
	assert.Equal(t, "9am-5pm", string(raw))
}

func TestMarshalHours_Nil(t *testing.T) {
	b, err := MarshalHours(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	h, err := UnmarshalHours(nil)
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestUnmarshalHours_Invalid(t *testing.T) {
	_, err := UnmarshalHours([]byte("not json"))
	assert.Error(t, err)
}
