package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherdesk/internal/weather"
)

func TestReportStore(t *testing.T) {
	s := NewReportStore()

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	s.Save(weather.Report{City: "Oslo"})
	s.Save(weather.Report{City: "Rome"})

	r, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "Rome", r.City)

	s.Clear()
	_, err = s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}
