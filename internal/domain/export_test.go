package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

func TestTrip_ExportRows_OnePerActivity(t *testing.T) {
	trip := fullTrip()
	trip.Days[0].Slots[0].Places = append(trip.Days[0].Slots[0].Places,
		domain.Activity{ID: "p2", Name: "Fukuoka Tower", Address: domain.Ptr("Momochihama")})

	rows := trip.ExportRows()

	require.Len(t, rows, 2)
	first := rows[0]
	assert.Equal(t, "trip-1", first.TripID)
	assert.Equal(t, "Kyushu loop", first.TripName)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "2025-11-20", first.Date)
	assert.Equal(t, "福岡", first.City)
	assert.Equal(t, "上午", first.SlotLabel)
	assert.Equal(t, "09:00", first.SlotStart)
	assert.Equal(t, "12:00", first.SlotEnd)
	assert.Equal(t, "Ohori Park", first.ActivityName)
	require.NotNil(t, first.StayMinutes)
	assert.Equal(t, 60, *first.StayMinutes)
	assert.Equal(t, []string{"park"}, first.Types)

	assert.Equal(t, "p2", rows[1].ActivityID)
	assert.Equal(t, "Momochihama", rows[1].Address)
}

func TestTrip_ExportRows_EmptyDayYieldsOneRow(t *testing.T) {
	trip := fullTrip()
	trip.Days = append(trip.Days, domain.DaySchedule{
		Date:  "2025-11-21",
		Slots: []domain.Slot{{Label: "下午"}},
	})

	rows := trip.ExportRows()

	require.Len(t, rows, 2)
	empty := rows[1]
	assert.Equal(t, 2, empty.Day)
	assert.Equal(t, "2025-11-21", empty.Date)
	assert.Empty(t, empty.SlotLabel)
	assert.Empty(t, empty.ActivityID)
}

func TestTrip_ExportRows_DoesNotAlias(t *testing.T) {
	trip := fullTrip()

	rows := trip.ExportRows()
	rows[0].Types[0] = "changed"
	*rows[0].StayMinutes = 1

	assert.Equal(t, "park", trip.Days[0].Slots[0].Places[0].Types[0])
	assert.Equal(t, 60, *trip.Days[0].Slots[0].Places[0].StayMinutes)
}

func TestExportRow_JSONKeepsZeroCoordinates(t *testing.T) {
	// Null Island and points on the equator or prime meridian are real places.
	row := domain.ExportRow{TripID: "t", Day: 1, Date: "2025-11-20", ActivityID: "p1", Lat: 0, Lng: 0}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, got, "lat")
	assert.Contains(t, got, "lng")
	assert.Equal(t, 0.0, got["lat"])
}

func TestTrip_ExportRows_NoDays(t *testing.T) {
	assert.Empty(t, domain.Trip{ID: "t"}.ExportRows())
}
