package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/api/internal/model"
)

func f64(v float64) *float64 { return &v }

func coord(lat, lng float64) *model.Location {
	return &model.Location{Lat: f64(lat), Lng: f64(lng)}
}

func TestHaversineDistance(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, haversineDistance(12.9716, 77.5946, 12.9716, 77.5946))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := haversineDistance(12.9716, 77.5946, 13.0827, 80.2707)
		d2 := haversineDistance(13.0827, 80.2707, 12.9716, 77.5946)
		assert.InDelta(t, d1, d2, 0.0001)
	})

	t.Run("known distance", func(t *testing.T) {
		// One degree of latitude is roughly 111.2 km
		d := haversineDistance(0, 0, 1, 0)
		assert.InDelta(t, 111195, d, 100)
	})

	t.Run("small offset is meters scale", func(t *testing.T) {
		// ~0.001 degree latitude is about 111 meters
		d := haversineDistance(12.9716, 77.5946, 12.9726, 77.5946)
		assert.InDelta(t, 111, d, 2)
	})
}

func officesFixture() []model.OfficeBranch {
	return []model.OfficeBranch{
		{OfficeID: "HQ", OfficeName: "Headquarters", Lat: 12.9716, Lng: 77.5946, RadiusMeters: 300, IsActive: true},
		{OfficeID: "BR1", OfficeName: "North Branch", Lat: 13.0827, Lng: 80.2707, RadiusMeters: 150, IsActive: true},
	}
}

func TestEvaluateLocationDisabled(t *testing.T) {
	meta, err := evaluateLocation(false, nil, coord(0, 0), "Check-in")
	require.NoError(t, err)
	assert.Equal(t, "Geo-fencing disabled", meta.OfficeName)
	assert.Nil(t, meta.DistanceMeters)
}

func TestEvaluateLocationInvalid(t *testing.T) {
	tests := []struct {
		name string
		loc  *model.Location
	}{
		{"nil location", nil},
		{"missing latitude", &model.Location{Lng: f64(0)}},
		{"missing longitude", &model.Location{Lat: f64(0)}},
		{"latitude too high", coord(91, 0)},
		{"latitude too low", coord(-91, 0)},
		{"longitude too high", coord(0, 181)},
		{"longitude too low", coord(0, -181)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluateLocation(true, officesFixture(), tt.loc, "Check-in")
			require.Error(t, err)

			var gfe *GeofenceError
			require.True(t, errors.As(err, &gfe))
			assert.Equal(t, GeofenceInvalidLocation, gfe.Reason)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestEvaluateLocationPartialPayload(t *testing.T) {
	// A JSON body carrying only one coordinate must not read as (0, 0)
	var loc model.Location
	require.NoError(t, json.Unmarshal([]byte(`{"lng":10.0}`), &loc))
	require.Nil(t, loc.Lat)

	_, err := evaluateLocation(true, officesFixture(), &loc, "Check-in")
	require.Error(t, err)

	var gfe *GeofenceError
	require.True(t, errors.As(err, &gfe))
	assert.Equal(t, GeofenceInvalidLocation, gfe.Reason)
	assert.Equal(t, "Check-in location required", gfe.Message)
}

func TestEvaluateLocationNoActiveOffices(t *testing.T) {
	_, err := evaluateLocation(true, nil, coord(12.9716, 77.5946), "Check-in")
	require.Error(t, err)

	var gfe *GeofenceError
	require.True(t, errors.As(err, &gfe))
	assert.Equal(t, GeofenceNoActiveOffices, gfe.Reason)
	assert.Equal(t, "No active office branches found", gfe.Message)
}

func TestEvaluateLocationSelectedOffice(t *testing.T) {
	t.Run("inside radius", func(t *testing.T) {
		loc := coord(12.9716, 77.5946)
		loc.OfficeID = "HQ"
		meta, err := evaluateLocation(true, officesFixture(), loc, "Check-in")
		require.NoError(t, err)
		assert.Equal(t, "HQ", meta.OfficeID)
		assert.Equal(t, "Headquarters", meta.OfficeName)
		require.NotNil(t, meta.DistanceMeters)
		assert.Equal(t, 0.0, *meta.DistanceMeters)
	})

	t.Run("near the boundary still passes", func(t *testing.T) {
		// ~222m north of HQ, radius is 300m
		loc := coord(12.9736, 77.5946)
		loc.OfficeID = "HQ"
		meta, err := evaluateLocation(true, officesFixture(), loc, "Check-in")
		require.NoError(t, err)
		require.NotNil(t, meta.DistanceMeters)
		assert.Greater(t, *meta.DistanceMeters, 200.0)
		assert.LessOrEqual(t, *meta.DistanceMeters, 300.0)
	})

	t.Run("outside radius rejected", func(t *testing.T) {
		// ~445m north of HQ
		loc := coord(12.9756, 77.5946)
		loc.OfficeID = "HQ"
		_, err := evaluateLocation(true, officesFixture(), loc, "Check-in")
		require.Error(t, err)

		var gfe *GeofenceError
		require.True(t, errors.As(err, &gfe))
		assert.Equal(t, GeofenceOutOfRange, gfe.Reason)
		assert.Equal(t, "Headquarters", gfe.OfficeName)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.Contains(t, gfe.Message, "Check-in denied. You are")
		assert.Contains(t, gfe.Message, "allowed 300m")
	})

	t.Run("unknown office", func(t *testing.T) {
		loc := coord(12.9716, 77.5946)
		loc.OfficeID = "NOPE"
		_, err := evaluateLocation(true, officesFixture(), loc, "Check-in")
		require.Error(t, err)

		var gfe *GeofenceError
		require.True(t, errors.As(err, &gfe))
		assert.Equal(t, GeofenceOfficeNotFound, gfe.Reason)
		assert.Equal(t, "Selected office branch not found", gfe.Message)
	})
}

func TestEvaluateLocationBoundaryInclusive(t *testing.T) {
	// The boundary belongs to the fence: a point at exactly radius meters
	// passes, one meter less and it is out of range.
	point := coord(12.9736, 77.5946)
	point.OfficeID = "EDGE"
	dist := haversineDistance(*point.Lat, *point.Lng, 12.9716, 77.5946)

	office := model.OfficeBranch{
		OfficeID: "EDGE", OfficeName: "Edge Office",
		Lat: 12.9716, Lng: 77.5946, IsActive: true,
	}

	t.Run("at exactly the radius", func(t *testing.T) {
		office.RadiusMeters = dist
		meta, err := evaluateLocation(true, []model.OfficeBranch{office}, point, "Check-in")
		require.NoError(t, err)
		assert.Equal(t, "EDGE", meta.OfficeID)
	})

	t.Run("one meter inside the distance", func(t *testing.T) {
		office.RadiusMeters = dist - 1
		_, err := evaluateLocation(true, []model.OfficeBranch{office}, point, "Check-in")
		require.Error(t, err)

		var gfe *GeofenceError
		require.True(t, errors.As(err, &gfe))
		assert.Equal(t, GeofenceOutOfRange, gfe.Reason)
	})
}

func TestEvaluateLocationAutoDetect(t *testing.T) {
	t.Run("picks nearest office", func(t *testing.T) {
		meta, err := evaluateLocation(true, officesFixture(), coord(13.0827, 80.2707), "Check-out")
		require.NoError(t, err)
		assert.Equal(t, "BR1", meta.OfficeID)
		assert.Equal(t, "North Branch", meta.OfficeName)
	})

	t.Run("nearest office out of range", func(t *testing.T) {
		// Between the two offices, hundreds of km from each
		_, err := evaluateLocation(true, officesFixture(), coord(13.0, 79.0), "Check-out")
		require.Error(t, err)

		var gfe *GeofenceError
		require.True(t, errors.As(err, &gfe))
		assert.Equal(t, GeofenceOutOfRange, gfe.Reason)
		assert.Contains(t, gfe.Message, "Check-out denied. Not in any office area")
	})
}

func TestEvaluateLocationDefaultRadius(t *testing.T) {
	offices := []model.OfficeBranch{
		{OfficeID: "Z", OfficeName: "Zero Radius", Lat: 12.9716, Lng: 77.5946, RadiusMeters: 0, IsActive: true},
	}

	// ~222m away falls within the 300m default
	loc := coord(12.9736, 77.5946)
	loc.OfficeID = "Z"
	meta, err := evaluateLocation(true, offices, loc, "Check-in")
	require.NoError(t, err)
	assert.Equal(t, "Z", meta.OfficeID)
}

func TestOfficeFromRequest(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		office := officeFromRequest(&model.OfficeRequest{OfficeID: "HQ", OfficeName: "Headquarters"})
		assert.Equal(t, float64(model.DefaultOfficeRadiusMeters), office.RadiusMeters)
		assert.True(t, office.IsActive)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		inactive := false
		office := officeFromRequest(&model.OfficeRequest{
			OfficeID: "HQ", OfficeName: "Headquarters", RadiusMeters: 120, IsActive: &inactive,
		})
		assert.Equal(t, 120.0, office.RadiusMeters)
		assert.False(t, office.IsActive)
	})
}
