package projection

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZone_EPSG(t *testing.T) {
	tests := []struct {
		zone Zone
		code int
		str  string
	}{
		{Zone{Number: 30, North: true}, 32630, "EPSG:32630"},
		{Zone{Number: 30, North: false}, 32730, "EPSG:32730"},
		{Zone{Number: 5, North: true}, 32605, "EPSG:32605"},
		{Zone{Number: 60, North: false}, 32760, "EPSG:32760"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.zone.EPSG())
			assert.Equal(t, tt.str, tt.zone.String())
		})
	}
}

func TestZone_Validate(t *testing.T) {
	assert.NoError(t, Zone{Number: 1}.Validate())
	assert.NoError(t, Zone{Number: 60}.Validate())

	err := Zone{Number: 0}.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidZone))

	err = Zone{Number: 61}.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidZone))
}

func TestToGeographic_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		easting  float64
		northing float64
		zone     Zone
		lat      float64
		lon      float64
	}{
		{
			name:     "eiffel tower",
			easting:  448251.795,
			northing: 5411932.678,
			zone:     Zone{Number: 31, North: true},
			lat:      48.8582,
			lon:      2.2945,
		},
		{
			name:     "equator on central meridian north",
			easting:  500000,
			northing: 0,
			zone:     Zone{Number: 30, North: true},
			lat:      0,
			lon:      -3,
		},
		{
			name:     "equator on central meridian south",
			easting:  500000,
			northing: 10000000,
			zone:     Zone{Number: 30, North: false},
			lat:      0,
			lon:      -3,
		},
		{
			name:     "three degrees east of meridian zone 29",
			easting:  766962.1202,
			northing: 4099080.6934,
			zone:     Zone{Number: 29, North: true},
			lat:      37.0,
			lon:      -6.0,
		},
		{
			name:     "zone edge zone 30",
			easting:  726368.9698,
			northing: 4820150.3994,
			zone:     Zone{Number: 30, North: true},
			lat:      43.5,
			lon:      -0.2,
		},
		{
			name:     "high latitude zone 30",
			easting:  389339.5351,
			northing: 7768505.4523,
			zone:     Zone{Number: 30, North: true},
			lat:      70.0,
			lon:      -5.9,
		},
		{
			name:     "eighty north zone 31",
			easting:  490307.2515,
			northing: 8881627.4663,
			zone:     Zone{Number: 31, North: true},
			lat:      80.0,
			lon:      2.5,
		},
		{
			name:     "sydney zone 56 south",
			easting:  333568.9410,
			northing: 6247473.3368,
			zone:     Zone{Number: 56, North: false},
			lat:      -33.9,
			lon:      151.2,
		},
		{
			name:     "central meridian zone 1",
			easting:  500000,
			northing: 0,
			zone:     Zone{Number: 1, North: true},
			lat:      0,
			lon:      -177,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ToGeographic(tt.easting, tt.northing, tt.zone)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, lat, 1e-6)
			assert.InDelta(t, tt.lon, lon, 1e-6)
		})
	}
}

func TestToGeographic_CadizCentre(t *testing.T) {
	// Map centre used for the Cádiz registry extract.
	lat, lon, err := ToGeographic(205812.726053923, 4047326.36246818, Zone{Number: 30, North: true})
	require.NoError(t, err)
	assert.InDelta(t, 36.526097, lat, 1e-5)
	assert.InDelta(t, -6.285554, lon, 1e-5)
}

func TestRoundTrip(t *testing.T) {
	zones := []Zone{
		{Number: 29, North: true},
		{Number: 30, North: true},
		{Number: 31, North: true},
		{Number: 56, North: false},
		{Number: 18, North: false},
	}
	offsets := []float64{-2.9, -1.5, 0, 0.7, 2.9}
	lats := []float64{0.5, 12.25, 36.5, 48.85, 71.0}

	for _, z := range zones {
		cm := float64((z.Number-1)*6 - 180 + 3)
		for _, absLat := range lats {
			lat := absLat
			if !z.North {
				lat = -absLat
			}
			for _, off := range offsets {
				lon := cm + off
				e, n, err := FromGeographic(lat, lon, z)
				require.NoError(t, err)

				gotLat, gotLon, err := ToGeographic(e, n, z)
				require.NoError(t, err)
				assert.InDelta(t, lat, gotLat, 1e-9, "zone %s lat %v lon %v", z, lat, lon)
				assert.InDelta(t, lon, gotLon, 1e-9, "zone %s lat %v lon %v", z, lat, lon)
			}
		}
	}
}

func TestFromGeographic_CentralMeridian(t *testing.T) {
	e, n, err := FromGeographic(0, -3, Zone{Number: 30, North: true})
	require.NoError(t, err)
	assert.InDelta(t, 500000, e, 1e-6)
	assert.InDelta(t, 0, n, 1e-6)

	e, n, err = FromGeographic(0, -3, Zone{Number: 30, North: false})
	require.NoError(t, err)
	assert.InDelta(t, 500000, e, 1e-6)
	assert.InDelta(t, 10000000, n, 1e-6)
}

func TestToGeographic_Errors(t *testing.T) {
	_, _, err := ToGeographic(500000, 0, Zone{Number: 0, North: true})
	assert.True(t, eris.Is(err, ErrInvalidZone))

	_, _, err = ToGeographic(math.NaN(), 0, Zone{Number: 30, North: true})
	assert.Error(t, err)

	_, _, err = ToGeographic(500000, math.Inf(1), Zone{Number: 30, North: true})
	assert.True(t, eris.Is(err, ErrOutOfRange))
}

func TestToGeographic_OutOfRange(t *testing.T) {
	zone := Zone{Number: 30, North: true}
	tests := []struct {
		name     string
		easting  float64
		northing float64
	}{
		{"huge easting", 1e10, 4047326},
		{"negative easting", -1, 4047326},
		{"easting past the zone", 1000001, 4047326},
		{"huge northing", 205812, 1e10},
		{"negative northing", 205812, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ToGeographic(tt.easting, tt.northing, zone)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrOutOfRange))
			assert.Zero(t, lat)
			assert.Zero(t, lon)
		})
	}

	// Extremes of the accepted extent still project to finite values.
	for _, e := range []float64{0, 1000000} {
		lat, lon, err := ToGeographic(e, 4047326, zone)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(lat) || math.IsNaN(lon))
	}
}

func TestFromGeographic_Errors(t *testing.T) {
	_, _, err := FromGeographic(91, 0, Zone{Number: 30, North: true})
	assert.Error(t, err)

	_, _, err = FromGeographic(0, 0, Zone{Number: 99, North: true})
	assert.True(t, eris.Is(err, ErrInvalidZone))
}

func TestPoint(t *testing.T) {
	p := Point(36.5, -6.3)
	assert.Equal(t, SRIDWGS84, p.SRID())
	assert.InDelta(t, -6.3, p.X(), 1e-12)
	assert.InDelta(t, 36.5, p.Y(), 1e-12)
}
