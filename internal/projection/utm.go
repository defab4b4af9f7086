// Package projection converts UTM grid coordinates to WGS84 geographic
// coordinates and back.
package projection

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Sentinel errors returned by the projection functions.
var (
	// ErrInvalidZone is returned for zone numbers outside 1-60.
	ErrInvalidZone = eris.New("projection: invalid UTM zone")
	// ErrOutOfRange is returned for coordinates that cannot belong to the zone.
	ErrOutOfRange = eris.New("projection: coordinate out of range")
)

// SRIDWGS84 is the EPSG code of the geographic output system.
const SRIDWGS84 = 4326

// WGS84 ellipsoid and UTM grid constants.
const (
	semiMajor     = 6378137.0
	flattening    = 1 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only

	// Accepted grid extent for ToGeographic.
	maxEastingOffset = 500000.0
	maxNorthing      = 10000000.0

	convergence = 1e-12
	maxIter     = 20
)

// Zone identifies a UTM zone and hemisphere.
type Zone struct {
	Number int
	North  bool
}

// Validate checks the zone number range.
func (z Zone) Validate() error {
	if z.Number < 1 || z.Number > 60 {
		return eris.Wrapf(ErrInvalidZone, "zone %d", z.Number)
	}
	return nil
}

// EPSG returns the numeric EPSG code of the zone's projected system:
// 326zz for the northern hemisphere and 327zz for the southern.
func (z Zone) EPSG() int {
	if z.North {
		return 32600 + z.Number
	}
	return 32700 + z.Number
}

// String returns the code in "EPSG:32630" form.
func (z Zone) String() string {
	prefix := 326
	if !z.North {
		prefix = 327
	}
	return fmt.Sprintf("EPSG:%d%02d", prefix, z.Number)
}

// centralMeridian returns the zone's central meridian in radians.
func (z Zone) centralMeridian() float64 {
	return degToRad(float64((z.Number-1)*6 - 180 + 3))
}

// Series coefficients of the Krüger expansion to sixth order in the third
// flattening n, computed once.
var (
	eccentricity float64
	rectifyingA  float64
	alpha        [6]float64
	beta         [6]float64
)

func init() {
	f := flattening
	eccentricity = math.Sqrt(f * (2 - f))

	n := f / (2 - f)
	n2, n3, n4, n5, n6 := n*n, n*n*n, n*n*n*n, n*n*n*n*n, n*n*n*n*n*n

	rectifyingA = semiMajor / (1 + n) * (1 + n2/4 + n4/64 + n6/256)

	alpha = [6]float64{
		n/2 - 2*n2/3 + 5*n3/16 + 41*n4/180 - 127*n5/288 + 7891*n6/37800,
		13*n2/48 - 3*n3/5 + 557*n4/1440 + 281*n5/630 - 1983433*n6/1935360,
		61*n3/240 - 103*n4/140 + 15061*n5/26880 + 167603*n6/181440,
		49561*n4/161280 - 179*n5/168 + 6601661*n6/7257600,
		34729*n5/80640 - 3418889*n6/1995840,
		212378941 * n6 / 319334400,
	}
	beta = [6]float64{
		n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
		n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
		17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
		4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
		4583*n5/161280 - 108847*n6/3991680,
		20648693 * n6 / 638668800,
	}
}

// ToGeographic converts an easting/northing pair in the given zone to WGS84
// latitude and longitude in degrees.
func ToGeographic(easting, northing float64, zone Zone) (lat, lon float64, err error) {
	if err := zone.Validate(); err != nil {
		return 0, 0, err
	}
	if math.IsNaN(easting) || math.IsNaN(northing) || math.IsInf(easting, 0) || math.IsInf(northing, 0) {
		return 0, 0, eris.Wrapf(ErrOutOfRange, "non-finite coordinate (%v, %v)", easting, northing)
	}
	if math.Abs(easting-falseEasting) > maxEastingOffset || northing < 0 || northing > maxNorthing {
		return 0, 0, eris.Wrapf(ErrOutOfRange, "easting %v northing %v outside %s", easting, northing, zone)
	}

	x := easting - falseEasting
	y := northing
	if !zone.North {
		y -= falseNorthing
	}

	eta := x / (scaleFactor * rectifyingA)
	xi := y / (scaleFactor * rectifyingA)

	xiP, etaP := xi, eta
	for j := 1; j <= 6; j++ {
		k := float64(2 * j)
		xiP -= beta[j-1] * math.Sin(k*xi) * math.Cosh(k*eta)
		etaP -= beta[j-1] * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	sinhEtaP := math.Sinh(etaP)
	sinXiP, cosXiP := math.Sin(xiP), math.Cos(xiP)

	tauP := sinXiP / math.Sqrt(sinhEtaP*sinhEtaP+cosXiP*cosXiP)

	e := eccentricity
	e2 := e * e
	tau := tauP
	for i := 0; i < maxIter; i++ {
		sigma := math.Sinh(e * math.Atanh(e*tau/math.Sqrt(1+tau*tau)))
		tauI := tau*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+tau*tau)
		delta := (tauP - tauI) / math.Sqrt(1+tauI*tauI) *
			(1 + (1-e2)*tau*tau) / ((1 - e2) * math.Sqrt(1+tau*tau))
		tau += delta
		if math.Abs(delta) <= convergence {
			break
		}
	}

	phi := math.Atan(tau)
	lambda := math.Atan2(sinhEtaP, cosXiP) + zone.centralMeridian()

	lat, lon = radToDeg(phi), normalizeLon(radToDeg(lambda))
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return 0, 0, eris.Wrapf(ErrOutOfRange, "easting %v northing %v do not project in %s", easting, northing, zone)
	}
	return lat, lon, nil
}

// FromGeographic converts WGS84 latitude/longitude in degrees to
// easting/northing in the given zone. The zone is not derived from the
// longitude, so points just outside it are still projected.
func FromGeographic(lat, lon float64, zone Zone) (easting, northing float64, err error) {
	if err := zone.Validate(); err != nil {
		return 0, 0, err
	}
	if lat < -90 || lat > 90 {
		return 0, 0, eris.Errorf("projection: latitude %v out of range", lat)
	}

	phi := degToRad(lat)
	lambda := degToRad(lon) - zone.centralMeridian()

	e := eccentricity
	tau := math.Tan(phi)
	sigma := math.Sinh(e * math.Atanh(e*tau/math.Sqrt(1+tau*tau)))
	tauP := tau*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+tau*tau)

	cosLambda := math.Cos(lambda)
	xiP := math.Atan2(tauP, cosLambda)
	etaP := math.Asinh(math.Sin(lambda) / math.Sqrt(tauP*tauP+cosLambda*cosLambda))

	xi, eta := xiP, etaP
	for j := 1; j <= 6; j++ {
		k := float64(2 * j)
		xi += alpha[j-1] * math.Sin(k*xiP) * math.Cosh(k*etaP)
		eta += alpha[j-1] * math.Cos(k*xiP) * math.Sinh(k*etaP)
	}

	easting = scaleFactor*rectifyingA*eta + falseEasting
	northing = scaleFactor * rectifyingA * xi
	if !zone.North {
		northing += falseNorthing
	}
	return easting, northing, nil
}

// Point builds a WGS84 point geometry with X as longitude and Y as latitude.
func Point(lat, lon float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(SRIDWGS84)
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
