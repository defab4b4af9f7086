package rental

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/rta2map/internal/projection"
)

// ErrCoordinateParse is returned when a coordinate field is not a number.
var ErrCoordinateParse = eris.New("rental: malformed coordinate")

// Marker colors.
const (
	ColorBlue  = "blue"
	ColorRed   = "red"
	ColorBlack = "black"
)

// Style is the visual style of a marker.
type Style struct {
	Color  string
	Radius float64
}

// Marker is a classified record ready to be drawn.
type Marker struct {
	Code     string
	Name     string
	Category Category
	Position *geom.Point
	Style    Style
	Popup    string
}

// Lat returns the marker latitude in degrees.
func (m Marker) Lat() float64 { return m.Position.Y() }

// Lon returns the marker longitude in degrees.
func (m Marker) Lon() float64 { return m.Position.X() }

// Visible reports whether the marker belongs on the map. Blue markers
// (residential rentals of rooms rather than whole dwellings) are built but
// kept off the map.
func (m Marker) Visible() bool {
	return m.Style.Color != ColorBlue
}

// StyleFor returns the style of a category/group pair. The first matching
// rule wins: residential non-complete is blue, residential complete is red,
// apartments are black regardless of group.
func StyleFor(c Category, g Group, radius float64) (Style, bool) {
	switch c {
	case CategoryResidential:
		if g != GroupComplete {
			return Style{Color: ColorBlue, Radius: radius}, true
		}
		return Style{Color: ColorRed, Radius: radius}, true
	case CategoryApartment:
		return Style{Color: ColorBlack, Radius: radius}, true
	default:
		return Style{}, false
	}
}

// ParseCoordinate parses a registry coordinate, which uses a decimal comma.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrapf(ErrCoordinateParse, "%q", s)
	}
	return v, nil
}

// Classify builds the marker for an accepted record, projecting its UTM
// coordinates in zone.
func Classify(r Record, zone projection.Zone, radius float64) (Marker, error) {
	style, ok := StyleFor(r.Category, r.Group, radius)
	if !ok {
		return Marker{}, eris.Errorf("rental: record %s has unmapped object type %q", r.Code.Text, r.ObjectType.Text)
	}

	x, err := ParseCoordinate(r.CoordX.Text)
	if err != nil {
		return Marker{}, eris.Wrapf(err, "record %s: COORD_X", r.Code.Text)
	}
	y, err := ParseCoordinate(r.CoordY.Text)
	if err != nil {
		return Marker{}, eris.Wrapf(err, "record %s: COORD_Y", r.Code.Text)
	}

	lat, lon, err := projection.ToGeographic(x, y, zone)
	if err != nil {
		return Marker{}, eris.Wrapf(err, "record %s: project", r.Code.Text)
	}

	name := r.DisplayName()
	return Marker{
		Code:     r.Code.Text,
		Name:     name,
		Category: r.Category,
		Position: projection.Point(lat, lon),
		Style:    style,
		Popup:    PopupHTML(r.Code.Text, name),
	}, nil
}

// PopupHTML renders the popup document for a marker.
func PopupHTML(code, name string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"es\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("<title>VUT</title>\n</head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(code) + "</h1>\n")
	b.WriteString("<p>" + html.EscapeString(name) + "</p>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
