// Package mapdoc builds the Leaflet web map of rental markers and writes it
// as a single static HTML file.
package mapdoc

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/rta2map/internal/rental"
)

// PopupMaxWidth is the maximum popup width in pixels.
const PopupMaxWidth = 300

// View is the initial map viewport.
type View struct {
	Lat   float64
	Lon   float64
	Zoom  int
	Tiles string // basemap name, see Basemaps
	Title string
}

// LegendEntry is one swatch of the legend.
type LegendEntry struct {
	Color string
	Label string
}

// DefaultLegend lists the marker categories drawn on the map. It is the same
// for every run, whatever records end up on the map.
func DefaultLegend() []LegendEntry {
	return []LegendEntry{
		{Color: rental.ColorRed, Label: "Vivienda de Uso Turístico"},
		{Color: rental.ColorBlack, Label: "Apartamento Turístico"},
	}
}

// Document is an in-memory map: one view, one legend and the markers added
// so far.
type Document struct {
	view    View
	basemap Basemap
	legend  []LegendEntry
	markers []rental.Marker
}

// New creates an empty document.
func New(view View) (*Document, error) {
	if view.Tiles == "" {
		view.Tiles = DefaultBasemap
	}
	bm, ok := Basemaps[view.Tiles]
	if !ok {
		return nil, eris.Errorf("mapdoc: unknown basemap %q", view.Tiles)
	}
	if view.Title == "" {
		view.Title = "RTA"
	}
	return &Document{
		view:    view,
		basemap: bm,
		legend:  DefaultLegend(),
	}, nil
}

// Add appends m if it is visible and reports whether it was kept.
func (d *Document) Add(m rental.Marker) bool {
	if !m.Visible() {
		return false
	}
	d.markers = append(d.markers, m)
	return true
}

// Markers returns the markers on the map.
func (d *Document) Markers() []rental.Marker {
	return d.markers
}

// Len returns the number of markers on the map.
func (d *Document) Len() int {
	return len(d.markers)
}

// FeatureCollection returns the markers as GeoJSON point features.
func (d *Document) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(d.markers))}
	for _, m := range d.markers {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       m.Code,
			Geometry: m.Position,
			Properties: map[string]interface{}{
				"code":     m.Code,
				"name":     m.Name,
				"category": m.Category.String(),
				"color":    m.Style.Color,
				"radius":   m.Style.Radius,
				"popup":    m.Popup,
			},
		})
	}
	return fc
}

// GeoJSON encodes the markers as a GeoJSON FeatureCollection.
func (d *Document) GeoJSON() ([]byte, error) {
	data, err := d.FeatureCollection().MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "mapdoc: encode geojson")
	}
	return data, nil
}

type pageData struct {
	Title         string
	Lat           float64
	Lon           float64
	Zoom          int
	TileURL       string
	Attribution   string
	Subdomains    string
	Legend        []LegendEntry
	Markers       template.JS
	PopupMaxWidth int
}

// Render writes the HTML page to w.
func (d *Document) Render(w io.Writer) error {
	features, err := d.GeoJSON()
	if err != nil {
		return err
	}

	data := pageData{
		Title:         d.view.Title,
		Lat:           d.view.Lat,
		Lon:           d.view.Lon,
		Zoom:          d.view.Zoom,
		TileURL:       d.basemap.URL,
		Attribution:   d.basemap.Attribution,
		Subdomains:    d.basemap.Subdomains,
		Legend:        d.legend,
		Markers:       template.JS(features), //nolint:gosec // json.Marshal output, HTML-escaped
		PopupMaxWidth: PopupMaxWidth,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return eris.Wrap(err, "mapdoc: render page")
	}
	return nil
}

// WriteFile renders the page and replaces path with it. The page is written
// to a temporary file in the same directory and renamed into place, so a
// failed render leaves any existing file untouched.
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rta2map-*.html")
	if err != nil {
		return eris.Wrapf(err, "mapdoc: create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "mapdoc: write page")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "mapdoc: close page")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "mapdoc: chmod page")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "mapdoc: rename to %s", path)
	}

	zap.L().Info("map saved",
		zap.String("component", "mapdoc"),
		zap.String("path", path),
		zap.Int("markers", len(d.markers)),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}
