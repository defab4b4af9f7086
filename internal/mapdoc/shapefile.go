package mapdoc

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rta2map/internal/rental"
)

// wgs84PRJ is the ESRI WKT written to the .prj sidecar.
const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Shapefile attribute columns, in order.
var shapefileFields = []shp.Field{
	shp.StringField("CODE", 32),
	shp.StringField("NAME", 128),
	shp.StringField("COLOR", 8),
	shp.StringField("CATEGORY", 16),
}

// WriteShapefile writes markers as a WGS84 POINT shapefile. The .shp
// extension is added to path when missing; .shx, .dbf, .prj and .cpg files
// are written next to it. Attribute values longer than their column are cut.
func WriteShapefile(path string, markers []rental.Marker) error {
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		path += ".shp"
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "mapdoc: create shapefile %s", path)
	}
	// Close needs a dbf, so it is only deferred once SetFields succeeded.
	if err := w.SetFields(shapefileFields); err != nil {
		return eris.Wrapf(err, "mapdoc: create attribute table for %s", path)
	}
	defer w.Close()

	for _, m := range markers {
		row := int(w.Write(&shp.Point{X: m.Lon(), Y: m.Lat()}))
		values := []string{m.Code, m.Name, m.Style.Color, m.Category.String()}
		for i, v := range values {
			v = truncateField(v, int(shapefileFields[i].Size))
			if err := w.WriteAttribute(row, i, v); err != nil {
				return eris.Wrapf(err, "mapdoc: write attribute %s of %s", shapefileFields[i].String(), m.Code)
			}
		}
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if err := os.WriteFile(base+".prj", []byte(wgs84PRJ), 0o644); err != nil {
		return eris.Wrap(err, "mapdoc: write projection sidecar")
	}
	if err := os.WriteFile(base+".cpg", []byte("UTF-8"), 0o644); err != nil {
		return eris.Wrap(err, "mapdoc: write codepage sidecar")
	}

	zap.L().Info("shapefile saved",
		zap.String("component", "mapdoc"),
		zap.String("path", path),
		zap.Int("points", len(markers)),
	)
	return nil
}

// truncateField cuts s to at most size bytes without splitting a UTF-8
// sequence. dBASE character fields are fixed width.
func truncateField(s string, size int) string {
	if len(s) <= size {
		return s
	}
	for size > 0 && !utf8.RuneStart(s[size]) {
		size--
	}
	return s[:size]
}
