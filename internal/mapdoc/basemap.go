package mapdoc

// Basemap is a raster tile source.
type Basemap struct {
	URL         string
	Attribution string
	Subdomains  string
}

// DefaultBasemap is the light CARTO basemap.
const DefaultBasemap = "positron"

// Basemaps lists the tile sources selectable with the tiles config key.
var Basemaps = map[string]Basemap{
	"positron": {
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		Subdomains:  "abcd",
	},
	"osm": {
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		Subdomains:  "abc",
	},
}
