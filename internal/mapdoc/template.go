package mapdoc

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; width: 100%; margin: 0; padding: 0; }
.legend {
    position: fixed;
    bottom: 50px;
    left: 50px;
    width: 250px;
    height: auto;
    padding: 10px;
    background: rgba(255, 255, 255, 0.85);
    border: 2px solid grey;
    z-index: 1000;
    font-size: 14px;
}
.legend h4 { margin: 0; padding: 0; }
.legend div { margin-bottom: 5px; }
.circle {
    height: 12px;
    width: 12px;
    border-radius: 50%;
    display: inline-block;
    margin-right: 5px;
}
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
<h4>Leyenda</h4>
{{- range .Legend}}
<div><span class="circle" style="background: {{.Color}};"></span>{{.Label}}</div>
{{- end}}
</div>
<script>
var map = L.map("map").setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
L.tileLayer({{.TileURL}}, {
    attribution: {{.Attribution}},
    subdomains: {{.Subdomains}},
    maxZoom: 20
}).addTo(map);
var markers = {{.Markers}};
L.geoJSON(markers, {
    pointToLayer: function (feature, latlng) {
        var p = feature.properties;
        return L.circleMarker(latlng, {
            radius: p.radius,
            color: p.color,
            fill: true,
            fillColor: p.color,
            fillOpacity: 1.0
        });
    },
    onEachFeature: function (feature, layer) {
        layer.bindPopup(feature.properties.popup, {maxWidth: {{.PopupMaxWidth}}});
    }
}).addTo(map);
</script>
</body>
</html>
`))
