package geomap

import (
	"fmt"
	"html/template"
	"strings"
)

// Marker is one pin on the rendered map.
type Marker struct {
	Lat      float64
	Lon      float64
	JobTitle string
	Company  string
	Location string
}

// Default view covers India, where the catalogue locations cluster.
const (
	defaultCenterLat = 20.5937
	defaultCenterLon = 78.9629
	defaultZoom      = 5
)

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>#map { height: 100vh; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
	attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
}).addTo(map);
{{range .Markers}}
L.marker([{{.Lat}}, {{.Lon}}]).addTo(map).bindPopup({{.Popup}});
{{end}}
</script>
</body>
</html>
`))

type markerView struct {
	Lat   float64
	Lon   float64
	Popup string
}

type mapView struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []markerView
}

// Render produces a self-contained HTML document with one pin per marker.
// Markers without coordinates must be filtered out by the caller.
func Render(markers []Marker) (string, error) {
	view := mapView{
		CenterLat: defaultCenterLat,
		CenterLon: defaultCenterLon,
		Zoom:      defaultZoom,
		Markers:   make([]markerView, len(markers)),
	}
	for i, m := range markers {
		view.Markers[i] = markerView{
			Lat:   m.Lat,
			Lon:   m.Lon,
			Popup: popupHTML(m),
		}
	}

	var b strings.Builder
	if err := mapTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render map: %w", err)
	}
	return b.String(), nil
}

// popupHTML builds the marker popup with all user-supplied fields escaped.
func popupHTML(m Marker) string {
	return fmt.Sprintf("<strong>%s</strong><br><em>%s</em><br><span>%s</span>",
		template.HTMLEscapeString(m.JobTitle),
		template.HTMLEscapeString(m.Company),
		template.HTMLEscapeString(m.Location),
	)
}
