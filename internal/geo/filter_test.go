package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestInMainlandBBox(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"paris", 48.85, 2.35, true},
		{"reunion", -21.1, 55.5, false},
		{"guadeloupe", 16.25, -61.55, false},
		{"south edge inclusive", 41.0, 2.0, true},
		{"north edge inclusive", 52.0, 2.0, true},
		{"west edge inclusive", 45.0, -6.0, true},
		{"east edge inclusive", 45.0, 10.0, true},
		{"just outside south", 40.999, 2.0, false},
	}
	for _, c := range cases {
		if got := InMainlandBBox(c.lat, c.lng); got != c.want {
			t.Errorf("%s: InMainlandBBox(%v, %v) = %v, want %v", c.name, c.lat, c.lng, got, c.want)
		}
	}
}

func TestIsMainlandDept(t *testing.T) {
	for _, code := range []string{"01", "75", "2A", "2B"} {
		if !IsMainlandDept(code) {
			t.Errorf("expected %q to be mainland", code)
		}
	}
	for _, code := range []string{"971", "972", "973", "974", "976", ""} {
		if IsMainlandDept(code) {
			t.Errorf("expected %q to be overseas", code)
		}
	}
}

func TestIsOverseasCode(t *testing.T) {
	if !IsOverseasCode("249710123") {
		t.Error("expected 249710123 to be overseas")
	}
	if IsOverseasCode("200054781") {
		t.Error("expected 200054781 to be mainland")
	}
	if IsOverseasCode("") {
		t.Error("empty code should not match")
	}
}

func TestIsOverseasName(t *testing.T) {
	overseas := []string{
		"CA du Nord de la Réunion",
		"CC de Marie-Galante",
		"CA Cap Excellence",
		"CC du Sud",
	}
	for _, name := range overseas {
		if !IsOverseasName(name) {
			t.Errorf("expected %q to be overseas", name)
		}
	}
	mainland := []string{"CA du Pays Basque", "Métropole de Lyon", ""}
	for _, name := range mainland {
		if IsOverseasName(name) {
			t.Errorf("expected %q to be mainland", name)
		}
	}
}

func polygonFeature(lng, lat float64, props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{{{lng, lat}, {lng + 0.1, lat}, {lng, lat + 0.1}, {lng, lat}}})
	f.Properties = props
	return f
}

func TestMainlandFeature(t *testing.T) {
	mainland := polygonFeature(2.35, 48.85, geojson.Properties{"codgeo": "200054781", "libgeo": "Métropole du Grand Paris"})
	if !MainlandFeature(mainland) {
		t.Error("Paris-area feature should be mainland")
	}

	byName := polygonFeature(2.35, 48.85, geojson.Properties{"codgeo": "200054781", "libgeo": "CA du Nord de la Réunion"})
	if MainlandFeature(byName) {
		t.Error("overseas name must exclude even with mainland coordinates")
	}

	byCode := polygonFeature(2.35, 48.85, geojson.Properties{"codgeo": "249710045", "libgeo": "CA Quelconque"})
	if MainlandFeature(byCode) {
		t.Error("overseas code must exclude even with mainland coordinates")
	}

	byBBox := polygonFeature(55.5, -21.1, geojson.Properties{"codgeo": "200054781", "libgeo": "CA Quelconque"})
	if MainlandFeature(byBBox) {
		t.Error("out-of-bbox coordinates must exclude")
	}

	empty := geojson.NewFeature(orb.Polygon{})
	empty.Properties = geojson.Properties{"codgeo": "200054781", "libgeo": "CA Quelconque"}
	if MainlandFeature(empty) {
		t.Error("feature without coordinates must be excluded")
	}

	multi := geojson.NewFeature(orb.MultiPolygon{{{{2.35, 48.85}, {2.45, 48.85}, {2.35, 48.95}, {2.35, 48.85}}}})
	multi.Properties = geojson.Properties{"codgeo": "200054781", "libgeo": "Métropole du Grand Paris"}
	if !MainlandFeature(multi) {
		t.Error("multipolygon first vertex inside bbox should be mainland")
	}
}
