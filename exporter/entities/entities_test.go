package entities

import (
	"encoding/json"
	"testing"
)

var ring = [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}

func validJob(t *testing.T) Job {
	region, err := NewRegion(ring)
	if err != nil {
		t.Fatal(err)
	}
	return Job{
		RegionLabel: "Test_Area",
		Region:      region,
		Window:      TimeWindow{Start: MustParseDate("2021-08-01"), End: MustParseDate("2021-10-31")},
		Collection:  "LANDSAT/LC08/C01/T1_TOA",
		Folder:      "Landsat_8_Data",
		Scale:       30,
		Properties:  []string{"K1_CONSTANT_BAND_10"},
	}
}

func TestValidate(t *testing.T) {
	if err := validJob(t).Validate(); err != nil {
		t.Error(err)
	}

	tests := map[string]func(j *Job){
		"label":      func(j *Job) { j.RegionLabel = "Lake Champlain" },
		"region":     func(j *Job) { j.Region = Region{} },
		"window":     func(j *Job) { j.Window.Start, j.Window.End = j.Window.End, j.Window.Start },
		"no start":   func(j *Job) { j.Window.Start = Date{} },
		"collection": func(j *Job) { j.Collection = "" },
		"folder":     func(j *Job) { j.Folder = "" },
		"scale":      func(j *Job) { j.Scale = 0 },
	}
	for name, f := range tests {
		j := validJob(t)
		f(&j)
		if err := j.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	j := validJob(t)
	j.Window.End = j.Window.Start
	if err := j.Validate(); err != nil {
		t.Errorf("single-day window must be accepted: %v", err)
	}
}

func TestNewRegion(t *testing.T) {
	if _, err := NewRegion([][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}); err == nil {
		t.Errorf("open ring must be rejected")
	}
	r, err := NewRegion(ring)
	if err != nil {
		t.Fatal(err)
	}
	if r.WKT() == "" {
		t.Errorf("empty wkt")
	}
	cp := r.Ring()
	cp[0][0] = 42
	if r.Polygon[0][0][0] != 0 {
		t.Errorf("Ring must return a copy")
	}
}

func TestJobJSON(t *testing.T) {
	j := validJob(t)
	b, err := json.Marshal(j)
	if err != nil {
		t.Fatal(err)
	}
	var j2 Job
	if err := json.Unmarshal(b, &j2); err != nil {
		t.Fatalf("%v: %s", err, b)
	}
	if j2.Window.String() != "2021-08-01..2021-10-31" {
		t.Errorf("unexpected window %s", j2.Window)
	}
	if len(j2.Region.Ring()) != len(ring) {
		t.Errorf("unexpected region %v", j2.Region)
	}
	if err := j2.Validate(); err != nil {
		t.Error(err)
	}
}

func TestExclusiveEnd(t *testing.T) {
	w := TimeWindow{Start: MustParseDate("2021-10-01"), End: MustParseDate("2021-12-31")}
	if e := w.ExclusiveEnd().Format(DateFormat); e != "2022-01-01" {
		t.Errorf("expected 2022-01-01, got %s", e)
	}
}
