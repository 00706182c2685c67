package domain

import (
	"strings"
	"time"
)

// Continents lists the page's continental tables in document order. The
// parser relies on this order to label rows from consecutive tables.
var Continents = []string{
	"Africa",
	"Asia",
	"Europe",
	"North America",
	"Oceania",
	"South America",
}

// TemperatureRow is one parsed source-table row before the coordinate
// join: a city's monthly means in °C with nil marking missing months.
type TemperatureRow struct {
	Continent string
	Country   string
	City      string
	Months    [12]*float64
	YearlyAvg *float64
}

// ID returns the row's deterministic record ID.
func (r TemperatureRow) ID() string {
	return RecordID(r.Continent, r.Country, r.City)
}

// MonthCount reports how many of the twelve months carry a value.
func (r TemperatureRow) MonthCount() int {
	n := 0
	for _, m := range r.Months {
		if m != nil {
			n++
		}
	}
	return n
}

// CitySummary is one line of the hottest/coldest report: a ranked city
// with its yearly average.
type CitySummary struct {
	Continent string
	Country   string
	City      string
	YearlyAvg float64
}

// Record joins the row with coordinates into an exportable CityRecord.
func (r TemperatureRow) Record(lat, lng float64) CityRecord {
	return CityRecord{
		City:      r.City,
		Country:   r.Country,
		Continent: r.Continent,
		Lat:       &lat,
		Lng:       &lng,
		Jan:       r.Months[0],
		Feb:       r.Months[1],
		Mar:       r.Months[2],
		Apr:       r.Months[3],
		May:       r.Months[4],
		Jun:       r.Months[5],
		Jul:       r.Months[6],
		Aug:       r.Months[7],
		Sep:       r.Months[8],
		Oct:       r.Months[9],
		Nov:       r.Months[10],
		Dec:       r.Months[11],
		YearlyAvg: r.YearlyAvg,
	}
}

// CityRecord is one entry of the exported dataset: a city's monthly mean
// temperatures in °C plus its coordinates. Nullable source columns are
// pointers; nil means the source had no value, including coordinates a
// record never got. Records are immutable after load.
type CityRecord struct {
	City      string   `json:"city" validate:"required"`
	Country   string   `json:"country" validate:"required"`
	Continent string   `json:"continent" validate:"required"`
	Jan       *float64 `json:"jan" validate:"omitempty,min=-95,max=60"`
	Feb       *float64 `json:"feb" validate:"omitempty,min=-95,max=60"`
	Mar       *float64 `json:"mar" validate:"omitempty,min=-95,max=60"`
	Apr       *float64 `json:"apr" validate:"omitempty,min=-95,max=60"`
	May       *float64 `json:"may" validate:"omitempty,min=-95,max=60"`
	Jun       *float64 `json:"jun" validate:"omitempty,min=-95,max=60"`
	Jul       *float64 `json:"jul" validate:"omitempty,min=-95,max=60"`
	Aug       *float64 `json:"aug" validate:"omitempty,min=-95,max=60"`
	Sep       *float64 `json:"sep" validate:"omitempty,min=-95,max=60"`
	Oct       *float64 `json:"oct" validate:"omitempty,min=-95,max=60"`
	Nov       *float64 `json:"nov" validate:"omitempty,min=-95,max=60"`
	Dec       *float64 `json:"dec" validate:"omitempty,min=-95,max=60"`
	YearlyAvg *float64 `json:"yearly_avg" validate:"omitempty,min=-95,max=60"`
	Lat       *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng       *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// ID returns the record's deterministic ID.
func (r CityRecord) ID() string {
	return RecordID(r.Continent, r.Country, r.City)
}

// HasCoordinates reports whether the record carries a usable position:
// both coordinates present and within range.
func (r CityRecord) HasCoordinates() bool {
	if r.Lat == nil || r.Lng == nil {
		return false
	}
	return *r.Lat >= -90 && *r.Lat <= 90 && *r.Lng >= -180 && *r.Lng <= 180
}

// Value returns the record's temperature for the given selector and
// whether a value is present. Missing months report false, never zero.
func (r CityRecord) Value(m Month) (float64, bool) {
	var p *float64
	switch m {
	case Yearly:
		p = r.YearlyAvg
	case January:
		p = r.Jan
	case February:
		p = r.Feb
	case March:
		p = r.Mar
	case April:
		p = r.Apr
	case May:
		p = r.May
	case June:
		p = r.Jun
	case July:
		p = r.Jul
	case August:
		p = r.Aug
	case September:
		p = r.Sep
	case October:
		p = r.Oct
	case November:
		p = r.Nov
	case December:
		p = r.Dec
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// MonthValues returns the twelve monthly fields in calendar order.
func (r CityRecord) MonthValues() [12]*float64 {
	return [12]*float64{
		r.Jan, r.Feb, r.Mar, r.Apr, r.May, r.Jun,
		r.Jul, r.Aug, r.Sep, r.Oct, r.Nov, r.Dec,
	}
}

// Dataset is the ordered city collection the renderer works from.
// Loaded once per process and read-only afterwards.
type Dataset struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Cities      []CityRecord `json:"cities"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Cities)
}

// Find returns the first record matching city and country,
// case-insensitively. Country may be empty to match on city alone.
func (d *Dataset) Find(city, country string) (CityRecord, bool) {
	if d == nil {
		return CityRecord{}, false
	}
	for _, rec := range d.Cities {
		if !strings.EqualFold(rec.City, city) {
			continue
		}
		if country != "" && !strings.EqualFold(rec.Country, country) {
			continue
		}
		return rec, true
	}
	return CityRecord{}, false
}
