package happiness

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names of the merged happiness dataset.
const (
	CountryColumn = "Country"
	RegionColumn  = "Regional indicator"
	// IDColumn holds the numeric country code used to join rows onto the world map.
	IDColumn = "id"

	LadderScore  = "Ladder score"
	Density      = "Density (P/Km²)"
	UpperWhisker = "upperwhisker"
	LowerWhisker = "lowerwhisker"
)

// AllRegions is the region selector value that disables region filtering.
const AllRegions = "Top 20 Countries"

// MissingSentinel marks a missing happiness score in the source data.
const MissingSentinel = "mo"

// DefaultPreferences is the allow-list of indicators offered for ranking in the UI.
var DefaultPreferences = []string{
	"Ladder score",
	"Logged GDP per capita",
	"Social support",
	"Healthy life expectancy",
	"Freedom to make life choices",
	"Generosity",
	"Perceptions of corruption",
	"Population (2020)",
	"Density (P/Km²)",
	"Land Area (Km²)",
	"Migrants (net)",
	"Cost of Living Index",
	"Rent Index",
	"Cost of Living Plus Rent Index",
	"Groceries Index",
	"Restaurant Price Index",
	"Local Purchasing Power Index",
}

// IsAllRegions reports whether region selects the whole dataset.
func IsAllRegions(region string) bool {
	switch strings.TrimSpace(region) {
	case "", AllRegions, "all":
		return true
	}
	return false
}

// Value is a single indicator cell. Raw keeps the source text so that
// sentinel and non-numeric cells stay distinguishable from real numbers.
type Value struct {
	Number float64
	Raw    string
	Valid  bool
}

// ParseValue converts a raw CSV cell into a Value.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	v := Value{Raw: raw}
	if raw == "" || raw == MissingSentinel {
		return v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return v
	}
	v.Number = f
	v.Valid = true
	return v
}

// Record is one country row. Records are immutable once loaded.
type Record struct {
	Country string
	Region  string
	// ID is the geographic join key, meaningful only when HasID is true.
	ID     int
	HasID  bool
	values map[string]Value
}

// NewRecord builds a record from indicator values.
func NewRecord(country, region string, values map[string]Value) *Record {
	copied := make(map[string]Value, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Record{Country: country, Region: region, values: copied}
}

// WithID returns a copy of the record carrying the given join key.
func (r *Record) WithID(id int) *Record {
	clone := *r
	clone.ID = id
	clone.HasID = true
	return &clone
}

// Value returns the cell for indicator.
func (r *Record) Value(indicator string) (Value, bool) {
	v, ok := r.values[indicator]
	return v, ok
}

// Number returns the numeric value for indicator and whether it is usable.
func (r *Record) Number(indicator string) (float64, bool) {
	v, ok := r.values[indicator]
	if !ok || !v.Valid {
		return 0, false
	}
	return v.Number, true
}

func (r *Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Country, r.Region)
}

// Dataset is an ordered, immutable sequence of records sharing one indicator set.
type Dataset struct {
	records      []*Record
	indicators   []string
	indicatorSet map[string]struct{}
	regions      []string
	regionSet    map[string]struct{}
}

// NewDataset validates records and returns a dataset. Country names must be unique.
func NewDataset(indicators []string, records []*Record) (*Dataset, error) {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Country == "" {
			return nil, fmt.Errorf("%w: empty country name", ErrDataLoad)
		}
		if _, dup := seen[rec.Country]; dup {
			return nil, fmt.Errorf("%w: duplicate country %q", ErrDataLoad, rec.Country)
		}
		seen[rec.Country] = struct{}{}
	}

	indicatorSet := make(map[string]struct{}, len(indicators))
	for _, name := range indicators {
		indicatorSet[name] = struct{}{}
	}

	ds := &Dataset{
		indicators:   append([]string(nil), indicators...),
		indicatorSet: indicatorSet,
	}
	ds.setRecords(records)
	return ds, nil
}

func (d *Dataset) setRecords(records []*Record) {
	d.records = records
	d.regions = nil
	d.regionSet = make(map[string]struct{})
	for _, rec := range records {
		if _, ok := d.regionSet[rec.Region]; ok {
			continue
		}
		d.regionSet[rec.Region] = struct{}{}
		d.regions = append(d.regions, rec.Region)
	}
}

// derive returns a dataset with the same indicators over a subset of rows.
func (d *Dataset) derive(records []*Record) *Dataset {
	sub := &Dataset{
		indicators:   d.indicators,
		indicatorSet: d.indicatorSet,
	}
	sub.setRecords(records)
	return sub
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the rows in source order. The slice is a copy; the records are shared.
func (d *Dataset) Records() []*Record {
	return append([]*Record(nil), d.records...)
}

// Indicators returns the indicator columns in header order.
func (d *Dataset) Indicators() []string {
	return append([]string(nil), d.indicators...)
}

// HasIndicator reports whether name is one of the dataset's indicator columns.
func (d *Dataset) HasIndicator(name string) bool {
	_, ok := d.indicatorSet[name]
	return ok
}

// CheckIndicator returns ErrUnknownIndicator when name is not a column of the dataset.
func (d *Dataset) CheckIndicator(name string) error {
	if !d.HasIndicator(name) {
		return fmt.Errorf("%w: %q", ErrUnknownIndicator, name)
	}
	return nil
}

// Regions returns the distinct regions in order of first appearance.
func (d *Dataset) Regions() []string {
	return append([]string(nil), d.regions...)
}

// CheckRegion returns ErrUnknownRegion when region is neither a dataset region
// nor the all-regions selector.
func (d *Dataset) CheckRegion(region string) error {
	if IsAllRegions(region) {
		return nil
	}
	if _, ok := d.regionSet[region]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return nil
}

// Preferences intersects allowList with the dataset's indicators, keeping allowList order.
func (d *Dataset) Preferences(allowList []string) []string {
	out := make([]string, 0, len(allowList))
	for _, name := range allowList {
		if d.HasIndicator(name) {
			out = append(out, name)
		}
	}
	return out
}

// Find returns the record for country.
func (d *Dataset) Find(country string) (*Record, bool) {
	for _, rec := range d.records {
		if rec.Country == country {
			return rec, true
		}
	}
	return nil, false
}
