package models

import "happydash.dev/internal/happiness"

// CountryRow is one record as rendered into JSON. Missing values encode as null.
type CountryRow struct {
	Rank    int                 `json:"rank,omitempty"`
	Country string              `json:"country"`
	Region  string              `json:"region"`
	ID      *int                `json:"id,omitempty"`
	Values  map[string]*float64 `json:"values"`
}

// NewCountryRow projects rec onto columns.
func NewCountryRow(rank int, rec *happiness.Record, columns []string) CountryRow {
	row := CountryRow{
		Rank:    rank,
		Country: rec.Country,
		Region:  rec.Region,
		Values:  make(map[string]*float64, len(columns)),
	}
	if rec.HasID {
		id := rec.ID
		row.ID = &id
	}
	for _, column := range columns {
		if v, ok := rec.Number(column); ok {
			row.Values[column] = &v
		} else {
			row.Values[column] = nil
		}
	}
	return row
}

// NewCountryRows converts unranked records.
func NewCountryRows(records []*happiness.Record, columns []string) []CountryRow {
	rows := make([]CountryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewCountryRow(0, rec, columns))
	}
	return rows
}
