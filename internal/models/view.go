package models

import "happydash.dev/internal/happiness"

// ViewModel is a computed view: the normalized query and its rows.
type ViewModel struct {
	Kind      string       `json:"kind"`
	Region    string       `json:"region"`
	Indicator string       `json:"indicator,omitempty"`
	Order     string       `json:"order,omitempty"`
	Limit     int          `json:"limit,omitempty"`
	Scope     string       `json:"scope,omitempty"`
	Columns   []string     `json:"columns"`
	Rows      []CountryRow `json:"rows"`
}

func NewViewModel(view happiness.View) ViewModel {
	rows := make([]CountryRow, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, NewCountryRow(r.Rank, r.Record, view.Columns))
	}
	q := view.Query
	return ViewModel{
		Kind:      string(q.Kind),
		Region:    q.Region,
		Indicator: q.Indicator,
		Order:     string(q.Order),
		Limit:     q.Limit,
		Scope:     string(q.Scope),
		Columns:   append([]string{}, view.Columns...),
		Rows:      rows,
	}
}
