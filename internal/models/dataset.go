package models

import (
	"time"

	"happydash.dev/internal/happiness"
)

// DatasetModel identifies the dataset generation a response was built from.
type DatasetModel struct {
	Generation   uint64 `json:"generation"`
	Records      int    `json:"records"`
	Indicators   int    `json:"indicators"`
	LastUpdated  int64  `json:"lastUpdated"`
	ReadableTime string `json:"readableTime"`
}

func NewDatasetModel(manager *happiness.Manager) DatasetModel {
	ds := manager.Dataset()
	updated := manager.LastUpdated()
	return DatasetModel{
		Generation:   manager.Generation(),
		Records:      ds.Len(),
		Indicators:   len(ds.Indicators()),
		LastUpdated:  updated.UnixMilli(),
		ReadableTime: updated.Format(time.RFC3339),
	}
}

// IndicatorsModel lists every indicator column and the subset offered for ranking.
type IndicatorsModel struct {
	Indicators  []string `json:"indicators"`
	Preferences []string `json:"preferences"`
}

// RegionsModel lists the region selector options.
type RegionsModel struct {
	AllRegions string   `json:"allRegions"`
	Regions    []string `json:"regions"`
}
