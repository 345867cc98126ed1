package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewResponse(t *testing.T) {
	before := time.Now().UnixMilli()
	response := NewResponse(http.StatusCreated, map[string]string{"key": "value"}, "Resource Created")
	after := time.Now().UnixMilli()

	assert.Equal(t, http.StatusCreated, response.Code)
	assert.Equal(t, map[string]string{"key": "value"}, response.Data)
	assert.Equal(t, "Resource Created", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewOKResponse(t *testing.T) {
	response := NewOKResponse([]string{"a"})

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	assert.Equal(t, []string{"a"}, response.Data)
	assert.Equal(t, 2, response.Version)
}

func TestNewEntryResponse(t *testing.T) {
	dataset := DatasetModel{Generation: 3, Records: 14}
	entry := RegionsModel{AllRegions: "Top 20 Countries", Regions: []string{"South Asia"}}

	response := NewEntryResponse(entry, dataset)

	assert.Equal(t, http.StatusOK, response.Code)
	data, ok := response.Data.(map[string]interface{})
	assert.True(t, ok, "Response data should be a map")
	assert.Equal(t, entry, data["entry"])
	assert.Equal(t, dataset, data["dataset"])
}

func TestNewListResponse(t *testing.T) {
	list := []CountryRow{{Country: "Finland"}}
	dataset := DatasetModel{Generation: 1}

	response := NewListResponse(list, dataset)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)
	data, ok := response.Data.(map[string]interface{})
	assert.True(t, ok, "Response data should be a map")
	assert.Equal(t, list, data["list"])
	assert.Equal(t, dataset, data["dataset"])
	assert.False(t, data["limitExceeded"].(bool))
}
