package models

import (
	"net/http"
	"time"
)

// ResponseModel is the envelope every JSON endpoint answers with.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the envelope timestamp in Unix milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

// NewEntryResponse wraps a single object together with the dataset it was read from.
func NewEntryResponse(entry interface{}, dataset DatasetModel) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"entry":   entry,
		"dataset": dataset,
	})
}

// NewListResponse wraps a list together with the dataset it was read from.
func NewListResponse(list interface{}, dataset DatasetModel) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"list":          list,
		"dataset":       dataset,
		"limitExceeded": false,
	})
}
