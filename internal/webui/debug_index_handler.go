package webui

import (
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"happydash.dev/internal/models"
)

var debugDataTypes = []string{"dataset", "records", "regions", "indicators", "preferences", "cache", "config"}

type debugData struct {
	Title     string
	DataTypes []string
	Pre       string
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	webUI.render(w, "debug_index.html", debugData{
		Title:     title,
		DataTypes: debugDataTypes,
		Pre:       spew.Sdump(data),
	})
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidAPIKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	dataType := r.URL.Query().Get("dataType")
	ds := webUI.Manager.Dataset()

	var data interface{}
	var title string

	switch dataType {
	case "dataset":
		data = models.NewDatasetModel(webUI.Manager)
		title = "Dataset"
	case "records":
		data = ds.Records()
		title = "Dataset - Records"
	case "regions":
		data = webUI.Regions()
		title = "Dataset - Regions"
	case "indicators":
		data = ds.Indicators()
		title = "Dataset - Indicators"
	case "preferences":
		data = webUI.Preferences()
		title = "Dataset - Ranking Preferences"
	case "cache":
		data = webUI.Manager.CacheStats()
		title = "View Cache"
	case "config":
		config := webUI.Config
		if len(config.ApiKeys) > 0 {
			config.ApiKeys = []string{"<redacted>"}
		}
		data = config
		title = "Configuration"
	default:
		data = map[string]string{
			"error": "Please use one of the following: " + strings.Join(debugDataTypes, ", ") + ".",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, title, data)
}
