package restapi

import (
	"net/http"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
	"happydash.dev/internal/models"
)

func (api *RestAPI) indicatorsHandler(w http.ResponseWriter, r *http.Request) {
	entry := models.IndicatorsModel{
		Indicators:  api.Manager.Dataset().Indicators(),
		Preferences: api.Preferences(),
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewDatasetModel(api.Manager)))
}

func (api *RestAPI) regionsHandler(w http.ResponseWriter, r *http.Request) {
	entry := models.RegionsModel{
		AllRegions: happiness.AllRegions,
		Regions:    api.Regions(),
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewDatasetModel(api.Manager)))
}

// reloadHandler re-reads the source file. On failure the previous dataset keeps serving.
func (api *RestAPI) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.Manager.Reload(r.Context()); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "dataset reload failed", err)
		api.sendError(w, http.StatusInternalServerError, "dataset reload failed: "+err.Error())
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(models.NewDatasetModel(api.Manager)))
}
