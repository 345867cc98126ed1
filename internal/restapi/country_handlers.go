package restapi

import (
	"net/http"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/models"
	"happydash.dev/internal/utils"
)

// countriesHandler lists the records of ?region= with every indicator, in source order.
func (api *RestAPI) countriesHandler(w http.ResponseWriter, r *http.Request) {
	params, fieldErrors := utils.ParseViewParams(r.URL.Query())
	ds := api.Manager.Dataset()
	if len(fieldErrors) == 0 {
		if err := ds.CheckRegion(params.Region); err != nil {
			fieldErrors["region"] = append(fieldErrors["region"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	records := happiness.RegionFilter(ds, params.Region).Records()
	list := models.NewCountryRows(records, ds.Indicators())
	api.sendResponse(w, r, models.NewListResponse(list, models.NewDatasetModel(api.Manager)))
}

// countryHandler returns one record by country name.
func (api *RestAPI) countryHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractIDFromParams(r, "name")
	ds := api.Manager.Dataset()
	rec, ok := ds.Find(name)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	entry := models.NewCountryRow(0, rec, ds.Indicators())
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewDatasetModel(api.Manager)))
}
