package restapi

import (
	"net/http"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/models"
	"happydash.dev/internal/utils"
)

// parseQuery turns the request parameters into a query of the given kind. Region
// and indicator must exist in the current dataset.
func (api *RestAPI) parseQuery(r *http.Request, kind happiness.ViewKind) (happiness.Query, map[string][]string) {
	params, fieldErrors := utils.ParseViewParams(r.URL.Query())
	if len(fieldErrors) > 0 {
		return happiness.Query{}, fieldErrors
	}

	q := happiness.Query{
		Kind:      kind,
		Region:    params.Region,
		Indicator: params.Indicator,
		Limit:     params.N,
		Scope:     happiness.Scope(params.Scope),
	}
	if kind == happiness.KindWorld {
		if params.RankBy != "" {
			q.Indicator = params.RankBy
		}
		if q.Limit == 0 {
			q.Limit = api.Config.WorldRankLimit
		}
	}

	order, err := happiness.ParseOrder(params.Order)
	if err != nil {
		fieldErrors["order"] = append(fieldErrors["order"], err.Error())
	}
	q.Order = order

	ds := api.Manager.Dataset()
	if err := ds.CheckRegion(q.Region); err != nil {
		fieldErrors["region"] = append(fieldErrors["region"], err.Error())
	}
	if q.Indicator != "" {
		if err := ds.CheckIndicator(q.Indicator); err != nil {
			name := "indicator"
			if kind == happiness.KindWorld && params.RankBy != "" {
				name = "rankBy"
			}
			fieldErrors[name] = append(fieldErrors[name], err.Error())
		}
	}
	return q, fieldErrors
}

func (api *RestAPI) viewHandler(kind happiness.ViewKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, fieldErrors := api.parseQuery(r, kind)
		if len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}

		view, err := api.Manager.View(r.Context(), q)
		if err != nil {
			api.viewErrorResponse(w, r, err)
			return
		}

		api.sendResponse(w, r, models.NewEntryResponse(models.NewViewModel(view), models.NewDatasetModel(api.Manager)))
	}
}
