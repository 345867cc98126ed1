package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"happydash.dev/internal/charts"
	"happydash.dev/internal/utils"
)

// chartHandler answers with a bare Vega-Lite specification, without the
// response envelope, so vega-embed can load the URL directly.
func (api *RestAPI) chartHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ChartKind(utils.ExtractIDFromParams(r, "name"))
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

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
	spec, err := charts.Build(view)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	setJSONResponseType(&w)
	if err := json.NewEncoder(w).Encode(spec); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

// renderHandler draws a static chart on the server and answers with SVG.
func (api *RestAPI) renderHandler(w http.ResponseWriter, r *http.Request) {
	name, ext := utils.SplitExtension(routeParam(r, "name"))
	if ext != "" && ext != "svg" {
		api.sendNotFound(w, r)
		return
	}
	kind, err := charts.StaticKind(name)
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

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

	var buf bytes.Buffer
	if err := charts.RenderSVG(&buf, name, view); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			api.sendError(w, http.StatusNotFound, err.Error())
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := buf.WriteTo(w); err != nil {
		api.logger().Warn("failed to write svg", "error", err)
	}
}
