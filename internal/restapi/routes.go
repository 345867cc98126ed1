package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"happydash.dev/internal/happiness"
)

func validateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	}
}

func routeParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// handle registers a key-checked, instrumented route.
func (api *RestAPI) handle(router *httprouter.Router, method, path string, handler http.HandlerFunc) {
	router.Handler(method, path, api.instrument(path, validateAPIKey(api, handler)))
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	api.handle(router, http.MethodGet, "/api/indicators.json", api.indicatorsHandler)
	api.handle(router, http.MethodGet, "/api/regions.json", api.regionsHandler)
	api.handle(router, http.MethodGet, "/api/countries.json", api.countriesHandler)
	api.handle(router, http.MethodGet, "/api/countries/:name", api.countryHandler)
	api.handle(router, http.MethodGet, "/api/views/region.json", api.viewHandler(happiness.KindRegion))
	api.handle(router, http.MethodGet, "/api/views/ranked.json", api.viewHandler(happiness.KindPreference))
	api.handle(router, http.MethodGet, "/api/views/comparison.json", api.viewHandler(happiness.KindComparison))
	api.handle(router, http.MethodGet, "/api/views/top.json", api.viewHandler(happiness.KindWorld))
	api.handle(router, http.MethodGet, "/api/charts/:name", api.chartHandler)
	api.handle(router, http.MethodGet, "/render/:name", api.renderHandler)
	api.handle(router, http.MethodPost, "/api/dataset/reload.json", api.reloadHandler)

	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}
	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Wrap applies the middleware shared by every route, outermost first:
// request logging, security headers, compression, rate limiting.
func (api *RestAPI) Wrap(handler http.Handler) http.Handler {
	if api.rateLimiter != nil {
		handler = api.rateLimiter(handler)
	}
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.logger())(handler)
}
