package webui

import (
	"net/http"

	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
	"happydash.dev/internal/models"
	"happydash.dev/internal/utils"
)

const (
	Title             = "Country Happiness Visualization"
	DefaultPreference = "Cost of Living Index"
)

// dashboardState is the control selection the page renders with.
type dashboardState struct {
	Region     string
	Preference string
	// Order is "asc" or "dsc", the values the radio buttons submit.
	Order string
	Scope string
	Key   string
}

type dashboardData struct {
	Title       string
	Regions     []string
	Preferences []string
	dashboardState
	Notices []string
	Rows    []models.CountryRow
	Dataset models.DatasetModel
}

// parseState reads the controls from the query string. Anything invalid falls
// back to its default and is reported on the page instead of failing the request.
func (webUI *WebUI) parseState(r *http.Request, preferences []string) (dashboardState, []string) {
	values := r.URL.Query()
	state := dashboardState{
		Region:     happiness.AllRegions,
		Preference: defaultPreference(preferences),
		Order:      "asc",
		Scope:      string(happiness.ScopeAll),
		Key:        values.Get("key"),
	}

	params, fieldErrors := utils.ParseViewParams(values)
	var notices []string
	for field, messages := range fieldErrors {
		for _, message := range messages {
			notices = append(notices, field+": "+message)
		}
	}

	ds := webUI.Manager.Dataset()
	if params.Region != "" && fieldErrors["region"] == nil {
		if err := ds.CheckRegion(params.Region); err != nil {
			notices = append(notices, err.Error())
		} else {
			state.Region = params.Region
		}
	}
	if params.Indicator != "" && fieldErrors["indicator"] == nil {
		if contains(preferences, params.Indicator) {
			state.Preference = params.Indicator
		} else {
			notices = append(notices, "not a ranking preference: "+params.Indicator)
		}
	}
	if fieldErrors["order"] == nil {
		if order, err := happiness.ParseOrder(params.Order); err == nil && order == happiness.Descending {
			state.Order = "dsc"
		}
	}
	if params.Scope != "" && fieldErrors["scope"] == nil {
		state.Scope = params.Scope
	}
	return state, notices
}

func (webUI *WebUI) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidAPIKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	preferences := webUI.Preferences()
	state, notices := webUI.parseState(r, preferences)

	order, _ := happiness.ParseOrder(state.Order)
	view, err := webUI.Manager.View(r.Context(), happiness.Query{
		Kind:      happiness.KindPreference,
		Region:    state.Region,
		Indicator: state.Preference,
		Order:     order,
	})
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to build dashboard table", err)
		notices = append(notices, err.Error())
	}

	webUI.render(w, "index.html", dashboardData{
		Title:          Title,
		Regions:        webUI.Regions(),
		Preferences:    preferences,
		dashboardState: state,
		Notices:        notices,
		Rows:           models.NewViewModel(view).Rows,
		Dataset:        models.NewDatasetModel(webUI.Manager),
	})
}

func defaultPreference(preferences []string) string {
	if contains(preferences, DefaultPreference) || len(preferences) == 0 {
		return DefaultPreference
	}
	return preferences[0]
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
