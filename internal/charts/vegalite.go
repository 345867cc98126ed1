// Package charts turns views into chart definitions. Interactive charts are
// Vega-Lite specifications rendered in the browser; static charts are SVG
// documents rendered on the server.
package charts

import (
	"errors"
	"fmt"
	"strings"

	"happydash.dev/internal/happiness"
)

const (
	VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"
	// WorldTopoURL is the 1:110m world atlas the choropleth joins country ids onto.
	WorldTopoURL = "https://cdn.jsdelivr.net/npm/vega-datasets@v1.29.0/data/world-110m.json"

	// WorldRankField is the column name the world map colours by.
	WorldRankField = "Happiness World Rank"

	// ClickParam links the two comparison charts.
	ClickParam = "click"
)

var (
	ErrUnknownChart = errors.New("unknown chart")
	ErrNoData       = errors.New("no data to plot")
)

// Spec is a Vega-Lite specification ready for JSON encoding.
type Spec map[string]interface{}

// Build returns the Vega-Lite specification for view.
func Build(view happiness.View) (Spec, error) {
	switch view.Query.Kind {
	case happiness.KindWorld:
		return WorldMap(view), nil
	case happiness.KindPreference:
		return PreferenceBar(view), nil
	case happiness.KindComparison:
		return Comparison(view), nil
	}
	return nil, fmt.Errorf("%w: no interactive chart for %q views", ErrUnknownChart, view.Query.Kind)
}

// ChartKind maps an interactive chart name onto the view that feeds it.
func ChartKind(name string) (happiness.ViewKind, error) {
	kind, err := happiness.ParseViewKind(name)
	if err != nil || kind == happiness.KindRegion {
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return kind, nil
}

// WorldMap is a choropleth of world rank. Rows without a country id cannot be
// joined onto the atlas and are left out.
func WorldMap(view happiness.View) Spec {
	values := make([]map[string]interface{}, 0, len(view.Rows))
	for _, row := range view.Rows {
		if !row.Record.HasID {
			continue
		}
		values = append(values, map[string]interface{}{
			happiness.IDColumn:      row.Record.ID,
			happiness.CountryColumn: row.Record.Country,
			WorldRankField:          row.Rank,
		})
	}

	return Spec{
		"$schema": VegaLiteSchema,
		"title":   "World Happiness Ranking",
		"width":   500,
		"height":  300,
		"data": map[string]interface{}{
			"url":    WorldTopoURL,
			"format": map[string]interface{}{"type": "topojson", "feature": "countries"},
		},
		"transform": []interface{}{
			map[string]interface{}{
				"lookup": happiness.IDColumn,
				"from": map[string]interface{}{
					"data":   map[string]interface{}{"values": values},
					"key":    happiness.IDColumn,
					"fields": []string{happiness.CountryColumn, WorldRankField},
				},
			},
		},
		"projection": map[string]interface{}{"type": "equalEarth", "scale": 90},
		"mark":       "geoshape",
		"encoding": map[string]interface{}{
			"color": field(WorldRankField, "quantitative"),
			"tooltip": []interface{}{
				field(happiness.CountryColumn, "nominal"),
				field(WorldRankField, "quantitative"),
			},
		},
		"config": map[string]interface{}{
			"legend": map[string]interface{}{"orient": "bottom"},
			"title":  map[string]interface{}{"fontSize": 20},
		},
	}
}

// PreferenceBar ranks the countries of a region by the selected indicator.
func PreferenceBar(view happiness.View) Spec {
	indicator := view.Query.Indicator
	sort := "x"
	if view.Query.Order == happiness.Descending {
		sort = "-x"
	}

	color := field(indicator, "quantitative")
	color["scale"] = map[string]interface{}{"scheme": "tealblues", "reverse": true}
	color["legend"] = nil

	y := field(happiness.CountryColumn, "nominal")
	y["sort"] = sort
	y["title"] = ""

	return Spec{
		"$schema": VegaLiteSchema,
		"title":   "Countries within the Region, Ranked by Your Preference",
		"data":    map[string]interface{}{"values": rowValues(view.Rows, []string{indicator})},
		"mark":    "bar",
		"params": []interface{}{
			map[string]interface{}{"name": "grid", "select": "interval", "bind": "scales"},
		},
		"encoding": map[string]interface{}{
			"x":       field(indicator, "quantitative"),
			"y":       y,
			"color":   color,
			"tooltip": []interface{}{field(indicator, "quantitative")},
		},
		"config": map[string]interface{}{
			"title": map[string]interface{}{"fontSize": 16},
		},
	}
}

// Comparison places a happiness score error-bar chart next to a population
// density bar chart. Clicking a country in either chart highlights it in both.
func Comparison(view happiness.View) Spec {
	columns := []string{happiness.LadderScore, happiness.LowerWhisker, happiness.UpperWhisker, happiness.Density}

	errorY := field(happiness.CountryColumn, "nominal")
	errorY["title"] = ""
	errorY["sort"] = map[string]interface{}{"field": fieldRef(happiness.LadderScore), "order": "descending"}

	errorX := field("xmin", "quantitative")
	errorX["scale"] = map[string]interface{}{"zero": false}
	errorX["title"] = "Happiness Score"

	errorColor := field(happiness.CountryColumn, "nominal")
	errorColor["param"] = ClickParam
	errorColor["scale"] = map[string]interface{}{"scheme": "tealblues"}
	errorColor["legend"] = nil

	pointY := field(happiness.CountryColumn, "nominal")
	pointY["sort"] = "-x"

	scores := map[string]interface{}{
		"title": "Ranked by Happiness Scores",
		"width": 270,
		"transform": []interface{}{
			map[string]interface{}{"calculate": "datum[" + quoteExpr(happiness.LowerWhisker) + "]", "as": "xmin"},
			map[string]interface{}{"calculate": "datum[" + quoteExpr(happiness.UpperWhisker) + "]", "as": "xmax"},
		},
		"layer": []interface{}{
			map[string]interface{}{
				"name": "scores",
				"mark": "errorbar",
				"encoding": map[string]interface{}{
					"y":     errorY,
					"x":     errorX,
					"x2":    map[string]interface{}{"field": "xmax"},
					"color": map[string]interface{}{"condition": errorColor, "value": "paleturquoise"},
					"size":  conditional(7, 1),
				},
			},
			map[string]interface{}{
				"mark": map[string]interface{}{"type": "point", "shape": "diamond"},
				"encoding": map[string]interface{}{
					"x":    field(happiness.LadderScore, "quantitative"),
					"y":    pointY,
					"size": conditional(15, 2),
				},
			},
		},
	}

	densityY := field(happiness.CountryColumn, "nominal")
	densityY["sort"] = "-x"
	densityY["title"] = ""

	density := map[string]interface{}{
		"name":  "density",
		"title": "Ranked by Population Density",
		"width": 260,
		"mark":  "bar",
		"encoding": map[string]interface{}{
			"x":       field(happiness.Density, "quantitative"),
			"y":       densityY,
			"color":   field(happiness.CountryColumn, "nominal"),
			"opacity": conditional(1, 0.1),
		},
	}

	return Spec{
		"$schema": VegaLiteSchema,
		"data":    map[string]interface{}{"values": rowValues(view.Rows, columns)},
		"params": []interface{}{
			map[string]interface{}{
				"name":   ClickParam,
				"select": map[string]interface{}{"type": "point", "fields": []string{happiness.CountryColumn}},
				"views":  []string{"scores", "density"},
			},
		},
		"hconcat": []interface{}{scores, density},
	}
}

func rowValues(rows []happiness.Ranked, columns []string) []map[string]interface{} {
	values := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		value := map[string]interface{}{
			happiness.CountryColumn: row.Record.Country,
			happiness.RegionColumn:  row.Record.Region,
		}
		if row.Rank > 0 {
			value["rank"] = row.Rank
		}
		for _, column := range columns {
			if v, ok := row.Record.Number(column); ok {
				value[column] = v
			} else {
				value[column] = nil
			}
		}
		values = append(values, value)
	}
	return values
}

func field(name, typ string) map[string]interface{} {
	return map[string]interface{}{"field": fieldRef(name), "type": typ}
}

func conditional(selected, otherwise interface{}) map[string]interface{} {
	return map[string]interface{}{
		"condition": map[string]interface{}{"param": ClickParam, "value": selected},
		"value":     otherwise,
	}
}

// fieldRef escapes the characters Vega-Lite reads as nested field access.
func fieldRef(name string) string {
	return strings.NewReplacer(`\`, `\\`, `.`, `\.`, `[`, `\[`, `]`, `\]`).Replace(name)
}

// quoteExpr quotes name as a Vega expression string literal.
func quoteExpr(name string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name) + "'"
}
