package happiness

import (
	"fmt"
	"strings"
)

// ViewKind names the chart a view feeds.
type ViewKind string

const (
	KindRegion     ViewKind = "region"
	KindPreference ViewKind = "preference"
	KindComparison ViewKind = "comparison"
	KindWorld      ViewKind = "world"
)

// ParseViewKind maps a name onto a ViewKind.
func ParseViewKind(s string) (ViewKind, error) {
	switch k := ViewKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRegion, KindPreference, KindComparison, KindWorld:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Scope decides whether the world map shows every ranked country or only the selected region.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeFiltered Scope = "filtered"
)

// ParseScope accepts "all" and "filtered". An empty string means all.
func ParseScope(s string) (Scope, error) {
	switch scope := Scope(strings.ToLower(strings.TrimSpace(s))); scope {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopeFiltered:
		return scope, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// Query is the full parameter tuple behind one chart.
type Query struct {
	Kind      ViewKind
	Region    string
	Indicator string
	Order     Order
	Limit     int
	Scope     Scope
}

// Normalize fills defaults and pins the parameters a kind does not accept,
// so that equivalent queries share one cache key.
func (q Query) Normalize() Query {
	if IsAllRegions(q.Region) {
		q.Region = AllRegions
	}
	switch q.Kind {
	case KindRegion:
		q.Indicator, q.Order, q.Limit, q.Scope = "", "", 0, ""
	case KindPreference:
		if q.Indicator == "" {
			q.Indicator = LadderScore
		}
		if q.Order == "" {
			q.Order = Ascending
		}
		q.Limit, q.Scope = SubsetLimit, ""
	case KindComparison:
		q.Indicator, q.Order, q.Limit, q.Scope = LadderScore, Ascending, SubsetLimit, ""
	case KindWorld:
		if q.Indicator == "" {
			q.Indicator = LadderScore
		}
		q.Order = Descending
		if q.Limit == 0 {
			q.Limit = WorldRankLimit
		}
		if q.Scope == "" {
			q.Scope = ScopeAll
		}
	}
	return q
}

// Key identifies the normalized query.
func (q Query) Key() string {
	q = q.Normalize()
	return strings.Join([]string{
		string(q.Kind), q.Region, q.Indicator, string(q.Order), fmt.Sprint(q.Limit), string(q.Scope),
	}, "\x1f")
}

// View is the row set and column list one chart renders. Views are shared
// between callers through the cache and must not be modified.
type View struct {
	Query   Query
	Columns []string
	Rows    []Ranked
}

// Records returns the view rows without ranks.
func (v View) Records() []*Record {
	out := make([]*Record, len(v.Rows))
	for i, row := range v.Rows {
		out[i] = row.Record
	}
	return out
}

// Select builds the view for q. Every chart goes through here.
func Select(ds *Dataset, q Query) (View, error) {
	q = q.Normalize()
	view := View{Query: q}

	switch q.Kind {
	case KindRegion:
		view.Columns = ds.Indicators()
		for _, rec := range RegionFilter(ds, q.Region).records {
			view.Rows = append(view.Rows, Ranked{Record: rec})
		}

	case KindPreference, KindComparison:
		rows, err := RankedSubset(RegionFilter(ds, q.Region), q.Indicator, q.Order)
		if err != nil {
			return View{}, err
		}
		view.Rows = positions(rows)
		view.Columns = []string{q.Indicator}
		if q.Kind == KindComparison {
			view.Columns = presentColumns(ds, LadderScore, LowerWhisker, UpperWhisker, Density)
		}

	case KindWorld:
		scope, err := ParseScope(string(q.Scope))
		if err != nil {
			return View{}, err
		}
		view.Query.Scope = scope
		ranked, err := TopN(ds, q.Limit, q.Indicator)
		if err != nil {
			return View{}, err
		}
		if scope == ScopeFiltered && !IsAllRegions(q.Region) {
			kept := ranked[:0:0]
			for _, row := range ranked {
				if row.Record.Region == q.Region {
					kept = append(kept, row)
				}
			}
			ranked = kept
		}
		view.Rows = ranked
		view.Columns = []string{q.Indicator}

	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownView, q.Kind)
	}

	if view.Rows == nil {
		view.Rows = []Ranked{}
	}
	return view, nil
}

func positions(rows []*Record) []Ranked {
	out := make([]Ranked, len(rows))
	for i, rec := range rows {
		out[i] = Ranked{Rank: i + 1, Record: rec}
	}
	return out
}

func presentColumns(ds *Dataset, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if ds.HasIndicator(name) {
			out = append(out, name)
		}
	}
	return out
}
