package happiness

import (
	"fmt"
	"sort"
	"strings"
)

// SubsetLimit caps the rows returned by RankedSubset.
const SubsetLimit = 20

// WorldRankLimit is how many countries receive a world happiness rank.
const WorldRankLimit = 100

// Order is a sort direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder accepts "asc", "desc" and the "dsc" spelling the dashboard radio emits.
// An empty string means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "dsc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
}

// Ranked pairs a record with its 1-based position in a view.
type Ranked struct {
	Rank   int
	Record *Record
}

// RegionFilter returns the rows of region. The all-regions selector returns ds
// itself; a region with no rows yields an empty dataset rather than an error.
func RegionFilter(ds *Dataset, region string) *Dataset {
	if IsAllRegions(region) {
		return ds
	}
	var rows []*Record
	for _, rec := range ds.records {
		if rec.Region == region {
			rows = append(rows, rec)
		}
	}
	return ds.derive(rows)
}

// RankedSubset stably sorts ds by indicator in the given order and keeps the
// first SubsetLimit rows. Rows without a numeric ladder score, such as the
// "mo" sentinel, are left out. Rows lacking only the ranked indicator sort
// last either way.
func RankedSubset(ds *Dataset, indicator string, order Order) ([]*Record, error) {
	if err := ds.CheckIndicator(indicator); err != nil {
		return nil, err
	}
	if order != Ascending && order != Descending {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	rows := rankable(ds)
	sort.SliceStable(rows, func(i, j int) bool {
		return lessBy(rows[i], rows[j], indicator, order)
	})

	if len(rows) > SubsetLimit {
		rows = rows[:SubsetLimit]
	}
	return rows, nil
}

// rankable returns the rows holding a numeric ladder score, in source order.
// Datasets without a ladder score column keep every row.
func rankable(ds *Dataset) []*Record {
	if !ds.HasIndicator(LadderScore) {
		return ds.Records()
	}
	rows := make([]*Record, 0, len(ds.records))
	for _, rec := range ds.records {
		if _, ok := rec.Number(LadderScore); ok {
			rows = append(rows, rec)
		}
	}
	return rows
}

func lessBy(a, b *Record, indicator string, order Order) bool {
	av, aok := a.Number(indicator)
	bv, bok := b.Number(indicator)
	switch {
	case !aok:
		return false
	case !bok:
		return true
	case order == Descending:
		return av > bv
	default:
		return av < bv
	}
}

// TopN ranks the rows holding a numeric rankBy value from highest to lowest and
// returns the first n with dense ranks 1..n. Rows without a numeric value,
// such as the "mo" sentinel, are never ranked. An empty rankBy ranks by
// ladder score.
func TopN(ds *Dataset, n int, rankBy string) ([]Ranked, error) {
	if rankBy == "" {
		rankBy = LadderScore
	}
	if err := ds.CheckIndicator(rankBy); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	eligible := make([]*Record, 0, len(ds.records))
	for _, rec := range ds.records {
		if _, ok := rec.Number(rankBy); ok {
			eligible = append(eligible, rec)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return lessBy(eligible[i], eligible[j], rankBy, Descending)
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	ranked := make([]Ranked, len(eligible))
	for i, rec := range eligible {
		ranked[i] = Ranked{Rank: i + 1, Record: rec}
	}
	return ranked, nil
}
