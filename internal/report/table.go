// Package report prints views as plain-text tables and CSV for the command line.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"happydash.dev/internal/happiness"
)

// Formats accepted by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
)

const missingCell = "-"

// Columns returns the indicator columns printed for view. Region views carry
// every indicator, which is too wide for a terminal, so they print the score only.
func Columns(view happiness.View) []string {
	if view.Query.Kind == happiness.KindRegion || len(view.Columns) == 0 {
		return []string{happiness.LadderScore}
	}
	return view.Columns
}

// Write renders view in the named format.
func Write(w io.Writer, format string, view happiness.View) error {
	switch format {
	case "", FormatTable:
		return WriteTable(w, view)
	case FormatCSV:
		return WriteCSV(w, view)
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatTable, FormatCSV)
}

// WriteTable renders view as an aligned ASCII table.
func WriteTable(w io.Writer, view happiness.View) error {
	header, rows := tabulate(view)

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// WriteCSV renders view as CSV with the same columns as WriteTable.
func WriteCSV(w io.Writer, view happiness.View) error {
	header, rows := tabulate(view)

	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}
	if err := out.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func tabulate(view happiness.View) ([]string, [][]string) {
	columns := Columns(view)
	header := append([]string{"Rank", happiness.CountryColumn, happiness.RegionColumn}, columns...)

	rows := make([][]string, 0, len(view.Rows))
	for i, row := range view.Rows {
		rank := row.Rank
		if rank == 0 {
			rank = i + 1
		}
		line := []string{strconv.Itoa(rank), row.Record.Country, row.Record.Region}
		for _, column := range columns {
			line = append(line, cell(row.Record, column))
		}
		rows = append(rows, line)
	}
	return header, rows
}

func cell(rec *happiness.Record, column string) string {
	v, ok := rec.Value(column)
	if !ok || v.Raw == "" || v.Raw == happiness.MissingSentinel {
		return missingCell
	}
	if v.Valid {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Raw
}
