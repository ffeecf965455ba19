package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"talenttrack/internal/errs"
)

// Header is the fixed first row of every promotion-rate CSV.
func Header() []string {
	return []string{
		"characteristic",
		"number substantively promoted",
		"percentage substantively promoted",
		"number temporarily promoted",
		"percentage temporarily promoted",
		"total in group",
	}
}

// Records formats a row for output: counts as integers, rates as
// whole-number percent strings.
func (r Row) Records() []string {
	return []string{
		r.Characteristic,
		strconv.Itoa(r.Substantive),
		FormatPercent(r.SubstantiveRate),
		strconv.Itoa(r.Temporary),
		FormatPercent(r.TemporaryRate),
		strconv.Itoa(r.Total),
	}
}

// FormatPercent renders a fraction as a whole-number percentage, "50%"
// for 0.5.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// WriteCSV streams the header and one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	out := csv.NewWriter(w)

	if err := out.Write(Header()); err != nil {
		return errs.Wrap(err, "write header")
	}
	for _, row := range rows {
		if err := out.Write(row.Records()); err != nil {
			return errs.Wrap(err, "write row")
		}
	}

	out.Flush()
	return out.Error()
}
