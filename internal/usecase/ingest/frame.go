package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"talenttrack/internal/bootstrap/logging"
	"talenttrack/internal/errs"
)

// loadFrame reads one extract into a dataframe, picking the reader by
// extension. CSV is the wire format the HR systems export; .xlsx turns up
// when someone opens and re-saves an extract in Excel.
func loadFrame(path string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path)
	}
	return readCSVFile(path)
}

func readCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errs.Wrap(err, "open extract")
	}
	defer f.Close()

	// Excel-exported CSVs often lead with a byte order mark.
	df := dataframe.ReadCSV(utfbom.SkipOnly(f),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
	)
	return df, df.Err
}

func readWorkbook(path string) (dataframe.DataFrame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, errs.Wrap(err, "open workbook")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, errs.Wrapf(errEmptyExtract, "%s", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, errs.Wrap(err, "read sheet")
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, errs.Wrapf(errEmptyExtract, "%s", path)
	}

	// excelize trims trailing empty cells per row; LoadRecords needs a
	// rectangular grid.
	width := len(rows[0])
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		records = append(records, padded)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
	)
	return df, df.Err
}

// normalizeFrame cuts a raw extract down to the contract's columns and
// renames them to their logical names, with the join key becoming
// person_id. Contract columns missing from the file are logged and carried
// as absent; the join key is not optional.
func normalizeFrame(ctx context.Context, df dataframe.DataFrame, key string, columns map[string]string) (dataframe.DataFrame, error) {
	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}
	if !present[key] {
		return dataframe.DataFrame{}, errs.Wrapf(errMissingColumn, "join key %q", key)
	}

	logical := make([]string, 0, len(columns))
	for name := range columns {
		logical = append(logical, name)
	}
	sort.Strings(logical)

	selected := []string{key}
	for _, name := range logical {
		header := columns[name]
		if !present[header] {
			logging.Warn(ctx, "contract column missing from extract",
				slog.String("column", name),
				slog.String("header", header),
			)
			continue
		}
		selected = append(selected, header)
	}

	out := df.Select(selected)
	if out.Err != nil {
		return dataframe.DataFrame{}, errs.Wrap(out.Err, "select contract columns")
	}

	out = out.Rename(colPersonID, key)
	for _, name := range logical {
		header := columns[name]
		if !present[header] || header == name {
			continue
		}
		out = out.Rename(name, header)
	}
	return out, out.Err
}

// joinExtracts left-joins the application outcomes onto the intake roster
// by person id and keeps only the rows whose outcome matched the wanted
// status. Intake rows with no matching application fall out here.
func joinExtracts(intake dataframe.DataFrame, application dataframe.DataFrame, successfulStatus string) (dataframe.DataFrame, error) {
	joined := intake.LeftJoin(application, colPersonID)
	if joined.Err != nil {
		return dataframe.DataFrame{}, errs.Wrap(joined.Err, "join extracts")
	}

	successful := joined.Filter(dataframe.F{
		Colname:    colStatus,
		Comparator: series.Eq,
		Comparando: successfulStatus,
	})
	return successful, successful.Err
}

// rowValues is one joined row keyed by logical column name. Absent columns
// read as empty cells.
type rowValues map[string]string

func (r rowValues) get(name string) string {
	return strings.TrimSpace(r[name])
}

func frameRows(df dataframe.DataFrame) []rowValues {
	records := df.Records()
	if len(records) < 2 {
		return nil
	}

	headers := records[0]
	rows := make([]rowValues, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(rowValues, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
