package kpistore

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetsFirstDataRow is the row of the first dated row. Row 1 is the header.
const sheetsFirstDataRow = 2

// serialEpoch is day zero of spreadsheet date serial numbers.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// gridRange is a rectangle of 1-indexed cells. ToRow 0 means open-ended.
type gridRange struct {
	FromCol, ToCol int
	FromRow, ToRow int
}

// a1 renders the range in A1 notation for the worksheet.
func (g gridRange) a1(worksheet string) string {
	start := fmt.Sprintf("%s%d", columnLetter(g.FromCol), g.FromRow)
	end := columnLetter(g.ToCol)
	if g.ToRow > 0 {
		end += strconv.Itoa(g.ToRow)
	}
	return fmt.Sprintf("'%s'!%s:%s", strings.ReplaceAll(worksheet, "'", "''"), start, end)
}

// columnLetter converts a 1-indexed column into its spreadsheet letters (1 → A, 27 → AA).
func columnLetter(col int) string {
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

// valuesAPI is the subset of the Sheets values service used by the store.
type valuesAPI interface {
	get(ctx context.Context, rng gridRange) ([][]any, error)
	update(ctx context.Context, rng gridRange, values [][]any) error
	append(ctx context.Context, rng gridRange, values [][]any) error
}

// sheetsValues adapts sheets.Service to valuesAPI.
type sheetsValues struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

func (v *sheetsValues) get(ctx context.Context, rng gridRange) ([][]any, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(v.spreadsheetID, rng.a1(v.worksheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *sheetsValues) update(ctx context.Context, rng gridRange, values [][]any) error {
	_, err := v.svc.Spreadsheets.Values.Update(v.spreadsheetID, rng.a1(v.worksheet), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (v *sheetsValues) append(ctx context.Context, rng gridRange, values [][]any) error {
	_, err := v.svc.Spreadsheets.Values.Append(v.spreadsheetID, rng.a1(v.worksheet), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// GoogleSheetStoreImpl is a SheetStore backed by a Google Sheets worksheet.
// Row 1 holds headers, column A the date and columns B-F the metrics.
type GoogleSheetStoreImpl struct {
	values    valuesAPI
	worksheet string
}

var _ contract.SheetStore = &GoogleSheetStoreImpl{} // Compile-time check

// NewGoogleSheetStore connects to the spreadsheet with a service account credentials file
// and verifies that the worksheet exists.
func NewGoogleSheetStore(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (*GoogleSheetStoreImpl, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client from %q: %w", credentialsFile, err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w. Check that it is shared with the service account", spreadsheetID, err)
	}
	found := false
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("worksheet %q not found in spreadsheet %s", worksheet, spreadsheetID)
	}

	return newGoogleSheetStore(&sheetsValues{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, worksheet), nil
}

func newGoogleSheetStore(values valuesAPI, worksheet string) *GoogleSheetStoreImpl {
	return &GoogleSheetStoreImpl{values: values, worksheet: worksheet}
}

// cellText converts a value returned by the Sheets API into cell text.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// dateText converts a date column value into a DateKey string.
// Typed dates are stored by Sheets as date cells and come back as serial day numbers.
func dateText(v any) string {
	if serial, ok := v.(float64); ok {
		day := serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
		return day.Format(schema.DateLayout)
	}
	return strings.TrimSpace(cellText(v))
}

// FirstDataRow implements the Sheet interface.
func (g *GoogleSheetStoreImpl) FirstDataRow() int {
	return sheetsFirstDataRow
}

// dateColumn returns the text of column A from the first data row on.
func (g *GoogleSheetStoreImpl) dateColumn(ctx context.Context) ([]string, error) {
	rows, err := g.values.get(ctx, gridRange{
		FromCol: schema.DateColumn, ToCol: schema.DateColumn, FromRow: sheetsFirstDataRow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read date column: %w", err)
	}
	dates := make([]string, len(rows))
	for i, r := range rows {
		if len(r) > 0 {
			dates[i] = dateText(r[0])
		}
	}
	return dates, nil
}

// FindRow implements the Sheet interface.
func (g *GoogleSheetStoreImpl) FindRow(ctx context.Context, date schema.DateKey) (int, error) {
	dates, err := g.dateColumn(ctx)
	if err != nil {
		return 0, err
	}
	for i, d := range dates {
		if d == string(date) {
			row := sheetsFirstDataRow + i
			contract.Logger.Debug().Str("date", string(date)).Int("row", row).Msg("found row")
			return row, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", contract.ErrDateNotFound, date)
}

// ReadRange implements the Sheet interface.
// The API omits trailing blank cells, so the result may be shorter than requested.
func (g *GoogleSheetStoreImpl) ReadRange(ctx context.Context, col, fromRow, toRow int) ([]string, error) {
	if toRow < fromRow {
		return []string{}, nil
	}
	rows, err := g.values.get(ctx, gridRange{FromCol: col, ToCol: col, FromRow: fromRow, ToRow: toRow})
	if err != nil {
		return nil, fmt.Errorf("failed to read column %s rows %d-%d: %w", columnLetter(col), fromRow, toRow, err)
	}
	result := make([]string, len(rows))
	for i, r := range rows {
		if len(r) > 0 {
			result[i] = cellText(r[0])
		}
	}
	contract.Logger.Debug().Int("col", col).Int("from", fromRow).Int("to", toRow).Msg("read range")
	return result, nil
}

// WriteCell implements the Sheet interface.
// Integers are written as numbers and blank text clears the cell.
func (g *GoogleSheetStoreImpl) WriteCell(ctx context.Context, row, col int, value string) error {
	if row < sheetsFirstDataRow {
		return fmt.Errorf("row %d is not a data row", row)
	}
	var v any = value
	if col != schema.DateColumn {
		cell, err := schema.ParseCell(value)
		if err != nil {
			return err
		}
		if cell.Present {
			v = cell.Value
		} else {
			v = ""
		}
	}
	rng := gridRange{FromCol: col, ToCol: col, FromRow: row, ToRow: row}
	if err := g.values.update(ctx, rng, [][]any{{v}}); err != nil {
		return fmt.Errorf("failed to write %s%d: %w", columnLetter(col), row, err)
	}
	contract.Logger.Debug().Int("row", row).Int("col", col).Str("value", value).Msg("wrote cell")
	return nil
}

// WriteRow implements the Sheet interface with a single update over the metric columns.
func (g *GoogleSheetStoreImpl) WriteRow(ctx context.Context, row int, values []string) error {
	if row < sheetsFirstDataRow {
		return fmt.Errorf("row %d is not a data row", row)
	}
	cells, err := parseRow(values)
	if err != nil {
		return err
	}
	out := make([]any, len(cells))
	for i, cell := range cells {
		out[i] = ""
		if cell.Present {
			out[i] = cell.Value
		}
	}
	rng := gridRange{FromCol: schema.DateColumn + 1, ToCol: lastColumn(), FromRow: row, ToRow: row}
	if err := g.values.update(ctx, rng, [][]any{out}); err != nil {
		return fmt.Errorf("failed to write %s: %w", rng.a1(g.worksheet), err)
	}
	contract.Logger.Debug().Int("row", row).Strs("values", values).Msg("wrote row")
	return nil
}

// lastColumn is the rightmost column of the KPI sheet.
func lastColumn() int {
	return schema.DateColumn + len(schema.MetricSet)
}

// Rows implements the SheetStore interface.
func (g *GoogleSheetStoreImpl) Rows(ctx context.Context) ([]schema.KPIRow, error) {
	raw, err := g.values.get(ctx, gridRange{
		FromCol: schema.DateColumn, ToCol: lastColumn(), FromRow: sheetsFirstDataRow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read KPI rows: %w", err)
	}

	var results []schema.KPIRow
	for i, r := range raw {
		if len(r) == 0 || dateText(r[0]) == "" {
			continue
		}
		record := schema.KPIRow{
			Row:    sheetsFirstDataRow + i,
			Date:   schema.DateKey(dateText(r[0])),
			Values: make([]schema.Cell, len(schema.MetricSet)),
		}
		for j := range schema.MetricSet {
			idx := j + 1
			if idx >= len(r) {
				break
			}
			cell, err := schema.ParseCell(cellText(r[idx]))
			if err != nil {
				contract.LogWarn(fmt.Sprintf("ignoring cell %s%d", columnLetter(idx+1), record.Row), err)
				continue
			}
			record.Values[j] = cell
		}
		results = append(results, record)
	}
	return results, nil
}

// AppendDates implements the SheetStore interface.
func (g *GoogleSheetStoreImpl) AppendDates(ctx context.Context, dates []schema.DateKey) (int, error) {
	existing, err := g.dateColumn(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		seen[d] = struct{}{}
	}

	var values [][]any
	for _, date := range dates {
		if _, ok := seen[string(date)]; ok {
			continue
		}
		seen[string(date)] = struct{}{}
		values = append(values, []any{string(date)})
	}
	if len(values) == 0 {
		return 0, nil
	}

	rng := gridRange{FromCol: schema.DateColumn, ToCol: schema.DateColumn, FromRow: sheetsFirstDataRow}
	if err := g.values.append(ctx, rng, values); err != nil {
		return 0, fmt.Errorf("failed to append dates: %w", err)
	}
	return len(values), nil
}

// GetStatus implements the SheetStore interface.
func (g *GoogleSheetStoreImpl) GetStatus(ctx context.Context) (schema.SheetStatus, error) {
	status := schema.SheetStatus{
		Backend:   fmt.Sprintf("%s (%s)", schema.SheetsBackend, g.worksheet),
		Connected: g.values != nil,
	}
	rows, err := g.Rows(ctx)
	if err != nil {
		return status, err
	}
	status.TotalRows = len(rows)
	for _, r := range rows {
		if r.IsFilled() {
			status.FilledRows++
		}
	}
	if len(rows) > 0 {
		status.FirstDate = string(rows[0].Date)
		status.LastDate = string(rows[len(rows)-1].Date)
	}
	return status, nil
}

// Close implements the SheetStore interface. The HTTP client needs no cleanup.
func (g *GoogleSheetStoreImpl) Close() error {
	return nil
}
