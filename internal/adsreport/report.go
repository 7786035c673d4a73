// Package adsreport reads Meta Ads CSV exports into campaign metric rows.
package adsreport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"

	"github.com/humanosaude/portal/internal/store"
)

const (
	EncodingUTF8        = "utf8"
	EncodingWindows1252 = "windows1252"
)

// Report column headers as exported by Meta Ads Manager (pt-BR).
const (
	ColCampaignName  = "Nome da campanha"
	ColCampaignID    = "ID da campanha"
	ColDay           = "Dia"
	ColSpend         = "Valor usado (BRL)"
	ColImpressions   = "Impressões"
	ColReach         = "Alcance"
	ColClicks        = "Cliques no link"
	ColResults       = "Resultados"
	ColPurchases     = "Compras"
	ColPurchaseValue = "Valor de conversão"
	ColObjective     = "Objetivo"
	ColStatus        = "Status"
)

type Options struct {
	Encoding  string
	Delimiter rune
}

// Read decodes a CSV stream into a dataframe with every column kept as text.
func Read(r io.Reader, opts Options) (dataframe.DataFrame, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Encoding == EncodingWindows1252 {
		r = charmap.Windows1252.NewDecoder().Reader(r)
	}

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.HasHeader(true),
	)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataframe is empty")
	}
	return df, nil
}

func OpenFile(path string, opts Options) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return Read(file, opts)
}

// RowError describes a row that could not be converted.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Convert maps every row into a campaign metric. Rows without campaign id or
// a valid day are reported and skipped.
func Convert(df dataframe.DataFrame, sourceFile string) ([]store.CampaignMetric, []RowError) {
	df = trimHeaders(df)

	source := filepath.Base(sourceFile)
	metrics := make([]store.CampaignMetric, 0, df.Nrow())
	var failed []RowError
	for i := 0; i < df.Nrow(); i++ {
		m, err := RowToMetric(df, i, source)
		if err != nil {
			failed = append(failed, RowError{Row: i + 2, Reason: err.Error()})
			continue
		}
		metrics = append(metrics, m)
	}
	return metrics, failed
}

func RowToMetric(df dataframe.DataFrame, rowIdx int, sourceFile string) (store.CampaignMetric, error) {
	id := GetStr(ColCampaignID, rowIdx, &df)
	if id == "" {
		return store.CampaignMetric{}, fmt.Errorf("missing %q", ColCampaignID)
	}
	day, ok := ParseDate(GetStr(ColDay, rowIdx, &df))
	if !ok {
		return store.CampaignMetric{}, fmt.Errorf("invalid %q", ColDay)
	}

	return store.CampaignMetric{
		CampaignID:    id,
		CampaignName:  GetStr(ColCampaignName, rowIdx, &df),
		Day:           day,
		Spend:         ParseFloat(GetStr(ColSpend, rowIdx, &df)),
		Impressions:   ParseInt64(GetStr(ColImpressions, rowIdx, &df)),
		Reach:         ParseInt64(GetStr(ColReach, rowIdx, &df)),
		Clicks:        ParseInt64(GetStr(ColClicks, rowIdx, &df)),
		Leads:         ParseInt64(GetStr(ColResults, rowIdx, &df)),
		Purchases:     ParseInt64(GetStr(ColPurchases, rowIdx, &df)),
		PurchaseValue: ParseFloat(GetStr(ColPurchaseValue, rowIdx, &df)),
		Objective:     GetStr(ColObjective, rowIdx, &df),
		Status:        GetStr(ColStatus, rowIdx, &df),
		SourceFile:    sourceFile,
	}, nil
}

// GetStr returns the trimmed cell value, or "" when the column is absent.
func GetStr(col string, rowIdx int, df *dataframe.DataFrame) string {
	if df == nil {
		return ""
	}
	for _, n := range df.Names() {
		if n == col {
			v := strings.TrimSpace(df.Col(col).Elem(rowIdx).String())
			if v == "NaN" {
				return ""
			}
			return v
		}
	}
	return ""
}

// trimHeaders drops a UTF-8 BOM and surrounding spaces from column names.
func trimHeaders(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()
	clean := make([]string, len(names))
	changed := false
	for i, n := range names {
		clean[i] = strings.TrimSpace(strings.TrimPrefix(n, "\ufeff"))
		changed = changed || clean[i] != n
	}
	if !changed {
		return df
	}
	_ = df.SetNames(clean...)
	return df
}
