package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/humanosaude/portal/internal/adsreport"
	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/store"
)

// maxRowErrors caps how many problems are kept in the history message.
const maxRowErrors = 5

type metricWriter interface {
	UpsertDaily(ctx context.Context, m *store.CampaignMetric) error
}

type historyWriter interface {
	InsertImportHistory(ctx context.Context, history *store.ImportHistory) error
}

type importer struct {
	campaigns     metricWriter
	history       historyWriter
	log           *logger.Logger
	opts          adsreport.Options
	trigger       string
	maxConcurrent int
	now           func() time.Time
}

type fileResult struct {
	Path     string
	Status   string
	Imported int
	Failed   int
	Err      error
}

// collectFiles merges the comma separated list with every .csv under dir.
func collectFiles(list, dir string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	for _, p := range strings.Split(list, ",") {
		add(p)
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				continue
			}
			add(filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (im *importer) run(ctx context.Context, paths []string) []fileResult {
	const component = "Importer"

	workers := im.maxConcurrent
	if workers < 1 {
		workers = 1
	}
	semaphore := make(chan struct{}, workers)
	results := make([]fileResult, len(paths))

	im.log.Info(component, "Starting import: files=%d maxConcurrent=%d", len(paths), workers)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = im.importFile(ctx, path)
		}(i, path)
	}
	wg.Wait()
	return results
}

func (im *importer) importFile(ctx context.Context, path string) fileResult {
	const component = "Importer"
	res := fileResult{Path: path}

	df, err := adsreport.OpenFile(path, im.opts)
	if err != nil {
		res.Status = store.StatusFailure
		res.Err = err
		im.record(ctx, res, im.now(), nil)
		im.log.Error(component, "Failed to read report: file=%s error=%v", path, err)
		return res
	}

	metrics, rowErrs := adsreport.Convert(df, path)
	res.Failed = len(rowErrs)
	problems := make([]string, 0, len(rowErrs))
	for _, re := range rowErrs {
		problems = append(problems, re.Error())
	}

	var reference time.Time
	for i := range metrics {
		if err := ctx.Err(); err != nil {
			res.Failed += len(metrics) - i
			break
		}
		m := &metrics[i]
		if err := im.campaigns.UpsertDaily(ctx, m); err != nil {
			res.Failed++
			problems = append(problems, fmt.Sprintf("campaign %s on %s: %v", m.CampaignID, m.Day.Format(time.DateOnly), err))
			im.log.Warn(component, "Upsert failed: file=%s campaign=%s day=%s error=%v", path, m.CampaignID, m.Day.Format(time.DateOnly), err)
			continue
		}
		res.Imported++
		if m.Day.After(reference) {
			reference = m.Day
		}
	}

	switch {
	case res.Imported == 0:
		res.Status = store.StatusFailure
		res.Err = fmt.Errorf("no rows imported")
	case res.Failed > 0:
		res.Status = store.StatusPartial
	default:
		res.Status = store.StatusSuccess
	}

	if reference.IsZero() {
		reference = im.now()
	}
	im.record(ctx, res, reference, problems)
	im.log.Info(component, "Report processed: file=%s status=%s imported=%d failed=%d", path, res.Status, res.Imported, res.Failed)
	return res
}

func (im *importer) record(ctx context.Context, res fileResult, reference time.Time, problems []string) {
	const component = "Importer"

	history := &store.ImportHistory{
		ReferenceDate: reference,
		SourceFile:    filepath.Base(res.Path),
		TriggerType:   im.trigger,
		Status:        res.Status,
		RowsImported:  res.Imported,
		RowsFailed:    res.Failed,
		ErrorMessage:  summarize(res.Err, problems),
	}
	if err := im.history.InsertImportHistory(ctx, history); err != nil {
		im.log.Error(component, "Failed to insert import history: file=%s error=%v", res.Path, err)
	}
}

func summarize(err error, problems []string) *string {
	var parts []string
	if err != nil {
		parts = append(parts, err.Error())
	}
	for i, p := range problems {
		if i == maxRowErrors {
			parts = append(parts, fmt.Sprintf("and %d more", len(problems)-maxRowErrors))
			break
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return nil
	}
	msg := strings.Join(parts, "; ")
	return &msg
}
