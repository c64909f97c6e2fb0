package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Pipeline stages used as the stage attribute on durations
const (
	StageParse    = "parse"
	StageAssemble = "assemble"
	StageExport   = "export"
)

// PipelineMetrics holds the instruments recorded during a report run
type PipelineMetrics struct {
	RowsRead        metric.Int64Counter
	RowsDropped     metric.Int64Counter
	VacanciesParsed metric.Int64Counter
	ReportsWritten  metric.Int64Counter
	StageDuration   metric.Float64Histogram
	HeapAlloc       metric.Int64Gauge
}

// CreatePipelineMetrics creates the report pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"csv_rows_total",
		metric.WithDescription("Total number of CSV data rows read"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"csv_rows_dropped_total",
		metric.WithDescription("CSV rows dropped for a column mismatch or an empty cell"),
	)
	if err != nil {
		return nil, err
	}

	vacanciesParsed, err := meter.Int64Counter(
		"vacancies_parsed_total",
		metric.WithDescription("Vacancies that survived row filtering"),
	)
	if err != nil {
		return nil, err
	}

	reportsWritten, err := meter.Int64Counter(
		"reports_written_total",
		metric.WithDescription("Report files written, by format"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Duration of each pipeline stage in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"process_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsRead:        rowsRead,
		RowsDropped:     rowsDropped,
		VacanciesParsed: vacanciesParsed,
		ReportsWritten:  reportsWritten,
		StageDuration:   stageDuration,
		HeapAlloc:       heapAlloc,
	}, nil
}

// RecordParse records the row counters of one parse
func (m *PipelineMetrics) RecordParse(ctx context.Context, rows, dropped, parsed int) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(rows))
	m.RowsDropped.Add(ctx, int64(dropped))
	m.VacanciesParsed.Add(ctx, int64(parsed))
}

// RecordReportWritten counts one written output file
func (m *PipelineMetrics) RecordReportWritten(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ReportsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordStage records how long a stage took and whether it failed
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RuntimeStats is a snapshot of Go runtime memory figures
type RuntimeStats struct {
	GoRoutines    int
	HeapAlloc     uint64
	TotalAlloc    uint64
	GCCount       uint32
	ProcessUptime time.Duration
}

// CollectRuntimeStats reads runtime memory statistics and records the heap gauge
func (m *PipelineMetrics) CollectRuntimeStats(ctx context.Context, startTime time.Time) RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		GoRoutines:    runtime.NumGoroutine(),
		HeapAlloc:     memStats.HeapAlloc,
		TotalAlloc:    memStats.TotalAlloc,
		GCCount:       memStats.NumGC,
		ProcessUptime: time.Since(startTime),
	}
	if m != nil {
		m.HeapAlloc.Record(ctx, int64(stats.HeapAlloc))
	}
	return stats
}
