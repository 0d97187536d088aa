// Package main provides a performance benchmarking tool for the farmstat report engine.
// It generates synthetic record sets of increasing size, loads each into a temporary
// SQLite store, and times report generation for every preset. Each preset runs several
// times: the first successful run counts as cold and the rest are averaged as warm.
// An in-memory pass without the store serves as the baseline. Results go to a CSV file.
//
// Usage: go run ./benchmark [max-records]
//
//	max-records: Largest synthetic record set to generate (default 100000)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/internal/recordstore"
	"github.com/huangsam/farmstat/schema"
)

// BenchmarkResult holds the result of one preset over one record set size.
type BenchmarkResult struct {
	Records    int
	Preset     schema.Preset
	MemoryTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Sizes      []int
	Timeout    time.Duration
	MemoryRuns int
	StoreRuns  int
	Presets    []schema.Preset
	Seed       uint64
}

func main() {
	maxRecords := 100000
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 1 {
			fmt.Printf("Usage: %s [max-records]\n", os.Args[0])
			os.Exit(1)
		}
		maxRecords = n
	}

	config := BenchmarkConfig{
		Sizes:      sizesUpTo(maxRecords),
		Timeout:    2 * time.Minute,
		MemoryRuns: 3,
		StoreRuns:  4,
		Presets:    schema.AllPresets,
		Seed:       42,
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// sizesUpTo returns powers of ten from 1000 up to max, always ending with max.
func sizesUpTo(maxRecords int) []int {
	var sizes []int
	for n := 1000; n < maxRecords; n *= 10 {
		sizes = append(sizes, n)
	}
	return append(sizes, maxRecords)
}

// syntheticRecords spreads n records over the two years before now.
func syntheticRecords(n int, seed uint64, now time.Time) schema.RecordSet {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	crops := []string{"wheat", "corn", "barley", "oats", "soy"}
	expenses := []string{"fuel", "seed", "fertilizer", "repairs", "labor"}
	livestock := []string{"feed", "vet", "bedding"}

	records := make(schema.RecordSet, 0, n)
	for range n {
		rec := schema.Record{Date: schema.Day(now.AddDate(0, 0, -rng.IntN(730)))}
		switch rng.IntN(3) {
		case 0:
			rec.Kind = schema.CropRecord
			rec.Category = crops[rng.IntN(len(crops))]
			rec.Area = schema.Float(1 + rng.Float64()*50)
			rec.ExpectedYield = schema.Float(rng.Float64() * 10)
			rec.MarketPrice = schema.Float(100 + rng.Float64()*200)
		case 1:
			rec.Kind = schema.ExpenseRecord
			rec.Category = expenses[rng.IntN(len(expenses))]
			rec.Amount = schema.Float(rng.Float64() * 2000)
		default:
			rec.Kind = schema.LivestockExpenseRecord
			rec.Category = livestock[rng.IntN(len(livestock))]
			rec.Amount = schema.Float(rng.Float64() * 800)
		}
		records = append(records, rec)
	}
	return records
}

// runBenchmarks executes every preset against every record set size.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: sizes %v, %v timeout, memory: %d runs, store: %d runs\n",
		config.Sizes, config.Timeout, config.MemoryRuns, config.StoreRuns)

	now := time.Now()
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d records\n", size)
		records := syntheticRecords(size, config.Seed, now)

		dir, err := os.MkdirTemp("", "farmstat-benchmark-*")
		if err != nil {
			return nil, err
		}
		store, err := recordstore.NewRecordStore(schema.SQLiteBackend, filepath.Join(dir, "bench.db"))
		if err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}

		start := time.Now()
		if _, err := store.ImportRecords(context.Background(), records); err != nil {
			_ = store.Close()
			_ = os.RemoveAll(dir)
			return nil, err
		}
		fmt.Printf("  Imported in %.3fs\n", time.Since(start).Seconds())

		for _, preset := range config.Presets {
			results = append(results, runBenchmarkSuite(config, store, records, size, preset))
		}

		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
		_ = os.RemoveAll(dir)
	}

	return results, nil
}

// runBenchmarkSuite runs both the in-memory and the store-backed phase for one preset.
func runBenchmarkSuite(config BenchmarkConfig, store contract.RecordStore, records schema.RecordSet, size int, preset schema.Preset) BenchmarkResult {
	fmt.Printf("Running preset %s on %d records\n", preset, size)

	memory := func(ctx context.Context) error {
		_, err := core.NewAssembler().Generate(ctx, schema.PresetSpec(preset), schema.DefaultTrendMetrics, core.StaticFetch(records))
		return err
	}
	cfg := &contract.Config{
		Range:         schema.PresetSpec(preset),
		CompareTo:     contract.CompareAdjacent,
		Metrics:       schema.DefaultTrendMetrics,
		MonthlyWindow: contract.DefaultMonthlyWindow,
	}
	stored := func(ctx context.Context) error {
		_, err := core.GenerateReport(ctx, cfg, store)
		return err
	}

	// The in-memory pass has nothing to warm up, so every run counts.
	memoryFirst, memoryRest := runBenchmark(config, memory, config.MemoryRuns)
	memoryAvg := "n/a"
	if memoryFirst > 0 {
		memoryAvg = average(append([]float64{memoryFirst}, memoryRest...))
	}

	coldTime, warmTimes := runBenchmark(config, stored, config.StoreRuns)
	coldStr := "TIMEOUT"
	if coldTime > 0 {
		coldStr = fmt.Sprintf("%.4fs", coldTime)
	}
	warmAvg := average(warmTimes)

	fmt.Printf("  Memory average: %s, Cold time: %s, Warm average: %s\n", memoryAvg, coldStr, warmAvg)

	return BenchmarkResult{
		Records:    size,
		Preset:     preset,
		MemoryTime: memoryAvg,
		ColdTime:   coldStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes fn numRuns times and returns the first successful time and the rest.
func runBenchmark(config BenchmarkConfig, fn func(context.Context) error, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := fn(ctx)
		elapsed := time.Since(start).Seconds()
		cancel()
		if err != nil {
			fmt.Printf("  Run failed: %v\n", err)
			continue
		}
		times = append(times, elapsed)
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(times []float64) string {
	if len(times) == 0 {
		return "n/a"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.4fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("farmstat_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"records", "preset", "memory_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		row := []string{strconv.Itoa(result.Records), string(result.Preset), result.MemoryTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, size := range config.Sizes {
		fmt.Printf("%d records:\n", size)
		for _, result := range results {
			if result.Records == size {
				fmt.Printf("  %-4s: Memory: %s, Cold: %s, Warm: %s\n", result.Preset, result.MemoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
