// Command sampledata generates synthetic historic call-volume records for
// exercising the pipeline end to end: a daily sinusoidal shape per entity
// with weekday damping and seeded noise, written as CSV or XLSX in the raw
// input schema.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"callcast/pkg/contracts/domain"
)

var header = []string{"anio", "mes", "dia", "hora", "api_name", "familia", "llamados"}

type genOptions struct {
	out      string
	format   string
	start    string
	days     int
	freq     time.Duration
	entities string
	families string
	seed     int64
}

func parseFlags(args []string) (*genOptions, error) {
	fs := flag.NewFlagSet("sampledata", flag.ContinueOnError)
	opts := &genOptions{}
	fs.StringVar(&opts.out, "out", "historic.csv", "output file (.csv or .xlsx)")
	fs.StringVar(&opts.format, "format", "", "output format, defaults to the file extension")
	fs.StringVar(&opts.start, "start", "2025-01-06", "first day (YYYY-MM-DD)")
	fs.IntVar(&opts.days, "days", 3, "number of full days to generate")
	fs.DurationVar(&opts.freq, "freq", 5*time.Minute, "record spacing")
	fs.StringVar(&opts.entities, "entities", "api_pagos,api_saldo", "comma-separated entity names")
	fs.StringVar(&opts.families, "families", "pagos,consultas", "comma-separated families, paired with entities cyclically")
	fs.Int64Var(&opts.seed, "seed", 42, "random seed")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.days < 1 {
		return nil, fmt.Errorf("days must be at least 1")
	}
	if opts.freq <= 0 {
		return nil, fmt.Errorf("freq must be positive")
	}
	return opts, nil
}

// generate produces the synthetic records. The same options always produce
// the same records.
func generate(opts *genOptions) ([]domain.RawRecord, error) {
	start, err := time.Parse("2006-01-02", opts.start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", opts.start, err)
	}
	entities := splitList(opts.entities)
	families := splitList(opts.families)
	if len(entities) == 0 || len(families) == 0 {
		return nil, fmt.Errorf("entities and families must be non-empty")
	}

	rng := rand.New(rand.NewSource(opts.seed))
	perDay := int(24 * time.Hour / opts.freq)

	var records []domain.RawRecord
	for e, entity := range entities {
		family := families[e%len(families)]
		base := 40.0 + 10.0*float64(e)
		for d := 0; d < opts.days; d++ {
			day := start.AddDate(0, 0, d)
			weekday := 1.0
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				weekday = 0.5
			}
			for p := 0; p < perDay; p++ {
				ts := day.Add(time.Duration(p) * opts.freq)
				phase := 2 * math.Pi * float64(p) / float64(perDay)
				count := weekday * (base + 25.0*math.Sin(phase-math.Pi/2) + rng.NormFloat64()*4.0)
				if count < 0 {
					count = 0
				}
				records = append(records, domain.RawRecord{
					Year:   ts.Year(),
					Month:  int(ts.Month()),
					Day:    ts.Day(),
					Time:   ts.Format("15:04:05"),
					Entity: entity,
					Family: family,
					Count:  math.Round(count),
				})
			}
		}
	}
	return records, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func recordRow(r domain.RawRecord) []string {
	return []string{
		strconv.Itoa(r.Year),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Day),
		r.Time,
		r.Entity,
		r.Family,
		strconv.FormatFloat(r.Count, 'f', -1, 64),
	}
}

func writeCSV(path string, records []domain.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(recordRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, records []domain.RawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i, r := range records {
		for col, value := range recordRow(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func write(opts *genOptions, records []domain.RawRecord) error {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.out)), ".")
	}
	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	switch format {
	case "csv":
		return writeCSV(opts.out, records)
	case "xlsx":
		return writeXLSX(opts.out, records)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return 2
	}
	records, err := generate(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sampledata: %v\n", err)
		return 1
	}
	if err := write(opts, records); err != nil {
		fmt.Fprintf(os.Stderr, "sampledata: %v\n", err)
		return 1
	}
	fmt.Printf("%s: %d records\n", opts.out, len(records))
	return 0
}
