package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cashflow-validator/internal/anomaly"
	"cashflow-validator/internal/config"
	"cashflow-validator/internal/data"
	"cashflow-validator/internal/formula"
	"cashflow-validator/internal/model"
	"cashflow-validator/internal/report"
	"cashflow-validator/internal/tablediff"
	"cashflow-validator/internal/validate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "validate":
		cmdValidate(os.Args[2:])
	case "classify":
		cmdClassify(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli validate --data cashflow.csv [--formulas formulas.csv] [--config cfg.yaml] [--out results/comparison.csv]")
	fmt.Println("  cli classify --formulas formulas.csv")
	fmt.Println("  cli compare --old v1.csv --new v2.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - validate recomputes the derived columns and reconciles them against the sheet")
	fmt.Println("  - classify inspects raw cell formulas for row-to-row inconsistency")
	fmt.Println("  - compare diffs two versions of the same workbook export")
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to the worksheet values (CSV, or JSON of named columns)")
	formulasPath := fs.String("formulas", "", "Optional path to the raw-cell formula CSV")
	cfgPath := fs.String("config", "", "Optional path to YAML config")
	outPath := fs.String("out", "", "Optional path for the detailed comparison CSV")
	_ = fs.Parse(args)

	if *dataPath == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}

	table, err := loadTable(*dataPath)
	if err != nil {
		fatal(err)
	}
	if *formulasPath != "" {
		grid, err := data.LoadFormulaGrid(*formulasPath)
		if err != nil {
			fatal(err)
		}
		table.Raw = grid
	}

	engine := validate.New()
	res, err := engine.Run(table, validate.Options{
		Tolerance:     cfg.Tolerance,
		JumpThreshold: cfg.JumpThreshold,
		Bindings:      cfg.Bindings(),
	})
	if err != nil {
		fatal(err)
	}

	printResult(res)

	// --out wins; otherwise a loaded config's report path is honored.
	dest := *outPath
	if dest == "" && *cfgPath != "" {
		dest = cfg.Report.Out
	}
	if dest != "" {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			fatal(err)
		}
		if err := report.WriteComparisonCSV(dest, table, res); err != nil {
			fatal(err)
		}
		fmt.Printf("\nWrote comparison table to %s\n", dest)
	}

	if !res.Report.Passed() {
		os.Exit(1)
	}
}

func cmdClassify(args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	formulasPath := fs.String("formulas", "", "Path to the raw-cell formula CSV")
	_ = fs.Parse(args)

	if *formulasPath == "" {
		fmt.Println("--formulas is required")
		os.Exit(2)
	}

	grid, err := data.LoadFormulaGrid(*formulasPath)
	if err != nil {
		fatal(err)
	}

	names := make([]string, 0, len(grid))
	for name := range grid {
		names = append(names, name)
	}
	// Stable output regardless of map order.
	sort.Strings(names)

	for _, cl := range formula.ClassifyAll(names, grid) {
		switch cl.Kind {
		case formula.KindConsistent:
			fmt.Printf("%-25s %s  (%s)\n", cl.Column, cl.Kind, cl.Representative)
		case formula.KindInconsistent:
			fmt.Printf("%-25s %s  %v\n", cl.Column, cl.Kind, cl.Distinct)
		default:
			fmt.Printf("%-25s %s\n", cl.Column, cl.Kind)
		}
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	oldPath := fs.String("old", "", "Path to the older version CSV")
	newPath := fs.String("new", "", "Path to the newer version CSV")
	tol := fs.Float64("tolerance", 1e-6, "Absolute comparison tolerance")
	_ = fs.Parse(args)

	if *oldPath == "" || *newPath == "" {
		fmt.Println("--old and --new are required")
		os.Exit(2)
	}

	oldT, err := data.LoadCSV(*oldPath)
	if err != nil {
		fatal(err)
	}
	newT, err := data.LoadCSV(*newPath)
	if err != nil {
		fatal(err)
	}

	rep := tablediff.Compare(oldT, newT, *tol)
	if rep.Identical() {
		fmt.Println("Versions are identical within tolerance.")
		return
	}

	for _, c := range rep.AddedColumns {
		fmt.Printf("added column:   %s\n", c)
	}
	for _, c := range rep.RemovedColumns {
		fmt.Printf("removed column: %s\n", c)
	}
	for _, cd := range rep.Changed {
		fmt.Printf("changed column: %s (%d cells", cd.Column, len(cd.Changed))
		if cd.OldRows != cd.NewRows {
			fmt.Printf(", rows %d->%d", cd.OldRows, cd.NewRows)
		}
		fmt.Println(")")
		for _, cell := range cd.Changed {
			fmt.Printf("  row %d: %.6f -> %.6f (delta %+.6f)\n", cell.Row, cell.Old, cell.New, cell.Delta)
		}
	}
	os.Exit(1)
}

func printResult(res *validate.Result) {
	fmt.Printf("Validated %d periods (tolerance %g)\n\n", res.Periods, res.Report.Tolerance)

	for _, mr := range res.Report.Metrics {
		switch {
		case !mr.Checked:
			fmt.Printf("%-22s not checked (reported column missing)\n", mr.Metric)
		case mr.Mismatched:
			fmt.Printf("%-22s MISMATCH at rows %v\n", mr.Metric, mr.Rows)
		default:
			fmt.Printf("%-22s ok (column %q)\n", mr.Metric, mr.ReportedColumn)
		}
	}

	pv := res.Report.PresentValue
	switch {
	case !pv.Checked:
		fmt.Printf("%-22s not checked (no reported total)\n", "present_value")
	case pv.Mismatched:
		fmt.Printf("%-22s MISMATCH calculated=%.2f sheet=%.2f\n", "present_value", pv.Computed, pv.Reported)
	default:
		fmt.Printf("%-22s ok (%.2f)\n", "present_value", pv.Computed)
	}

	if len(res.Classifications) > 0 {
		fmt.Println("\nFormula classification:")
		for _, cl := range res.Classifications {
			fmt.Printf("  %-23s %s\n", cl.Column, cl.Kind)
		}
	}

	if len(res.Anomalies) > 0 {
		fmt.Println("\nAssumption warnings:")
		for _, f := range res.Anomalies {
			if f.Kind == anomaly.FlagJump {
				fmt.Printf("  %s row %d: jump %.4f -> %.4f\n", f.Column, f.Row, f.Prev, f.Value)
			} else {
				fmt.Printf("  %s row %d: value %.4f out of range\n", f.Column, f.Row, f.Value)
			}
		}
	}

	if res.Report.Passed() {
		fmt.Println("\nAll checked calculations are correct.")
	} else {
		fmt.Println("\nIssues found; see mismatches above.")
	}
}

// loadTable picks the loader by file extension; anything that is not .json is
// treated as a worksheet CSV.
func loadTable(path string) (*model.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return data.LoadJSON(path)
	}
	return data.LoadCSV(path)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
