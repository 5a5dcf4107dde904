package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cashflow-validator/internal/data"
	"cashflow-validator/internal/model"
	"cashflow-validator/internal/report"
	"cashflow-validator/internal/validate"
)

// Demo:
// - Build a small three-period cashflow table in memory (or load a CSV)
// - Run a validation pass to show how the pieces fit together
// - Optionally write the detailed comparison CSV
func main() {
	dataPath := flag.String("data", "", "Optional path to a worksheet CSV (default: built-in sample)")
	outCSV := flag.String("out", "", "Optional path to write the comparison CSV")
	flag.Parse()

	var table *model.Table
	if *dataPath != "" {
		loaded, err := data.LoadCSV(*dataPath)
		if err != nil {
			panic(err)
		}
		table = loaded
	} else {
		table = sampleTable()
	}

	engine := validate.New()
	res, err := engine.Run(table, validate.Options{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Validated %d periods\n", res.Periods)
	for i := 0; i < res.Periods; i++ {
		fmt.Printf(
			"t=%2d  survival=%.6f  factor=%.6f  expected=%10.4f  discounted=%10.4f\n",
			i,
			res.Derived.Survival[i],
			res.Derived.DiscountFactor[i],
			res.Derived.ExpectedCashflow[i],
			res.Derived.DiscountedCashflow[i],
		)
	}
	fmt.Printf("present value=%.4f\n\n", res.Derived.PresentValue)

	for _, mr := range res.Report.Metrics {
		status := "ok"
		if !mr.Checked {
			status = "not checked"
		} else if mr.Mismatched {
			status = fmt.Sprintf("MISMATCH rows=%v", mr.Rows)
		}
		fmt.Printf("%-22s %s\n", mr.Metric, status)
	}

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		if err := report.WriteComparisonCSV(*outCSV, table, res); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

// sampleTable is a three-period projection with internally consistent
// reported columns, so the demo passes out of the box.
func sampleTable() *model.Table {
	cols := map[string][]float64{
		model.ColTime:               {1, 2, 3},
		model.ColCashflow:           {0, 100, 100},
		model.ColDeathRate:          {0, 0.1, 0.2},
		model.ColDiscountRate:       {0, 0.05, 0.05},
		model.ColSurvivalRate:       {1, 0.9, 0.72},
		model.ColDiscountFactor:     {1, 1 / 1.05, 1 / (1.05 * 1.05)},
		model.ColExpectedCashflow:   {0, 90, 72},
		model.ColDiscountedCashflow: {0, 90 / 1.05, 72 / (1.05 * 1.05)},
		model.ColPresentValue:       {90/1.05 + 72/(1.05*1.05), 0, 0},
	}
	order := []string{
		model.ColTime, model.ColCashflow, model.ColDeathRate, model.ColDiscountRate,
		model.ColSurvivalRate, model.ColDiscountFactor,
		model.ColExpectedCashflow, model.ColDiscountedCashflow, model.ColPresentValue,
	}
	return data.FromColumns(order, cols)
}
