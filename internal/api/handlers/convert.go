package handlers

import (
	"cashflow-validator/internal/api/models"
	"cashflow-validator/internal/model"
	"cashflow-validator/internal/tablediff"
	"cashflow-validator/internal/validate"
)

// buildValidationResponse converts an engine result into the API shape.
// Diff sequences are bulky, so they are included only on request.
func buildValidationResponse(res *validate.Result, includeDiffs bool) models.ValidationResponse {
	rep := res.Report

	out := models.ValidationResponse{
		Periods:   res.Periods,
		Passed:    rep.Passed(),
		Tolerance: rep.Tolerance,
		PresentValue: models.PresentValueResult{
			Checked:    rep.PresentValue.Checked,
			Mismatched: rep.PresentValue.Mismatched,
			Computed:   rep.PresentValue.Computed,
			Reported:   rep.PresentValue.Reported,
			Diff:       rep.PresentValue.Diff,
		},
	}
	out.Status = "passed"
	if !out.Passed {
		out.Status = "mismatched"
	}

	out.Metrics = make([]models.MetricResult, 0, len(rep.Metrics))
	for _, mr := range rep.Metrics {
		m := models.MetricResult{
			Metric:         string(mr.Metric),
			Checked:        mr.Checked,
			ReportedColumn: mr.ReportedColumn,
			Mismatched:     mr.Mismatched,
			MismatchedRows: mr.Rows,
			EmptyRows:      mr.Empty,
		}
		if includeDiffs {
			m.Diffs = mr.Diffs
		}
		out.Metrics = append(out.Metrics, m)
	}

	for _, cl := range res.Classifications {
		out.Classifications = append(out.Classifications, models.ColumnClassification{
			Column:         cl.Column,
			Kind:           string(cl.Kind),
			Representative: cl.Representative,
			Distinct:       cl.Distinct,
		})
	}

	for _, f := range res.Anomalies {
		out.Anomalies = append(out.Anomalies, models.AnomalyFlag{
			Column: f.Column,
			Row:    f.Row,
			Kind:   string(f.Kind),
			Value:  f.Value,
			Prev:   f.Prev,
			Delta:  f.Delta,
		})
	}

	return out
}

// compareTables runs the two-version diff and converts it to the API shape.
func compareTables(oldT, newT *model.Table, tolerance float64) models.CompareResponse {
	rep := tablediff.Compare(oldT, newT, tolerance)

	out := models.CompareResponse{
		Identical:      rep.Identical(),
		Tolerance:      rep.Tolerance,
		AddedColumns:   rep.AddedColumns,
		RemovedColumns: rep.RemovedColumns,
	}
	for _, cd := range rep.Changed {
		cc := models.ColumnChange{
			Column:  cd.Column,
			OldRows: cd.OldRows,
			NewRows: cd.NewRows,
		}
		for _, cell := range cd.Changed {
			cc.Cells = append(cc.Cells, models.CellChange{
				Row:      cell.Row,
				Old:      cell.Old,
				New:      cell.New,
				Delta:    cell.Delta,
				OldEmpty: cell.OldEmpty,
				NewEmpty: cell.NewEmpty,
			})
		}
		out.Changed = append(out.Changed, cc)
	}
	return out
}
