package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"cashflow-validator/internal/api/models"
	"cashflow-validator/internal/config"
	"cashflow-validator/internal/data"
	"cashflow-validator/internal/model"
	"cashflow-validator/internal/validate"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ValidateHandler handles validation-related requests
type ValidateHandler struct {
	engine *validate.Engine
	cfg    *config.Config
	log    *zap.Logger
}

// NewValidateHandler creates a new validate handler
func NewValidateHandler(cfg *config.Config, log *zap.Logger) *ValidateHandler {
	return &ValidateHandler{
		engine: validate.New(),
		cfg:    cfg,
		log:    log,
	}
}

// RunValidation handles POST /api/v1/validate.
//
// Two request shapes are accepted:
//   - multipart/form-data: "file" (values CSV), optional "formulas"
//     (raw-cell CSV), optional "tolerance", "jump_threshold" and
//     "include_diffs" fields
//   - application/json: models.ValidateRequest
func (h *ValidateHandler) RunValidation(c *gin.Context) {
	table, opts, ok := h.parseValidateRequest(c)
	if !ok {
		return
	}

	result, err := h.engine.Run(table, validate.Options{
		Tolerance:     opts.Tolerance,
		JumpThreshold: opts.JumpThreshold,
		Bindings:      h.bindings(opts.Aliases),
	})
	if err != nil {
		h.log.Warn("validation run failed", zap.Error(err))
		writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildValidationResponse(result, opts.IncludeDiffs))
}

// CompareVersions handles POST /api/v1/compare.
func (h *ValidateHandler) CompareVersions(c *gin.Context) {
	oldT, newT, tolerance, ok := h.parseCompareRequest(c)
	if !ok {
		return
	}
	if tolerance <= 0 {
		tolerance = h.cfg.Tolerance
	}

	rep := compareTables(oldT, newT, tolerance)
	c.JSON(http.StatusOK, rep)
}

// ListColumns handles GET /api/v1/columns.
func (h *ValidateHandler) ListColumns(c *gin.Context) {
	bindings := h.cfg.Bindings()
	reported := make(map[string][]string, len(bindings))
	for metric, cols := range bindings {
		reported[string(metric)] = cols
	}
	c.JSON(http.StatusOK, models.ColumnsResponse{
		Required: []string{
			model.ColTime,
			model.ColCashflow,
			model.ColDeathRate,
			model.ColDiscountRate,
		},
		Reported: reported,
	})
}

// Helper methods

func (h *ValidateHandler) parseValidateRequest(c *gin.Context) (*model.Table, models.ValidateOptions, bool) {
	var opts models.ValidateOptions

	if !isMultipart(c) {
		var req models.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return nil, opts, false
		}
		t := data.FromColumns(req.Table.Order, req.Table.Columns)
		t.Raw = req.Table.RawCells
		return t, req.Options, true
	}

	file, err := formFile(c, "file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
		return nil, opts, false
	}
	defer file.Close()

	t, err := data.ReadCSV(file)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_TABLE", err.Error())
		return nil, opts, false
	}

	if formulas, err := formFile(c, "formulas"); err == nil {
		defer formulas.Close()
		grid, err := data.ReadFormulaGrid(formulas)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_FORMULAS", err.Error())
			return nil, opts, false
		}
		t.Raw = grid
	}

	if v := c.PostForm("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_TOLERANCE", "tolerance must be a positive number")
			return nil, opts, false
		}
		opts.Tolerance = tol
	}
	if v := c.PostForm("jump_threshold"); v != "" {
		jt, err := strconv.ParseFloat(v, 64)
		if err != nil || jt <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_JUMP_THRESHOLD", "jump_threshold must be a positive number")
			return nil, opts, false
		}
		opts.JumpThreshold = jt
	}
	opts.IncludeDiffs = c.PostForm("include_diffs") == "true"

	return t, opts, true
}

func (h *ValidateHandler) parseCompareRequest(c *gin.Context) (oldT, newT *model.Table, tolerance float64, ok bool) {
	if !isMultipart(c) {
		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return nil, nil, 0, false
		}
		oldT = data.FromColumns(req.Old.Order, req.Old.Columns)
		newT = data.FromColumns(req.New.Order, req.New.Columns)
		return oldT, newT, req.Tolerance, true
	}

	for _, field := range []struct {
		name string
		dst  **model.Table
	}{
		{"old", &oldT},
		{"new", &newT},
	} {
		f, err := formFile(c, field.name)
		if err != nil {
			writeError(c, http.StatusBadRequest, "MISSING_FILE",
				"multipart fields \"old\" and \"new\" are required")
			return nil, nil, 0, false
		}
		t, perr := data.ReadCSV(f)
		f.Close()
		if perr != nil {
			writeError(c, http.StatusBadRequest, "INVALID_TABLE", perr.Error())
			return nil, nil, 0, false
		}
		*field.dst = t
	}

	if v := c.PostForm("tolerance"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_TOLERANCE", "tolerance must be a positive number")
			return nil, nil, 0, false
		}
		tolerance = tol
	}
	return oldT, newT, tolerance, true
}

func (h *ValidateHandler) bindings(aliases map[string][]string) model.Bindings {
	bindings := h.cfg.Bindings()
	if len(aliases) == 0 {
		return bindings
	}
	override := make(model.Bindings, len(aliases))
	for metric, cols := range aliases {
		override[model.Metric(metric)] = cols
	}
	return bindings.Merge(override)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func formFile(c *gin.Context, name string) (multipart.File, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

// writeRunError maps engine errors onto the API error envelope. Fatal input
// errors are the client's data, not a server fault.
func writeRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrMissingColumn):
		writeError(c, http.StatusUnprocessableEntity, "MISSING_COLUMN", err.Error())
	case errors.Is(err, model.ErrMisalignedLength):
		writeError(c, http.StatusUnprocessableEntity, "MISALIGNED_LENGTH", err.Error())
	case errors.Is(err, model.ErrNumericDomain):
		writeError(c, http.StatusUnprocessableEntity, "NUMERIC_DOMAIN", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "VALIDATION_ERROR", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
