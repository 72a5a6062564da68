package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/report"
	"github.com/SKuytov/SVP/internal/report/export"
	"github.com/SKuytov/SVP/internal/validation"
	"github.com/SKuytov/SVP/pkg/logger"
)

const resourceReport = "report"

// ReportGenerator builds reports and statistics blocks
type ReportGenerator interface {
	Generate(ctx context.Context, reportType string, p report.Params) (*report.Report, error)
	Statistics(ctx context.Context, statsType string) (interface{}, error)
}

// TemplateStore persists saved report templates
type TemplateStore interface {
	SaveReportTemplate(ctx context.Context, tpl *contracts.ReportTemplate) (int64, error)
}

// ReportHandler handles report API endpoints
// ⭐ SSOT: 리포트 API 핸들러는 이 구조체에서만
type ReportHandler struct {
	generator ReportGenerator
	templates TemplateStore
	activity  contracts.ActivityRecorder // nil = 기록 안 함
	validate  *validation.Validator
	logger    *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(gen ReportGenerator, templates TemplateStore, activity contracts.ActivityRecorder, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		generator: gen,
		templates: templates,
		activity:  activity,
		validate:  validation.New(),
		logger:    log,
	}
}

// Types lists the report catalogue
// GET /api/reports
func (h *ReportHandler) Types(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"available_reports": report.Types(),
	}, "")
}

// Generate renders a report as a file download
// GET /api/reports/generate?type=suppliers&format=excel
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reportType := q.Get("type")
	if reportType == "" {
		RespondError(w, http.StatusBadRequest, "Report type is required", nil)
		return
	}

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	params, err := report.ParamsFromQuery(q)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	log := h.logger.WithFields(map[string]interface{}{
		"type":   reportType,
		"format": string(format),
	})

	rep, err := h.generator.Generate(r.Context(), reportType, params)
	if err != nil {
		HandleError(w, log, err, "Failed to generate report")
		return
	}

	// 렌더링 실패 시 JSON 에러를 보낼 수 있도록 버퍼에 먼저 씀
	var buf bytes.Buffer
	if err := export.Write(&buf, format, rep); err != nil {
		HandleError(w, log, err, "Failed to export report")
		return
	}

	exportID := uuid.NewString()
	h.recordExport(r.Context(), rep, format, exportID)

	filename := rep.Filename(format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Export-ID", exportID)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("Failed to write report body")
	}

	log.WithField("bytes", buf.Len()).Info("Report exported")
}

// recordExport writes the EXPORT activity entry for authenticated callers
func (h *ReportHandler) recordExport(ctx context.Context, rep *report.Report, format export.Format, exportID string) {
	if h.activity == nil {
		return
	}
	actor, err := auth.FromContext(ctx)
	if err != nil {
		return
	}
	details := map[string]interface{}{
		"export_id":  exportID,
		"type":       rep.Type,
		"format":     string(format),
		"parameters": rep.Parameters,
	}
	if err := h.activity.Log(ctx, actor, contracts.ActionExport, resourceReport, nil, nil, details); err != nil {
		h.logger.WithError(err).Warn("Failed to record export activity")
	}
}

// Statistics returns an interactive statistics block
// GET /api/reports/statistics?type=overview
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	statsType := r.URL.Query().Get("type")
	if statsType == "" {
		statsType = report.StatsOverview
	}

	data, err := h.generator.Statistics(r.Context(), statsType)
	if err != nil {
		HandleError(w, h.logger.WithField("type", statsType), err, "Failed to load statistics")
		return
	}
	RespondJSON(w, http.StatusOK, data, "")
}

// SaveTemplate stores a report template for the caller
// POST /api/reports/templates
func (h *ReportHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.FromContext(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	var tpl contracts.ReportTemplate
	if err := decodeJSON(r, &tpl); err != nil {
		RespondError(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}
	if err := h.validate.Struct(tpl); err != nil {
		HandleError(w, h.logger, err, "")
		return
	}
	if !knownReportType(tpl.ReportType) {
		HandleError(w, h.logger, fmt.Errorf("%w: report type %q", contracts.ErrUnknownCategory, tpl.ReportType), "")
		return
	}

	tpl.ID = 0
	tpl.CreatedBy = actor.UserID

	id, err := h.templates.SaveReportTemplate(r.Context(), &tpl)
	if err != nil {
		HandleError(w, h.logger, err, "Failed to save report template")
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]int64{"id": id}, "Report template created successfully")
}

func knownReportType(t string) bool {
	for _, info := range report.Types() {
		if info.Type == t {
			return true
		}
	}
	return false
}
