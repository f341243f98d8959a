package comparer

import (
	"errors"
	"fmt"
	"mime/multipart"

	"inventory-comparer/core/logger"
	"inventory-comparer/core/middleware/rayid"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the comparer feature.
type Handler struct {
	service        *Service
	defaultRuleSet reconcile.RuleSet
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, defaultRuleSet reconcile.RuleSet) *Handler {
	return &Handler{service: service, defaultRuleSet: defaultRuleSet}
}

// RegisterRoutes registers the comparer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/comparer")
	group.Post("/generate", h.HandleGenerate)
	group.Get("/reports", h.HandleListReports)
	group.Get("/reports/:name", h.HandleGetReport)
}

// HandleGenerate runs a comparison over the uploaded location and
// unlisted spreadsheets and returns the report workbook.
func (h *Handler) HandleGenerate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "expected a multipart form upload",
		})
	}

	locations, err := openUploads(form.File["locationFiles"])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	defer closeUploads(locations)

	unlisted, err := openUploads(form.File["unlistedFiles"])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	defer closeUploads(unlisted)

	if len(locations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one locationFiles upload is required",
		})
	}

	ruleSet := h.defaultRuleSet
	if utils.ToBool(c.FormValue("ogfRules")) {
		ruleSet = reconcile.RuleSetOGF
	}

	report, err := h.service.Generate(c.Context(), rayid.FromCtx(c), ruleSet,
		uploads(locations), uploads(unlisted))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			l.Warn("Comparison rejected", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Comparison failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Comparison report generated",
		zap.String("ruleSet", string(ruleSet)),
		zap.Int("items", report.Result.Summary.Items),
		zap.Int("ruleViolations", report.Result.Summary.RuleViolation),
		zap.Int("critical", report.Result.Summary.Critical),
		zap.String("archivedAs", report.ArchivedAs),
	)

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.FileName))
	return c.Send(report.Content)
}

// HandleListReports lists archived reports.
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.ListReports(c.Context())
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Listing archived reports failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if reports == nil {
		reports = []ReportInfo{}
	}
	return c.JSON(reports)
}

// HandleGetReport downloads one archived report.
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	content, err := h.service.GetReport(c.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrArchiveDisabled):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Fetching archived report failed", zap.String("name", name), zap.Error(err))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(content)
}

type openUpload struct {
	name string
	file multipart.File
}

func openUploads(headers []*multipart.FileHeader) ([]openUpload, error) {
	out := make([]openUpload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeUploads(out)
			return nil, fmt.Errorf("open upload %q: %w", header.Filename, err)
		}
		out = append(out, openUpload{name: header.Filename, file: f})
	}
	return out, nil
}

func closeUploads(opened []openUpload) {
	for _, u := range opened {
		_ = u.file.Close()
	}
}

func uploads(opened []openUpload) []Upload {
	out := make([]Upload, 0, len(opened))
	for _, u := range opened {
		out = append(out, Upload{Name: u.name, Reader: u.file})
	}
	return out
}
