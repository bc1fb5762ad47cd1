package controller

import (
	"errors"
	"log"
	"net/http"

	"pos/src/pos/application/usecase"
	"pos/src/shared/domain/criteria"
	"pos/src/shared/domain/session"
	sharedCriteria "pos/src/shared/infrastructure/criteria"
	"pos/src/shared/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// checkoutFields campos del journal filtrables y ordenables desde query params
var checkoutFields = []string{
	"sale_id", "operator_id", "customer_id", "coupon_code",
	"payment_method", "final", "created_at",
}

// ReportController maneja las peticiones HTTP del journal y los reportes
type ReportController struct {
	dailyReportUC   *usecase.DailyReportUseCase
	listCheckoutsUC *usecase.ListCheckoutsUseCase
	helper          *sharedCriteria.ControllerHelper
	verifier        *session.Verifier
}

// NewReportController crea una nueva instancia del controlador.
// Los casos de uso son nil cuando no hay base de datos.
func NewReportController(dailyReportUC *usecase.DailyReportUseCase, listCheckoutsUC *usecase.ListCheckoutsUseCase, verifier *session.Verifier) *ReportController {
	return &ReportController{
		dailyReportUC:   dailyReportUC,
		listCheckoutsUC: listCheckoutsUC,
		helper:          sharedCriteria.NewControllerHelper(),
		verifier:        verifier,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *ReportController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/pos/checkouts", middleware.RequireSession(c.verifier), c.ListCheckouts)

	reports := router.Group("/reports", middleware.RequireSession(c.verifier))
	{
		reports.GET("/daily", c.DailyReport)
	}

	log.Println("Rutas Report disponibles:")
	log.Println("  GET    /api/v1/pos/checkouts?operator_id=&created_at_from=&order_by=&limit=")
	log.Println("  GET    /api/v1/reports/daily?date=YYYY-MM-DD[&operator_id=]")
}

// ListCheckouts lista las ventas auditadas con filtros, orden y paginación
func (c *ReportController) ListCheckouts(ctx *gin.Context) {
	if c.listCheckoutsUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "checkout journal not available (database not configured)",
		})
		return
	}

	built := c.helper.BuildCriteriaFromQuery(ctx).Build()
	sanitized := c.helper.ValidateAndSanitizeCriteria(built, checkoutFields, criteria.NewOrder("created_at", criteria.DESC))

	resp, err := c.listCheckoutsUC.Execute(ctx.Request.Context(), sanitized)
	if err != nil {
		log.Printf("Error listing checkouts: %v", err)

		if errors.Is(err, sharedCriteria.ErrInvalidFilterValue) || errors.Is(err, sharedCriteria.ErrUnknownColumn) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not list checkouts"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// DailyReport maneja el reporte diario de ventas
func (c *ReportController) DailyReport(ctx *gin.Context) {
	if c.dailyReportUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "daily report not available (database not configured)",
		})
		return
	}

	// ========================================================================
	// PASO 1: Leer query parameter 'date' (OBLIGATORIO)
	// ========================================================================
	date := ctx.Query("date")
	if date == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "date query parameter is required (format: YYYY-MM-DD)",
		})
		return
	}

	// ========================================================================
	// PASO 2: Ejecutar use case
	// ========================================================================
	resp, err := c.dailyReportUC.Execute(ctx.Request.Context(), date, ctx.Query("operator_id"))
	if err != nil {
		log.Printf("Error generating daily report: %v", err)

		if errors.Is(err, usecase.ErrInvalidDate) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate daily report"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
