package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quiniela-finance/pkg/errutil"
	"quiniela-finance/services/concept"
	"quiniela-finance/services/distribution"
	"quiniela-finance/services/ledger"
	"quiniela-finance/services/projection"
	"quiniela-finance/services/report"

	planpkg "quiniela-finance/services/plan"
)

// Handler exposes the finance services over HTTP/JSON.
type Handler struct {
	fees        *distribution.Service
	catalog     *concept.Catalog
	projections *projection.Service
	payments    *ledger.Service
	reports     *report.Service
}

func NewHandler(
	fees *distribution.Service,
	catalog *concept.Catalog,
	projections *projection.Service,
	payments *ledger.Service,
	reports *report.Service,
) *Handler {
	return &Handler{
		fees:        fees,
		catalog:     catalog,
		projections: projections,
		payments:    payments,
		reports:     reports,
	}
}

// apiError normalises domain errors into the transport error shape.
func apiError(err error) error {
	var (
		validation distribution.ValidationError
		invalid    ledger.InvalidConceptError
		nothing    ledger.NothingToSettleError
		transition ledger.InvalidTransitionError
		notFound   ledger.ParticipantNotFoundError
		planLimit  planpkg.PlanLimitExceededError
	)

	switch {
	case errors.As(err, &validation):
		return errutil.ValidationFailed(validation.Message,
			errutil.WithDetails(errutil.Detail{Field: validation.Field, Message: validation.Message}),
			errutil.WithErr(err),
		)
	case errors.As(err, &invalid):
		return errutil.BadRequest("unknown or inactive concept", errutil.WithErr(err))
	case errors.As(err, &nothing):
		return errutil.UnprocessableEntity("nothing to settle", errutil.WithErr(err))
	case errors.As(err, &transition):
		return errutil.Conflict("invalid payment status transition", errutil.WithErr(err))
	case errors.As(err, &notFound):
		return errutil.NotFound("participant not found", errutil.WithErr(err))
	case errors.As(err, &planLimit):
		return errutil.Forbidden("participant limit exceeded for the active plan", errutil.WithErr(err))
	default:
		return errutil.Internal("internal error", errutil.WithErr(err))
	}
}

func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.fees.Fees())
}

func (h *Handler) putConfig(c *gin.Context) {
	var fees distribution.FeeConfig
	if err := c.ShouldBindJSON(&fees); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if err := h.fees.Update(fees); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	// Newly activated concepts open pending records for the whole roster.
	if err := h.payments.SyncConcepts(c.Request.Context()); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, h.fees.Fees())
}

func (h *Handler) getDistribution(c *gin.Context) {
	c.JSON(http.StatusOK, h.fees.Distribution())
}

func (h *Handler) getCategoryDistribution(c *gin.Context) {
	shares, err := h.fees.Shares(distribution.Category(c.Param("category")))
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, shares)
}

func (h *Handler) getConcepts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Concepts())
}

func (h *Handler) getProjection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.projections.Projection(),
		"totals":     h.projections.Totals(),
	})
}

type addParticipantRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}

func (h *Handler) addParticipant(c *gin.Context) {
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if err := h.payments.OnParticipantAdded(c.Request.Context(), req.ParticipantID, req.Name, req.Email); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.Status(http.StatusCreated)
}

func (h *Handler) removeParticipant(c *gin.Context) {
	if err := h.payments.OnParticipantRemoved(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) participantSummary(c *gin.Context) {
	sum, err := h.reports.PerParticipant(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, sum)
}

type registerPaymentRequest struct {
	ParticipantID string    `json:"participant_id" binding:"required"`
	ConceptIDs    []string  `json:"concept_ids" binding:"required"`
	Amount        int64     `json:"amount" binding:"required"`
	Method        string    `json:"method"`
	PaidAt        time.Time `json:"paid_at"`
	Reference     string    `json:"reference"`
	Note          string    `json:"note"`
}

func (h *Handler) registerPayment(c *gin.Context) {
	var req registerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if req.PaidAt.IsZero() {
		req.PaidAt = time.Now()
	}

	txn, err := h.payments.RegisterPayment(c.Request.Context(), ledger.SettlementInput{
		ParticipantID: req.ParticipantID,
		ConceptIDs:    req.ConceptIDs,
		Amount:        req.Amount,
		Method:        req.Method,
		PaidAt:        req.PaidAt,
		Reference:     req.Reference,
		Note:          req.Note,
	})
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusCreated, txn)
}

type quickSettleRequest struct {
	ParticipantID string    `json:"participant_id" binding:"required"`
	Method        string    `json:"method"`
	PaidAt        time.Time `json:"paid_at"`
	Reference     string    `json:"reference"`
}

func (h *Handler) quickSettle(c *gin.Context) {
	var req quickSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if req.PaidAt.IsZero() {
		req.PaidAt = time.Now()
	}

	txn, err := h.payments.QuickSettle(c.Request.Context(), req.ParticipantID, req.Method, req.PaidAt, req.Reference)
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusCreated, txn)
}

type bulkSettleRequest struct {
	ParticipantIDs []string  `json:"participant_ids" binding:"required"`
	Method         string    `json:"method"`
	PaidAt         time.Time `json:"paid_at"`
}

func (h *Handler) bulkSettle(c *gin.Context) {
	var req bulkSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if req.PaidAt.IsZero() {
		req.PaidAt = time.Now()
	}

	rep, err := h.payments.BulkSettle(c.Request.Context(), req.ParticipantIDs, req.Method, req.PaidAt)
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) resetParticipant(c *gin.Context) {
	if err := h.payments.ResetParticipant(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

type reviewRequest struct {
	ConceptIDs []string `json:"concept_ids" binding:"required"`
}

func (h *Handler) markUnderReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", errutil.WithErr(err)))
		return
	}
	if err := h.payments.MarkUnderReview(c.Request.Context(), c.Param("id"), req.ConceptIDs); err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listTransactions(c *gin.Context) {
	txns, err := h.payments.Transactions(c.Request.Context(), c.Query("participant_id"))
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *Handler) getReport(c *gin.Context) {
	filter, err := report.ParseFilter(c.Query("filter"))
	if err != nil {
		_ = c.Error(errutil.BadRequest("invalid filter", errutil.WithErr(err)))
		return
	}
	summaries, err := h.reports.List(c.Request.Context(), filter, c.Query("search"))
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) getLeagueSummary(c *gin.Context) {
	sum, err := h.reports.League(c.Request.Context())
	if err != nil {
		_ = c.Error(apiError(err))
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) exportReport(c *gin.Context) {
	filter, err := report.ParseFilter(c.Query("filter"))
	if err != nil {
		_ = c.Error(errutil.BadRequest("invalid filter", errutil.WithErr(err)))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="cobros.csv"`)
	if err := h.reports.ExportCSV(c.Request.Context(), c.Writer, filter, c.Query("search")); err != nil {
		_ = c.Error(apiError(err))
	}
}
