package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	"github.com/Stevefe123/estat-predict/internal/platform/logging"
	"github.com/Stevefe123/estat-predict/internal/usecase"
)

const maxWebhookBodyBytes = 1 << 20

type Handler struct {
	scanService       *usecase.ScanService
	predictionService *usecase.PredictionService
	liveScoreService  *usecase.LiveScoreService
	newsService       *usecase.NewsService
	billingService    *usecase.BillingService
	logger            *logging.Logger
}

func NewHandler(
	scanService *usecase.ScanService,
	predictionService *usecase.PredictionService,
	liveScoreService *usecase.LiveScoreService,
	newsService *usecase.NewsService,
	billingService *usecase.BillingService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scanService:       scanService,
		predictionService: predictionService,
		liveScoreService:  liveScoreService,
		newsService:       newsService,
		billingService:    billingService,
		logger:            logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// TriggerScan runs the daily prediction scan. An optional date query
// parameter (YYYY-MM-DD) rescans a specific day; the default is today.
func (h *Handler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerScan")
	defer span.End()

	date := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse(prediction.DateFormat, raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", usecase.ErrInvalidInput))
			return
		}
		date = parsed
	}

	result, err := h.scanService.Run(ctx, date)
	if err != nil {
		h.logger.ErrorContext(ctx, "scan run failed", "date", date.Format(prediction.DateFormat), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictions")
	defer span.End()

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	day, err := h.predictionService.GetByDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get predictions failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, day)
}

func (h *Handler) GetLiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveScores")
	defer span.End()

	scores, err := h.liveScoreService.LiveScores(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get live scores failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scores)
}

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNews")
	defer span.End()

	articles, err := h.newsService.Headlines(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get news failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, articles)
}

// PaystackWebhook receives payment events. The raw body is verified
// against the X-Paystack-Signature header before any decoding.
func (h *Handler) PaystackWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PaystackWebhook")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read webhook body: %v", usecase.ErrInvalidInput, err))
		return
	}

	signature := r.Header.Get("X-Paystack-Signature")
	if !h.billingService.VerifySignature(body, signature) {
		h.logger.WarnContext(ctx, "webhook signature rejected", "remote_addr", r.RemoteAddr)
		writeError(ctx, w, fmt.Errorf("%w: webhook signature mismatch", usecase.ErrUnauthorized))
		return
	}

	if err := h.billingService.HandleEvent(ctx, body); err != nil {
		h.logger.WarnContext(ctx, "webhook event rejected", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"message": "Webhook received"})
}

func (h *Handler) GetProfileAccess(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfileAccess")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	status, err := h.billingService.AccessFor(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile access failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}
