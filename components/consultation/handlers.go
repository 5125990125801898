// components/consultation/handlers.go
package consultation

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/httpx"
	"github.com/yanizio/lawdesk/internal/metrics"
	"github.com/yanizio/lawdesk/internal/middleware"
	"github.com/yanizio/lawdesk/internal/notify"
	"github.com/yanizio/lawdesk/internal/reporting"
	"github.com/yanizio/lawdesk/internal/requestinfo"
)

// Persian response messages.
const (
	MsgServer        = "خطای سرور. لطفاً بعداً دوباره تلاش کنید"
	MsgNotFound      = "درخواست مشاوره یافت نشد"
	MsgBadBody       = "داده‌های ارسالی نامعتبر است"
	MsgBadID         = "شناسه نامعتبر است"
	MsgMissingFields = "لطفاً همه فیلدهای الزامی را تکمیل کنید"
	MsgEmptyPatch    = "هیچ فیلدی برای به‌روزرسانی ارسال نشده است"
)

const (
	channelPublic  = "public"
	channelManaged = "managed"
)

type handlers struct {
	repo    *consultation.Repository
	checker *consultation.Checker
	notify  *notify.Dispatcher
	log     *zap.Logger
	now     func() time.Time
}

/*──────────────────────────── create ───────────────────────────────────────*/

func (h *handlers) create(channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p consultation.Payload
		if err := httpx.Decode(r, &p); err != nil {
			h.log.Debug("create: bad body", zap.Error(err))
			httpx.Fail(w, http.StatusBadRequest, MsgBadBody)
			return
		}
		p = p.Normalize()

		if missing := consultation.MissingRequired(p); len(missing) > 0 {
			h.log.Debug("create: missing fields", zap.Strings("fields", missing))
			httpx.Fail(w, http.StatusBadRequest, MsgMissingFields)
			return
		}
		if channel == channelPublic {
			if msg := guidance(p); msg != "" {
				httpx.Fail(w, http.StatusBadRequest, msg)
				return
			}
		}
		if errs := h.checker.Check(p); len(errs) > 0 {
			httpx.Fail(w, http.StatusBadRequest, joinErrors(errs))
			return
		}

		id, err := h.repo.Insert(r.Context(), p, h.now())
		if err != nil {
			h.fault(w, r, "insert", err)
			return
		}
		rec, err := h.repo.Get(r.Context(), id)
		if err != nil {
			h.fault(w, r, "fetch created", err)
			return
		}

		metrics.ConsultationsCreated.WithLabelValues(channel).Inc()
		fields := []zap.Field{
			zap.Int64("id", rec.ID),
			zap.String("channel", channel),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		}
		if ri := requestinfo.FromContext(r.Context()); ri != nil {
			fields = append(fields, ri.Fields()...)
		}
		h.log.Info("consultation stored", fields...)

		httpx.OK(w, http.StatusCreated, rec)
		h.notify.Dispatch(*rec)
	}
}

// guidance gives the public form a specific hint for the two mistakes
// visitors make most: a one-letter name and a short phone number.
func guidance(p consultation.Payload) string {
	if utf8.RuneCountInString(p.Name) < 2 {
		return consultation.MsgNameTooShort
	}
	if len(p.Phone) != 11 {
		return consultation.MsgPhoneLength
	}
	return ""
}

func joinErrors(errs []consultation.FieldError) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "\n")
}

/*──────────────────────────── read ─────────────────────────────────────────*/

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.List(r.Context())
	if err != nil {
		h.fault(w, r, "list", err)
		return
	}
	httpx.OK(w, http.StatusOK, rows)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.repo.Get(r.Context(), id)
	switch {
	case errors.Is(err, consultation.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, MsgNotFound)
	case err != nil:
		h.fault(w, r, "get", err)
	default:
		httpx.OK(w, http.StatusOK, rec)
	}
}

/*──────────────────────────── update ───────────────────────────────────────*/

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p consultation.Patch
	if err := httpx.Decode(r, &p); err != nil {
		httpx.Fail(w, http.StatusBadRequest, MsgBadBody)
		return
	}
	p = p.Normalize()
	if p.Empty() {
		httpx.Fail(w, http.StatusBadRequest, MsgEmptyPatch)
		return
	}

	cur, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, consultation.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, MsgNotFound)
		return
	}
	if err != nil {
		h.fault(w, r, "update lookup", err)
		return
	}
	if errs := h.checker.CheckPatch(p, cur); len(errs) > 0 {
		httpx.Fail(w, http.StatusBadRequest, joinErrors(errs))
		return
	}

	if err := h.repo.Update(r.Context(), id, p, h.now()); err != nil {
		h.fault(w, r, "update", err)
		return
	}
	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fault(w, r, "fetch updated", err)
		return
	}
	h.log.Info("consultation updated", zap.Int64("id", id), zap.String("status", string(rec.Status)))
	httpx.OK(w, http.StatusOK, rec)
}

/*──────────────────────────── delete ───────────────────────────────────────*/

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, consultation.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, MsgNotFound)
	case err != nil:
		h.fault(w, r, "delete", err)
	default:
		h.log.Info("consultation deleted", zap.Int64("id", id))
		httpx.Done(w)
	}
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, MsgBadID)
		return 0, false
	}
	return id, true
}

// fault logs and reports a database failure, then answers 500.
func (h *handlers) fault(w http.ResponseWriter, r *http.Request, op string, err error) {
	rid := middleware.GetRequestID(r.Context())
	h.log.Error("consultation "+op+" failed", zap.String("request_id", rid), zap.Error(err))
	reporting.Capture(err, map[string]any{"op": op, "request_id": rid, "path": r.URL.Path})
	httpx.Fail(w, http.StatusInternalServerError, MsgServer)
}
