// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/store/audit"
	"github.com/dalemusser/ailibrary/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	pageSize       = 50
	historyLimit   = 100
	dateLayout     = "2006-01-02"
	badFilterUsage = "category, event_type, and resource must name known values"
)

// ServeList handles GET /api/audit with optional filters:
//
//	?category=moderation|security
//	&event_type=resource_approved
//	&resource=<id>
//	&start_date=2024-01-31&end_date=2024-02-29
//	&page=2
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	resource := strings.TrimSpace(q.Get("resource"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	if category != "" && !slices.Contains(allCategories(), category) {
		uierrors.RenderBadRequest(w, r, "unknown category: "+badFilterUsage)
		return
	}
	if eventType != "" && !slices.Contains(eventTypesForCategory(category), eventType) {
		uierrors.RenderBadRequest(w, r, "unknown event_type: "+badFilterUsage)
		return
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if resource != "" {
		oid, err := primitive.ObjectIDFromHex(resource)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "unknown resource: "+badFilterUsage)
			return
		}
		filter.ResourceID = &oid
	}

	if startDate != "" {
		t, err := time.Parse(dateLayout, startDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if endDate != "" {
		t, err := time.Parse(dateLayout, endDate)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "end_date must be YYYY-MM-DD")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err)
		return
	}

	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err)
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     toItems(events),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

// ServeResourceHistory handles GET /api/audit/resources/{id}: the most
// recent events recorded for one resource, newest first.
func (h *Handler) ServeResourceHistory(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Resource not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit resource history")
	defer cancel()

	events, err := h.Store.GetByResource(ctx, oid, historyLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query resource history failed", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, toItems(events))
}
