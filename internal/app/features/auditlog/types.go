// internal/app/features/auditlog/types.go
package auditlog

import (
	"slices"
	"time"

	"github.com/dalemusser/ailibrary/internal/app/store/audit"
)

// listItem is one audit event as returned to admins. User agents are left
// out; IPs are kept for abuse review.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ResourceID    string            `json:"resourceId,omitempty"`
	Actor         string            `json:"actor,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// listResponse is the body of GET /api/audit.
type listResponse struct {
	Events     []listItem `json:"events"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int64      `json:"total"`
}

func toItems(events []audit.Event) []listItem {
	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			Actor:         e.Actor,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ResourceID != nil {
			item.ResourceID = e.ResourceID.Hex()
		}
		items = append(items, item)
	}
	return items
}

// allCategories returns the categories accepted by the category filter.
func allCategories() []string {
	return []string{audit.CategoryModeration, audit.CategorySecurity}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	moderationEvents := []string{
		audit.EventResourceSubmitted,
		audit.EventResourceApproved,
		audit.EventResourceRejected,
	}

	securityEvents := []string{
		audit.EventAdminTokenIssued,
		audit.EventAdminAccessDenied,
	}

	switch category {
	case audit.CategoryModeration:
		return moderationEvents
	case audit.CategorySecurity:
		return securityEvents
	case "":
		return slices.Concat(moderationEvents, securityEvents)
	default:
		return nil
	}
}
