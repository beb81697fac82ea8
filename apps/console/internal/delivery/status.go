package delivery

import "github.com/prohmpiriya/storefront-console/apps/console/internal/domain"

// Transitions maps each status to the statuses it may move to when
// forward-only ordering is enforced. Terminal statuses map to nothing.
var Transitions = map[domain.DeliveryStatus][]domain.DeliveryStatus{
	domain.DeliveryStatusPending: {
		domain.DeliveryStatusAssigned,
		domain.DeliveryStatusPickedUp,
		domain.DeliveryStatusInTransit,
		domain.DeliveryStatusDelivered,
		domain.DeliveryStatusFailed,
	},
	domain.DeliveryStatusAssigned: {
		domain.DeliveryStatusPickedUp,
		domain.DeliveryStatusInTransit,
		domain.DeliveryStatusDelivered,
		domain.DeliveryStatusFailed,
	},
	domain.DeliveryStatusPickedUp: {
		domain.DeliveryStatusInTransit,
		domain.DeliveryStatusDelivered,
		domain.DeliveryStatusFailed,
	},
	domain.DeliveryStatusInTransit: {
		domain.DeliveryStatusDelivered,
		domain.DeliveryStatusFailed,
	},
	domain.DeliveryStatusDelivered: {},
	domain.DeliveryStatusFailed:    {},
}

// Allowed reports whether the table permits from -> to
func Allowed(from, to domain.DeliveryStatus) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s under the table
func Next(s domain.DeliveryStatus) []domain.DeliveryStatus {
	next := Transitions[s]
	out := make([]domain.DeliveryStatus, len(next))
	copy(out, next)
	return out
}

var labels = map[domain.DeliveryStatus]string{
	domain.DeliveryStatusPending:   "Pending",
	domain.DeliveryStatusAssigned:  "Assigned",
	domain.DeliveryStatusPickedUp:  "Picked up",
	domain.DeliveryStatusInTransit: "In transit",
	domain.DeliveryStatusDelivered: "Delivered",
	domain.DeliveryStatusFailed:    "Failed",
}

// Label returns the display text of a status; unknown statuses show as-is
func Label(s domain.DeliveryStatus) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}
