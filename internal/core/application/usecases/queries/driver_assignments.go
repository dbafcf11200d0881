package queries

import (
	"context"
	"database/sql"
	"time"

	"backoffice/internal/core/domain/model/delivery"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The active delivery of an order is its most recently created one.
const activeDeliveryOfOrder = `
	SELECT d2.id FROM deliveries d2
	WHERE d2.order_id = d.order_id
	ORDER BY d2.created_at DESC, d2.id DESC
	LIMIT 1`

// DriverAssignments answers which deliveries a driver can see. A driver sees
// a delivery when the legacy driver_id column names them OR a junction row
// links them; both sources are always consulted. Without junction tables
// only the legacy column is used.
type DriverAssignments struct {
	db        *gorm.DB
	junctions bool
}

func NewDriverAssignments(db *gorm.DB, junctions bool) DriverAssignments {
	return DriverAssignments{db: db, junctions: junctions}
}

func (a DriverAssignments) visiblePredicate(driverID kernel.UUID) (string, []any) {
	id := driverID.Bytes()
	if !a.junctions {
		return "d.driver_id = ?", []any{id}
	}
	return `(d.driver_id = ? OR EXISTS (
		SELECT 1 FROM delivery_drivers dd WHERE dd.delivery_id = d.id AND dd.driver_id = ?))`, []any{id, id}
}

// ActiveDeliveryCountForDriver counts the driver's deliveries that are
// neither Delivered nor Cancelled.
func (a DriverAssignments) ActiveDeliveryCountForDriver(ctx context.Context, driverID kernel.UUID) (int64, error) {
	if err := driverID.Validate(); err != nil {
		return 0, err
	}
	predicate, args := a.visiblePredicate(driverID)
	args = append([]any{delivery.Delivered.String(), delivery.Cancelled.String()}, args...)

	var count int64
	err := a.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM deliveries d
		WHERE d.status NOT IN (?, ?) AND `+predicate, args...).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IsVisibleToDriver reports whether the order's active delivery is visible
// to the driver. An order without a delivery is visible to nobody.
func (a DriverAssignments) IsVisibleToDriver(ctx context.Context, orderID, driverID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}
	if err := driverID.Validate(); err != nil {
		return false, err
	}
	predicate, args := a.visiblePredicate(driverID)
	args = append([]any{orderID.Bytes()}, args...)

	var count int64
	err := a.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM deliveries d
		WHERE d.order_id = ? AND d.id = (`+activeDeliveryOfOrder+`) AND `+predicate, args...).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DriverOrder is one line of a driver's work list.
type DriverOrder struct {
	OrderID        kernel.UUID
	OrderStatus    string
	DeliveryID     kernel.UUID
	DeliveryStatus string
	PreferredDate  kernel.Date
	PreferredTime  string
}

// ListDriverOrders returns the orders whose active delivery is visible to
// the driver, earliest preferred date first.
func (a DriverAssignments) ListDriverOrders(ctx context.Context, driverID kernel.UUID) ([]DriverOrder, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	predicate, args := a.visiblePredicate(driverID)

	rows, err := a.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			d.id,
			d.status,
			o.preferred_date,
			o.preferred_time
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		WHERE d.id = (`+activeDeliveryOfOrder+`) AND `+predicate+`
		ORDER BY o.preferred_date, o.id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]DriverOrder, 0)
	for rows.Next() {
		var (
			orderID, deliveryID   uuid.UUID
			orderStatus, prefTime sql.NullString
			deliveryStatus        string
			prefDate              time.Time
		)
		if err = rows.Scan(&orderID, &orderStatus, &deliveryID, &deliveryStatus, &prefDate, &prefTime); err != nil {
			return nil, err
		}

		oid, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		did, idErr := kernel.UUIDFromBytes(deliveryID[:])
		if idErr != nil {
			return nil, idErr
		}
		status := orderStatus.String
		if status == "" {
			status = order.PendingApproval.String()
		}

		orders = append(orders, DriverOrder{
			OrderID:        oid,
			OrderStatus:    status,
			DeliveryID:     did,
			DeliveryStatus: deliveryStatus,
			PreferredDate:  kernel.DateOf(prefDate),
			PreferredTime:  prefTime.String,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
