// Package orderrepo persists the Order aggregate: the orders table, its
// order_items lines and the transactions projection.
package orderrepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table. Status is nullable: rows created
// before approvals were tracked carry NULL, read back as PendingApproval.
type OrderDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status             *string         `gorm:"type:varchar(32);index"`
	PaymentFlag        string          `gorm:"type:varchar(16);not null;default:ToPay"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PreferredDate      time.Time       `gorm:"type:date;not null"`
	PreferredTime      *string         `gorm:"type:varchar(8)"`
	RescheduleCount    int             `gorm:"not null;default:0"`
	LastRescheduledAt  *time.Time
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	RejectedBy         *uuid.UUID `gorm:"type:uuid"`
	RejectedAt         *time.Time
	RejectionReason    string     `gorm:"type:text"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancellationReason string `gorm:"type:text"`
	ContactEmail       string `gorm:"type:varchar(255)"`
	ContactPhone       string `gorm:"type:varchar(32)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is a row of order_items.
type ItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	VariationID *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// TransactionDTO is the payment projection of an order, one per order.
type TransactionDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	PaymentStatus  string          `gorm:"type:varchar(16);not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ProofReference string          `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TransactionDTO) TableName() string {
	return "transactions"
}

func fromDomain(o *order.Order) (OrderDTO, []ItemDTO, TransactionDTO) {
	s := o.Snapshot()
	status := s.Status.String()

	dto := OrderDTO{
		ID:                 s.ID.Bytes(),
		CustomerID:         s.CustomerID.Bytes(),
		Status:             &status,
		PaymentFlag:        s.PaymentFlag.String(),
		Amount:             s.Amount,
		PreferredDate:      s.PreferredDate.Time(),
		RescheduleCount:    s.RescheduleCount,
		LastRescheduledAt:  s.LastRescheduledAt,
		RejectionReason:    s.RejectionReason,
		CancellationReason: s.CancellationReason,
		ContactEmail:       s.Contact.Email,
		ContactPhone:       s.Contact.Phone,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.PreferredTime != nil {
		v := s.PreferredTime.String()
		dto.PreferredTime = &v
	}
	dto.ApprovedBy, dto.ApprovedAt = stampToColumns(s.Approval)
	dto.RejectedBy, dto.RejectedAt = stampToColumns(s.Rejection)
	dto.CancelledBy, dto.CancelledAt = stampToColumns(s.Cancellation)

	items := make([]ItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, ItemDTO{
			ID:          it.ID().Bytes(),
			OrderID:     dto.ID,
			ProductID:   it.ProductID().Bytes(),
			VariationID: optionalID(it.VariationID()),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
		})
	}

	tx := TransactionDTO{
		ID:             uuid.New(),
		OrderID:        dto.ID,
		PaymentStatus:  string(s.PaymentFlag.TransactionStatus()),
		Amount:         s.Amount,
		ProofReference: s.ProofReference,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	return dto, items, tx
}

func toDomain(dto OrderDTO, items []ItemDTO, tx *TransactionDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var rawStatus string
	if dto.Status != nil {
		rawStatus = *dto.Status
	}
	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	flag, err := order.ParsePaymentFlag(dto.PaymentFlag)
	if err != nil {
		return nil, err
	}

	var preferredTime *kernel.TimeOfDay
	if dto.PreferredTime != nil && *dto.PreferredTime != "" {
		t, parseErr := kernel.ParseTimeOfDay(*dto.PreferredTime)
		if parseErr != nil {
			return nil, parseErr
		}
		preferredTime = &t
	}

	lines := make([]order.Item, 0, len(items))
	for _, itemDTO := range items {
		it, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		lines = append(lines, it)
	}

	snap := order.Snapshot{
		ID:                 id,
		CustomerID:         customerID,
		Status:             status,
		PaymentFlag:        flag,
		Amount:             dto.Amount,
		Items:              lines,
		PreferredDate:      kernel.DateOf(dto.PreferredDate),
		PreferredTime:      preferredTime,
		RescheduleCount:    dto.RescheduleCount,
		LastRescheduledAt:  dto.LastRescheduledAt,
		RejectionReason:    dto.RejectionReason,
		CancellationReason: dto.CancellationReason,
		Contact:            order.Contact{Email: dto.ContactEmail, Phone: dto.ContactPhone},
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	}
	if tx != nil {
		snap.ProofReference = tx.ProofReference
	}
	if snap.Approval, err = columnsToStamp(dto.ApprovedBy, dto.ApprovedAt); err != nil {
		return nil, err
	}
	if snap.Rejection, err = columnsToStamp(dto.RejectedBy, dto.RejectedAt); err != nil {
		return nil, err
	}
	if snap.Cancellation, err = columnsToStamp(dto.CancelledBy, dto.CancelledAt); err != nil {
		return nil, err
	}

	return order.RestoreOrder(snap)
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	var variationID *kernel.UUID
	if dto.VariationID != nil {
		v, vErr := kernel.UUIDFromBytes(dto.VariationID[:])
		if vErr != nil {
			return order.Item{}, vErr
		}
		variationID = &v
	}
	return order.RestoreItem(id, productID, variationID, dto.Quantity, dto.UnitPrice)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func stampToColumns(s *order.Stamp) (*uuid.UUID, *time.Time) {
	if s == nil {
		return nil, nil
	}
	at := s.At
	return optionalID(&s.By), &at
}

func columnsToStamp(by *uuid.UUID, at *time.Time) (*order.Stamp, error) {
	if by == nil || at == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(by[:])
	if err != nil {
		return nil, err
	}
	return &order.Stamp{By: id, At: *at}, nil
}
