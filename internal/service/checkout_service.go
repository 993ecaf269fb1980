package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"timologio/internal/model"
	"timologio/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// requiredInvoiceFields must all be present when the customer asks for an
// invoice (timologio). Receipts (apodeixi) carry no extra requirements.
var requiredInvoiceFields = []struct {
	Field string
	Label string
}{
	{"billing_vat", "ΑΦΜ"},
	{"billing_irs", "ΔΟΥ"},
}

// ValidationError carries one message per missing field so the storefront can
// report all of them at once instead of only the first.
type ValidationError struct {
	Messages []string `json:"messages"`
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// --- DTOs ---

type CreateOrderRequest struct {
	TypeOfOrder     string `json:"type_of_order" form:"type_of_order"`
	Total           string `json:"total" form:"total"` // decimal string
	BillingName     string `json:"billing_name" form:"billing_name"`
	BillingEmail    string `json:"billing_email" form:"billing_email" binding:"omitempty,email"`
	BillingCompany  string `json:"billing_company" form:"billing_company"`
	BillingVAT      string `json:"billing_vat" form:"billing_vat"`
	BillingIRS      string `json:"billing_irs" form:"billing_irs"`
	BillingActivity string `json:"billing_activity" form:"billing_activity"`
	BillingAddress1 string `json:"billing_address_1" form:"billing_address_1"`
	BillingCity     string `json:"billing_city" form:"billing_city"`
	BillingPostcode string `json:"billing_postcode" form:"billing_postcode"`
	BillingCountry  string `json:"billing_country" form:"billing_country"`
}

// OrderEventPublisher notifies connected admin clients about new orders.
type OrderEventPublisher interface {
	PublishOrderCreated(order *model.Order)
}

type CheckoutService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]model.Order, int64, error)
}

type checkoutService struct {
	db     *gorm.DB
	orders repository.OrderRepository
	events OrderEventPublisher
}

func NewCheckoutService(db *gorm.DB, orders repository.OrderRepository, events OrderEventPublisher) CheckoutService {
	return &checkoutService{db: db, orders: orders, events: events}
}

// --- Implementation ---

// CreateOrder validates the order-type rules and persists the order exactly
// once. Validation for invoices reports every missing required field; the
// order is blocked until all are filled.
func (s *checkoutService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	orderType, err := normalizeOrderType(req.TypeOfOrder)
	if err != nil {
		return nil, err
	}

	if verr := validateInvoiceFields(orderType, req); verr != nil {
		return nil, verr
	}

	total := decimal.Zero
	if req.Total != "" {
		if total, err = decimal.NewFromString(req.Total); err != nil {
			return nil, fmt.Errorf("invalid total amount: %w", err)
		}
	}

	order := &model.Order{
		OrderNumber:     newOrderNumber(),
		OrderType:       orderType,
		Status:          model.OrderStatusPending,
		Total:           total,
		BillingName:     req.BillingName,
		BillingEmail:    req.BillingEmail,
		BillingCompany:  req.BillingCompany,
		BillingVAT:      req.BillingVAT,
		BillingIRS:      req.BillingIRS,
		BillingActivity: req.BillingActivity,
		BillingAddress1: req.BillingAddress1,
		BillingCity:     req.BillingCity,
		BillingPostcode: req.BillingPostcode,
		BillingCountry:  strings.ToUpper(req.BillingCountry),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.writeAuditLog(ctx, model.ActionCreateOrder, order.ID.String(), order.OrderNumber, req)

	if s.events != nil {
		s.events.PublishOrderCreated(order)
	}

	return order, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}
	return s.orders.FindByID(ctx, orderID)
}

func (s *checkoutService) ListOrders(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	return s.orders.List(ctx, page, limit)
}

// --- Helpers ---

// normalizeOrderType applies the apodeixi default and rejects unknown values.
func normalizeOrderType(orderType string) (string, error) {
	switch orderType {
	case "":
		return model.OrderTypeApodeixi, nil
	case model.OrderTypeApodeixi, model.OrderTypeTimologio:
		return orderType, nil
	}
	return "", fmt.Errorf("invalid type_of_order: %q", orderType)
}

// validateInvoiceFields checks the required-field set for invoice orders and
// returns nil when the order may proceed.
func validateInvoiceFields(orderType string, req CreateOrderRequest) *ValidationError {
	if orderType != model.OrderTypeTimologio {
		return nil
	}

	values := map[string]string{
		"billing_vat": req.BillingVAT,
		"billing_irs": req.BillingIRS,
	}

	var messages []string
	for _, rf := range requiredInvoiceFields {
		if strings.TrimSpace(values[rf.Field]) == "" {
			messages = append(messages, fmt.Sprintf("Please fill in the %s field.", rf.Label))
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

func (s *checkoutService) writeAuditLog(ctx context.Context, action, entityID, entityName string, details interface{}) {
	if s.db == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)
	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
