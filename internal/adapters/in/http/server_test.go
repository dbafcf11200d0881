package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	api "backoffice/internal/adapters/in/http"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/memdb"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

var secret = []byte("test-secret")

type uowFactory func() commands.UoW

func (f uowFactory) Create() commands.UoW { return f() }

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type ServerTestSuite struct {
	suite.Suite
	e         *echo.Echo
	productID kernel.UUID

	customer, stranger, staff, admin, driver string
	driverID                                 kernel.UUID
}

func (s *ServerTestSuite) token(role access.Role) (string, kernel.UUID) {
	actor, err := access.NewActor(kernel.NewUUID(), role)
	s.Require().NoError(err)
	tok, err := api.SignToken(secret, actor, time.Hour)
	s.Require().NoError(err)
	return tok, actor.ID
}

func (s *ServerTestSuite) SetupTest() {
	db := memdb.Open(s.T(), true)
	caps := postgres.SchemaCapabilities{AssignmentJunctions: true}
	factory := postgres.NewGormUnitOfWorkFactory(db, caps)
	full := uowFactory(func() commands.UoW { return factory.Create() })
	narrow := orderUoWFactory(func() commands.OrderUoW { return factory.Create() })
	policy := access.DefaultPolicy()
	assignments := queries.NewDriverAssignments(db, true)

	server := api.NewServer(api.Handlers{
		PlaceOrder:       commands.NewPlaceOrderCommandHandler(narrow, catalogrepo.NewGormCatalogReader(db)),
		ApproveOrder:     commands.NewApproveOrderCommandHandler(full, policy),
		RejectOrder:      commands.NewRejectOrderCommandHandler(narrow, policy),
		CancelOrder:      commands.NewCancelOrderCommandHandler(full, policy),
		DeleteOrder:      commands.NewDeleteOrderCommandHandler(full, policy),
		SetPaymentStatus: commands.NewSetPaymentStatusCommandHandler(full, policy),
		RescheduleOrder:  commands.NewRescheduleOrderCommandHandler(full),
		AssignDelivery:   commands.NewAssignDeliveryCommandHandler(full, policy),
		AdvanceDelivery:  commands.NewAdvanceDeliveryCommandHandler(full, policy),
		GetOrder: queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(db),
			deliveryrepo.NewGormDeliveryRepository(db, true), assignments),
		DriverOrders: queries.NewDriverOrdersQueryHandler(assignments),
	})

	e, err := api.NewRouter(context.Background(), server, api.RouterConfig{
		JWTSecret: secret,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)
	s.e = e

	s.productID = memdb.Product(s.T(), db, "20.00", 10, 2)
	s.customer, _ = s.token(access.RoleCustomer)
	s.stranger, _ = s.token(access.RoleCustomer)
	s.staff, _ = s.token(access.RoleStaff)
	s.admin, _ = s.token(access.RoleAdmin)
	s.driver, s.driverID = s.token(access.RoleDriver)
}

func (s *ServerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func day(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format("2006-01-02")
}

func (s *ServerTestSuite) placeOrder(quantity int) string {
	rec := s.do(http.MethodPost, "/api/v1/orders", s.customer, map[string]any{
		"items":         []map[string]any{{"productId": s.productID.String(), "quantity": quantity}},
		"preferredDate": day(2),
		"preferredTime": "10:00",
		"contact":       map[string]string{"email": "buyer@example.com"},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created api.Created
	s.decode(rec, &created)
	return created.ID.String()
}

func (s *ServerTestSuite) TestHealthAndSwaggerArePublic() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/swagger/doc.json", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Back office API")
}

func (s *ServerTestSuite) TestMissingOrInvalidTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/api/v1/drivers/me/orders", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/drivers/me/orders", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var body api.Error
	s.decode(rec, &body)
	s.Equal(http.StatusUnauthorized, body.Code)
}

func (s *ServerTestSuite) TestOrderLifecycle() {
	id := s.placeOrder(3)

	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/approve", s.customer, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/orders/"+id+"/approve", s.staff, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var status api.StatusResult
	s.decode(rec, &status)
	s.Equal("WaitingPayment", status.Status)

	rec = s.do(http.MethodPost, "/api/v1/orders/"+id+"/approve", s.staff, nil)
	s.Require().Equal(http.StatusConflict, rec.Code)
	var conflict api.Error
	s.decode(rec, &conflict)
	s.Equal("WaitingPayment", conflict.Observed)

	rec = s.do(http.MethodPut, "/api/v1/orders/"+id+"/payment", s.staff, map[string]string{"status": "Paid"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var payment api.PaymentResult
	s.decode(rec, &payment)
	s.Equal(api.PaymentResult{Status: "Processing", PaymentFlag: "Paid", StockUpdated: true}, payment)

	rec = s.do(http.MethodGet, "/api/v1/orders/"+id, s.customer, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var view api.Order
	s.decode(rec, &view)
	s.Equal("Processing", view.Status)
	s.Equal("60.00", view.Amount)
	s.Equal("Paid", view.Transaction.PaymentStatus)
	s.Require().NotNil(view.Delivery)
	s.Equal("Preparing", view.Delivery.Status)

	rec = s.do(http.MethodGet, "/api/v1/orders/"+id, s.stranger, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/orders/"+id, s.staff, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/orders/"+id, s.admin, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodDelete, "/api/v1/orders/"+id, s.admin, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerTestSuite) TestDriverFlow() {
	id := s.placeOrder(1)
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/orders/"+id+"/approve", s.staff, nil).Code)
	s.Require().Equal(http.StatusOK,
		s.do(http.MethodPut, "/api/v1/orders/"+id+"/payment", s.staff, map[string]string{"status": "Paid"}).Code)

	var view api.Order
	s.decode(s.do(http.MethodGet, "/api/v1/orders/"+id, s.staff, nil), &view)
	s.Require().NotNil(view.Delivery)
	deliveryID := view.Delivery.ID.String()

	rec := s.do(http.MethodGet, "/api/v1/orders/"+id, s.driver, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/deliveries/"+deliveryID+"/drivers/"+s.driverID.String(), s.staff, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/drivers/me/orders", s.driver, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var mine api.DriverOrders
	s.decode(rec, &mine)
	s.Require().Len(mine.Orders, 1)
	s.Equal(id, mine.Orders[0].OrderID.String())
	s.Equal(int64(1), mine.ActiveCount)

	rec = s.do(http.MethodPut, "/api/v1/deliveries/"+deliveryID+"/status", s.driver,
		map[string]string{"status": "OutForDelivery"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var status api.StatusResult
	s.decode(rec, &status)
	s.Equal("OutForDelivery", status.Status)

	rec = s.do(http.MethodGet, "/api/v1/orders/"+id, s.driver, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestRescheduleLimitIsUnprocessable() {
	id := s.placeOrder(1)
	schedule := map[string]string{"preferredDate": day(3), "preferredTime": "11:00"}

	for i := 0; i < 3; i++ {
		s.Require().Equal(http.StatusOK,
			s.do(http.MethodPost, "/api/v1/orders/"+id+"/cancel", s.customer, map[string]string{"reason": "later"}).Code)
		rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/reschedule", s.customer, schedule)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/orders/"+id+"/cancel", s.customer, nil).Code)
	rec := s.do(http.MethodPost, "/api/v1/orders/"+id+"/reschedule", s.customer, schedule)
	s.Equal(http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func (s *ServerTestSuite) TestRequestsAreValidated() {
	rec := s.do(http.MethodPost, "/api/v1/orders", s.customer, map[string]any{
		"items":         []map[string]any{{"productId": s.productID.String(), "quantity": 0}},
		"preferredDate": day(2),
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/orders", s.customer, map[string]any{
		"items":         []map[string]any{},
		"preferredDate": day(2),
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/payment", s.staff,
		map[string]string{"status": "Refunded"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/reject", s.staff,
		map[string]string{"reason": ""})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/orders/not-a-uuid", s.staff, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
