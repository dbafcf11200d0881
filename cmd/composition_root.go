package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	api "backoffice/internal/adapters/in/http"
	"backoffice/internal/adapters/out/notify"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/catalogrepo"
	"backoffice/internal/adapters/out/postgres/deliveryrepo"
	"backoffice/internal/adapters/out/postgres/orderrepo"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"
	"backoffice/internal/jobs"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

const claimTTL = 2 * time.Minute

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	caps       postgres.SchemaCapabilities
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     access.Policy
	logger     *slog.Logger

	kafkaWriter *kafka.Writer
	redis       *redis.Client
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, caps postgres.SchemaCapabilities, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		caps:       caps,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, caps),
		policy:     access.DefaultPolicy(),
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoW(), catalogrepo.NewGormCatalogReader(c.gormDB))
}

func (c *CompositionRoot) CreateApproveOrderCommandHandler() commands.ApproveOrderCommandHandler {
	return commands.NewApproveOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoW(), c.policy)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateSetPaymentStatusCommandHandler() commands.SetPaymentStatusCommandHandler {
	return commands.NewSetPaymentStatusCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateRescheduleOrderCommandHandler() commands.RescheduleOrderCommandHandler {
	return commands.NewRescheduleOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateAdvanceDeliveryCommandHandler() commands.AdvanceDeliveryCommandHandler {
	return commands.NewAdvanceDeliveryCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) driverAssignments() queries.DriverAssignments {
	return queries.NewDriverAssignments(c.gormDB, c.caps.AssignmentJunctions)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(
		orderrepo.NewGormOrderRepository(c.gormDB),
		deliveryrepo.NewGormDeliveryRepository(c.gormDB, c.caps.AssignmentJunctions),
		c.driverAssignments(),
	)
}

func (c *CompositionRoot) CreateDriverOrdersQueryHandler() queries.DriverOrdersQueryHandler {
	return queries.NewDriverOrdersQueryHandler(c.driverAssignments())
}

func (c *CompositionRoot) CreateServer() *api.Server {
	return api.NewServer(api.Handlers{
		PlaceOrder:       c.CreatePlaceOrderCommandHandler(),
		ApproveOrder:     c.CreateApproveOrderCommandHandler(),
		RejectOrder:      c.CreateRejectOrderCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		DeleteOrder:      c.CreateDeleteOrderCommandHandler(),
		SetPaymentStatus: c.CreateSetPaymentStatusCommandHandler(),
		RescheduleOrder:  c.CreateRescheduleOrderCommandHandler(),
		AssignDelivery:   c.CreateAssignDeliveryCommandHandler(),
		AdvanceDelivery:  c.CreateAdvanceDeliveryCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		DriverOrders:     c.CreateDriverOrdersQueryHandler(),
	})
}

// CreateSenders returns a sender for every channel that is configured.
// Messages on the other channels are marked Failed by the dispatcher.
func (c *CompositionRoot) CreateSenders() map[notification.Channel]ports.NotificationSender {
	senders := make(map[notification.Channel]ports.NotificationSender)

	if c.config.SMTPHost != "" {
		senders[notification.ChannelEmail] = notify.NewEmailSender(notify.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUser,
			Password: c.config.SMTPPassword,
			From:     c.config.SMTPFrom,
		})
	}
	if c.config.SMSGatewayURL != "" {
		senders[notification.ChannelSMS] = notify.NewSMSSender(notify.SMSGatewayConfig{
			URL:      c.config.SMSGatewayURL,
			Username: c.config.SMSGatewayUser,
			Password: c.config.SMSGatewayPassword,
		})
	}
	if len(c.config.KafkaBrokers) > 0 {
		if c.kafkaWriter == nil {
			c.kafkaWriter = notify.NewKafkaWriter(c.config.KafkaBrokers, c.config.KafkaAdminTopic)
		}
		senders[notification.ChannelAdmin] = notify.NewKafkaAdminSender(c.kafkaWriter)
	}

	for channel := range senders {
		c.logger.Info("Notification channel enabled", "channel", channel)
	}
	return senders
}

// CreateClaimer connects to Redis when REDIS_URL is set. Without it the
// dispatcher assumes it is the only replica.
func (c *CompositionRoot) CreateClaimer(ctx context.Context) (ports.MessageClaimer, error) {
	if c.config.RedisURL == "" {
		return nil, nil
	}
	if c.redis == nil {
		rdb, err := notify.NewRedisClient(ctx, c.config.RedisURL)
		if err != nil {
			return nil, err
		}
		c.redis = rdb
	}

	host, _ := os.Hostname()
	owner := fmt.Sprintf("%s-%d", host, os.Getpid())
	return notify.NewRedisClaimer(c.redis, owner, claimTTL), nil
}

func (c *CompositionRoot) CreateJobManager(ctx context.Context) (*jobs.JobManager, error) {
	claimer, err := c.CreateClaimer(ctx)
	if err != nil {
		return nil, err
	}
	outbox := outboxrepo.NewGormOutboxRepository(c.gormDB)
	dispatcher := notify.NewDispatcher(outbox, c.CreateSenders(), claimer, c.logger)
	return jobs.NewJobManager(dispatcher, outbox, c.config.OutboxRetention, c.logger), nil
}

// Close releases the broker and cache connections opened by the root.
func (c *CompositionRoot) Close() error {
	var firstErr error
	if c.kafkaWriter != nil {
		if err := c.kafkaWriter.Close(); err != nil {
			firstErr = err
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
