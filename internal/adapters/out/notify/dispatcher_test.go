package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"backoffice/internal/adapters/out/notify"
	"backoffice/internal/adapters/out/postgres/memdb"
	"backoffice/internal/adapters/out/postgres/outboxrepo"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, message notification.Message) error {
	return m.Called(ctx, message).Error(0)
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, notification.Message) error {
	panic("smtp client exploded")
}

type MockClaimer struct {
	mock.Mock
}

func (m *MockClaimer) Claim(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimer) Release(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type DispatcherTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	outbox *outboxrepo.GormOutboxRepository
	logger *slog.Logger
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = memdb.Open(s.T(), false)
	s.outbox = outboxrepo.NewGormOutboxRepository(s.db)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *DispatcherTestSuite) enqueue(channel notification.Channel, target string) notification.Message {
	m, err := notification.NewMessage(channel, target, notification.EventOrderCancelled, kernel.NewUUID(),
		map[string]string{"reason": "customer request"}, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.outbox.Add(s.ctx, m))
	return m
}

func (s *DispatcherTestSuite) stored(id kernel.UUID) outboxrepo.OutboxMessageDTO {
	var dto outboxrepo.OutboxMessageDTO
	s.Require().NoError(s.db.Where("id = ?", id.Bytes()).First(&dto).Error)
	return dto
}

func (s *DispatcherTestSuite) TestDrain_SendsAndMarksSent() {
	email := s.enqueue(notification.ChannelEmail, "buyer@example.com")
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m notification.Message) bool {
		return m.ID.IsEqual(email.ID)
	})).Return(nil).Once()

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{
		notification.ChannelEmail: sender,
	}, nil, s.logger)

	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{Sent: 1}, report)

	got := s.stored(email.ID)
	s.Equal("Sent", got.Status)
	s.Equal(1, got.Attempts)
	s.NotNil(got.SentAt)
	sender.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestDrain_FailingSenderDoesNotStopOthers() {
	email := s.enqueue(notification.ChannelEmail, "buyer@example.com")
	sms := s.enqueue(notification.ChannelSMS, "+10000000000")
	admin := s.enqueue(notification.ChannelAdmin, "")

	failing := new(MockSender)
	failing.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	ok := new(MockSender)
	ok.On("Send", mock.Anything, mock.Anything).Return(nil)

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{
		notification.ChannelEmail: failing,
		notification.ChannelSMS:   panickingSender{},
		notification.ChannelAdmin: ok,
	}, nil, s.logger)

	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{Sent: 1, Retried: 2}, report)

	got := s.stored(email.ID)
	s.Equal("Pending", got.Status)
	s.Equal(1, got.Attempts)
	s.Contains(got.LastError, "connection refused")

	got = s.stored(sms.ID)
	s.Equal("Pending", got.Status)
	s.Contains(got.LastError, "panicked")

	s.Equal("Sent", s.stored(admin.ID).Status)
}

func (s *DispatcherTestSuite) TestDrain_GivesUpAfterMaxAttempts() {
	email := s.enqueue(notification.ChannelEmail, "buyer@example.com")
	failing := new(MockSender)
	failing.On("Send", mock.Anything, mock.Anything).Return(errors.New("mailbox full"))

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{
		notification.ChannelEmail: failing,
	}, nil, s.logger)

	for i := 1; i < notification.MaxAttempts; i++ {
		report, err := d.Drain(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, report.Retried)
	}
	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, report.Failed)

	got := s.stored(email.ID)
	s.Equal("Failed", got.Status)
	s.Equal(notification.MaxAttempts, got.Attempts)

	report, err = d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{}, report)
	failing.AssertNumberOfCalls(s.T(), "Send", notification.MaxAttempts)
}

func (s *DispatcherTestSuite) TestDrain_MissingSenderFailsMessage() {
	sms := s.enqueue(notification.ChannelSMS, "+10000000000")

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{}, nil, s.logger)

	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{Failed: 1}, report)
	s.Equal("Failed", s.stored(sms.ID).Status)
}

func (s *DispatcherTestSuite) TestDrain_RespectsClaims() {
	mine := s.enqueue(notification.ChannelAdmin, "")
	theirs := s.enqueue(notification.ChannelAdmin, "")
	broken := s.enqueue(notification.ChannelEmail, "buyer@example.com")

	claimer := new(MockClaimer)
	claimer.On("Claim", mock.Anything, mine.ID).Return(true, nil)
	claimer.On("Claim", mock.Anything, theirs.ID).Return(false, nil)
	claimer.On("Claim", mock.Anything, broken.ID).Return(true, nil)
	claimer.On("Release", mock.Anything, broken.ID).Return(nil).Once()

	admin := new(MockSender)
	admin.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	email := new(MockSender)
	email.On("Send", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{
		notification.ChannelAdmin: admin,
		notification.ChannelEmail: email,
	}, claimer, s.logger)

	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{Sent: 1, Retried: 1, Skipped: 1}, report)
	s.Equal("Pending", s.stored(theirs.ID).Status)
	s.Equal(0, s.stored(theirs.ID).Attempts)

	claimer.AssertExpectations(s.T())
	claimer.AssertNotCalled(s.T(), "Release", mock.Anything, mine.ID)
}

func (s *DispatcherTestSuite) TestDrain_ClaimErrorSkipsMessage() {
	m := s.enqueue(notification.ChannelAdmin, "")
	claimer := new(MockClaimer)
	claimer.On("Claim", mock.Anything, m.ID).Return(false, errors.New("redis down"))
	sender := new(MockSender)

	d := notify.NewDispatcher(s.outbox, map[notification.Channel]ports.NotificationSender{
		notification.ChannelAdmin: sender,
	}, claimer, s.logger)

	report, err := d.Drain(s.ctx)
	s.Require().NoError(err)
	s.Equal(notify.Report{Skipped: 1}, report)
	sender.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything)
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func TestNewRedisClient_RejectsBadURL(t *testing.T) {
	_, err := notify.NewRedisClient(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Redis URL")
}
