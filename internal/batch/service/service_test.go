package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	batchmetrics "soulmint/internal/batch/metrics"
	"soulmint/internal/batch/models"
	"soulmint/internal/batch/store"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/events"
	"soulmint/pkg/platform/events/publisher"
	eventstore "soulmint/pkg/platform/events/store/memory"
	"soulmint/pkg/requestcontext"
	testutils "soulmint/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	events  *eventstore.InMemoryStore
	metrics *batchmetrics.Metrics
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.events = eventstore.NewInMemoryStore()
	s.metrics = batchmetrics.New(prometheus.NewRegistry())
	s.service = New(s.store,
		WithEventEmitter(publisher.NewPublisher(s.events)),
		WithMetrics(s.metrics),
	)
	s.now = time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) command(authority byte) models.CreateBatchCommand {
	return models.CreateBatchCommand{
		Authority: testutils.Account(authority),
		Treasury:  testutils.Account(0xfe),
		FeeAmount: 1_000,
		Cap:       3,
	}
}

func (s *ServiceSuite) TestCreateBatch() {
	s.Run("creates active registry and emits batch_created", func() {
		batch, err := s.service.CreateBatch(s.ctx, s.command(1))
		s.Require().NoError(err)
		s.Equal(0, batch.IssuedCount)
		s.False(batch.Completed)
		s.Equal(s.now, batch.CreatedAt)

		stored, err := s.events.ListByBatch(s.ctx, batch.ID)
		s.Require().NoError(err)
		s.Require().Len(stored, 1)
		s.Equal(events.KindBatchCreated, stored[0].Kind)
		s.Equal(testutils.Account(1), stored[0].Actor)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.BatchesCreated))
	})

	s.Run("invalid size", func() {
		cmd := s.command(2)
		cmd.Cap = 101
		_, err := s.service.CreateBatch(s.ctx, cmd)
		s.ErrorIs(err, models.ErrInvalidBatchSize)
	})

	s.Run("zero fee", func() {
		cmd := s.command(3)
		cmd.FeeAmount = 0
		_, err := s.service.CreateBatch(s.ctx, cmd)
		s.ErrorIs(err, models.ErrInvalidPrice)
	})

	s.Run("second registry for the same authority conflicts", func() {
		_, err := s.service.CreateBatch(s.ctx, s.command(4))
		s.Require().NoError(err)
		_, err = s.service.CreateBatch(s.ctx, s.command(4))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ServiceSuite) TestCreateBatchEmitFailureRollsBack() {
	svc := New(s.store, WithEventEmitter(failingEmitter{}))
	_, err := svc.CreateBatch(s.ctx, s.command(9))
	s.Require().Error(err)
	s.Contains(err.Error(), "emit failed")
}

func (s *ServiceSuite) TestGetBatch() {
	created, err := s.service.CreateBatch(s.ctx, s.command(5))
	s.Require().NoError(err)

	s.Run("found", func() {
		got, err := s.service.GetBatch(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
	})

	s.Run("not found", func() {
		_, err := s.service.GetBatch(s.ctx, id.NewBatchID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("nil id", func() {
		_, err := s.service.GetBatch(s.ctx, id.BatchID{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, events.Event) error {
	return errors.New("emit failed")
}
