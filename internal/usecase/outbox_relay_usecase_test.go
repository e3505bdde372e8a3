package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"shama_quotations/internal/domain/entities"
	mock_interfaces "shama_quotations/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestOutboxRelayUseCase_RelayPending(t *testing.T) {
	ctx := context.Background()
	records := []entities.OutboxRecord{
		{ID: "quotation.approved#q-1", Topic: entities.TopicQuotationApproved, Payload: []byte(`{"quotationId":"q-1"}`)},
		{ID: "quotation.approved#q-2", Topic: entities.TopicQuotationApproved, Payload: []byte(`{"quotationId":"q-2"}`), Attempts: 2},
	}

	t.Run("publishes and marks dispatched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		publisher := mock_interfaces.NewMockIEventPublisher(ctrl)
		uc := NewOutboxRelayUseCase(outbox, publisher, time.Second, 10)

		outbox.EXPECT().ListPending(gomock.Any(), 10).Return(records, nil)
		for _, rec := range records {
			publisher.EXPECT().Publish(gomock.Any(), rec.Topic, rec.ID, []byte(rec.Payload)).Return(nil)
			outbox.EXPECT().MarkDispatched(gomock.Any(), rec.ID).Return(nil)
		}

		n, err := uc.RelayPending(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 dispatched, got %d", n)
		}
	})

	t.Run("publish failure keeps record pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		publisher := mock_interfaces.NewMockIEventPublisher(ctrl)
		uc := NewOutboxRelayUseCase(outbox, publisher, 0, 0)

		outbox.EXPECT().ListPending(gomock.Any(), DefaultOutboxRelayBatch).Return(records, nil)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), records[0].ID, gomock.Any()).Return(errors.New("broker down"))
		outbox.EXPECT().MarkFailed(gomock.Any(), records[0].ID, "broker down").Return(nil)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), records[1].ID, gomock.Any()).Return(nil)
		outbox.EXPECT().MarkDispatched(gomock.Any(), records[1].ID).Return(nil)

		n, err := uc.RelayPending(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 dispatched, got %d", n)
		}
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
		uc := NewOutboxRelayUseCase(outbox, mock_interfaces.NewMockIEventPublisher(ctrl), time.Second, 5)

		outbox.EXPECT().ListPending(gomock.Any(), 5).Return(nil, errors.New("db down"))

		if _, err := uc.RelayPending(ctx); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestOutboxRelayUseCase_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
	uc := NewOutboxRelayUseCase(outbox, mock_interfaces.NewMockIEventPublisher(ctrl), 10*time.Millisecond, 5)

	ctx, cancel := context.WithCancel(context.Background())
	ticked := make(chan struct{}, 1)
	outbox.EXPECT().ListPending(gomock.Any(), 5).DoAndReturn(func(context.Context, int) ([]entities.OutboxRecord, error) {
		select {
		case ticked <- struct{}{}:
		default:
		}
		return nil, nil
	}).MinTimes(1)

	done := make(chan struct{})
	go func() {
		uc.Run(ctx)
		close(done)
	}()

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatalf("relay did not tick")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("relay did not stop")
	}
}
