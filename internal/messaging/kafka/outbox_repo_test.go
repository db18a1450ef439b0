package kafka

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go-leaveflow/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-9")

	e, err := NewEvent(ctx, "leave_request", 42, "leave.submitted", "leaveflow.leave.lifecycle.v1", map[string]int{"leave_id": 42})
	assert.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "req-9", e.RequestID)
	assert.Equal(t, "42", e.AggregateID)
	assert.Equal(t, OutboxStatusPending, e.Status)
	assert.JSONEq(t, `{"leave_id":42}`, string(e.Payload))
	assert.NoError(t, ValidateOutboxEvent(e))

	_, err = NewEvent(ctx, "leave_request", 1, "leave.submitted", "t", make(chan int))
	assert.Error(t, err)
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := OutboxEvent{ID: "a", Topic: "t", Payload: []byte("{}"), Status: OutboxStatusPending}

	tests := []struct {
		name   string
		mutate func(e *OutboxEvent)
	}{
		{"missing id", func(e *OutboxEvent) { e.ID = "" }},
		{"missing topic", func(e *OutboxEvent) { e.Topic = "" }},
		{"empty payload", func(e *OutboxEvent) { e.Payload = nil }},
		{"unknown status", func(e *OutboxEvent) { e.Status = "queued" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, ValidateOutboxEvent(e))
		})
	}
}

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := OutboxEvent{
		ID: "3f1c", RequestID: "req", AggregateType: "user", AggregateID: "7",
		EventType: "user.registered", Topic: "leaveflow.user.lifecycle.v1",
		Payload: []byte(`{"user_id":7}`), Status: OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)
	repo := NewOutboxRepository(db).WithTx(tx)
	assert.NoError(t, repo.Create(context.Background(), event))
	assert.NoError(t, tx.Commit())

	event.Topic = ""
	assert.Error(t, repo.Create(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	due := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("e1", "", "leave_request", "11", "leave.approved", "leaveflow.leave.lifecycle.v1", []byte(`{}`), OutboxStatusFailed, 2, due)

	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox_events")).
		WithArgs(OutboxStatusPending, OutboxStatusFailed, 50).
		WillReturnRows(rows)

	got, err := NewOutboxRepository(db).ListPending(context.Background(), 50)
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "e1", got[0].ID)
		assert.Equal(t, 2, got[0].RetryCount)
		assert.Equal(t, due, got[0].NextRetryAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Mark(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewOutboxRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("e1", OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("retry_count = retry_count + 1")).
		WithArgs("e2", OutboxStatusFailed, "broker unavailable").
		WillReturnError(errors.New("conn reset"))

	assert.NoError(t, repo.MarkSent(context.Background(), "e1"))
	assert.EqualError(t, repo.MarkFailed(context.Background(), "e2", "broker unavailable"), "conn reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
