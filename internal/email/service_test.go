package email

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(rdb *redis.Client) *Service {
	return newService(rdb, Config{
		From:     "noreply@fitstudio.local",
		FromName: "Fit Studio",
		SMTPHost: "smtp.test.com",
		SMTPPort: "587",
	})
}

func queuedJob(t *testing.T, job Job) string {
	t.Helper()
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSendBookingConfirmation(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `Booking Confirmed - Yoga`).SetVal(1)

	svc := newTestService(db)

	when := time.Date(2025, 7, 6, 18, 0, 0, 0, time.FixedZone("IST", 19800))
	err := svc.SendBookingConfirmation(context.Background(), "rama@example.com", "rama", "Yoga", when)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.SendBookingConfirmation(context.Background(), "rama@example.com", "rama", "Yoga", time.Now())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_Delivers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(2*time.Second, queueKey).
		SetVal([]string{queueKey, queuedJob(t, Job{Kind: kindConfirmation, To: "a@x.com", Subject: "Hi"})})

	svc := newTestService(db)
	var sent []Job
	svc.send = func(j Job) error {
		sent = append(sent, j)
		return nil
	}

	require.NoError(t, svc.processNext(context.Background()))
	require.Len(t, sent, 1)
	assert.Equal(t, "a@x.com", sent[0].To)
	assert.Equal(t, 1, sent[0].Tries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_RequeuesOnFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(2*time.Second, queueKey).
		SetVal([]string{queueKey, queuedJob(t, Job{Kind: kindConfirmation, To: "a@x.com"})})
	mock.Regexp().ExpectLPush(queueKey, `"tries":1`).SetVal(1)

	svc := newTestService(db)
	svc.send = func(Job) error { return errors.New("smtp down") }

	require.NoError(t, svc.processNext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_GivesUpAfterMaxTries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(2*time.Second, queueKey).
		SetVal([]string{queueKey, queuedJob(t, Job{Kind: kindConfirmation, To: "a@x.com", Tries: maxTries - 1})})
	mock.Regexp().ExpectLPush(failedKey, `smtp down`).SetVal(1)

	svc := newTestService(db)
	svc.send = func(Job) error { return errors.New("smtp down") }

	require.NoError(t, svc.processNext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_EmptyQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectBRPop(2*time.Second, queueKey).RedisNil()

	svc := newTestService(db)
	svc.send = func(Job) error {
		t.Fatal("nothing should be sent")
		return nil
	}

	assert.NoError(t, svc.processNext(context.Background()))
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetVal(5)

	svc := newTestService(db)

	assert.Equal(t, int64(5), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
