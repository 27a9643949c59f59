package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linecut/internal/model"
	"linecut/internal/notify"
)

type fakePusher struct {
	mu     sync.Mutex
	tokens []string
	msgs   []notify.Message
	stale  []string
}

func (f *fakePusher) Push(_ context.Context, tokens []string, msg notify.Message) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, tokens...)
	f.msgs = append(f.msgs, msg)
	return f.stale, nil
}

func TestBuildNotification(t *testing.T) {
	tests := []struct {
		kind       model.NotificationType
		title      string
		message    string
		showRating bool
	}{
		{model.NotificationOrderPlaced, "Pedido realizado", "Recebemos seu pedido na Cantina. Em breve ele será preparado!", false},
		{model.NotificationOrderPreparing, "Pedido em preparo", "Seu pedido na Cantina está sendo preparado!", false},
		{model.NotificationOrderReady, "Pedido pronto para retirada", "Seu pedido está pronto! Retire no balcão quando quiser.", false},
		{model.NotificationOrderPickedUp, "Pedido retirado", "Você retirou seu pedido na Cantina. Aproveite sua refeição!", false},
		{model.NotificationRating, "Avalie seu pedido", "O que achou do seu pedido? Sua opinião é muito importante!", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			n, err := BuildNotification(tt.kind, "u-1", "o-1", "Cantina")
			require.NoError(t, err)
			assert.NotEmpty(t, n.ID)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.message, n.Message)
			assert.Equal(t, tt.showRating, n.ShowRating)
			assert.False(t, n.Read)
		})
	}

	_, err := BuildNotification("ORDER_LOST", "u-1", "o-1", "Cantina")
	assert.Error(t, err)
}

func TestNotificationCreate_PushesAndDropsStaleTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pusher := &fakePusher{stale: []string{"old"}}
	svc := NewNotificationService(db, pusher)

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "u-1", "o-1", "Cantina", "ORDER_PREPARING", "Pedido em preparo",
			"Seu pedido na Cantina está sendo preparado!", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT token FROM device_tokens`).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("new").AddRow("old"))
	mock.ExpectExec(`DELETE FROM device_tokens`).WithArgs("old", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Create(context.Background(), model.NotificationOrderPreparing, "u-1", "o-1", "Cantina"))

	assert.Equal(t, []string{"new", "old"}, pusher.tokens)
	require.Len(t, pusher.msgs, 1)
	assert.Equal(t, "Pedido em preparo", pusher.msgs[0].Title)
	assert.Equal(t, "o-1", pusher.msgs[0].Data["order_id"])
	assert.Equal(t, "ORDER_PREPARING", pusher.msgs[0].Data["type"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationCreate_NoDevices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pusher := &fakePusher{}
	mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT token FROM device_tokens`).WillReturnRows(sqlmock.NewRows([]string{"token"}))

	require.NoError(t, NewNotificationService(db, pusher).Create(context.Background(), model.NotificationRating, "u-1", "o-1", "Cantina"))
	assert.Empty(t, pusher.msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 11, 9, 15, 0, 0, 0, time.UTC)
	svc := NewNotificationService(db, &fakePusher{})
	svc.now = func() time.Time { return now }

	cols := []string{"id", "user_id", "order_id", "store_name", "type", "title", "message", "show_rating", "read", "created_at"}
	mock.ExpectQuery(`FROM notifications`).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(cols).
		AddRow("n-2", "u-1", "o-1", "Cantina", "RATING", "Avalie seu pedido", "...", true, false, now.Add(-5*time.Minute)).
		AddRow("n-1", "u-1", "o-1", "Cantina", "ORDER_PLACED", "Pedido realizado", "...", false, true, now.Add(-3*time.Hour)))

	list, err := svc.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "5 min atrás", list[0].Time)
	assert.Equal(t, model.NotificationRating, list[0].Type)
	assert.True(t, list[0].ShowRating)
	assert.Equal(t, "3h atrás", list[1].Time)
	assert.True(t, list[1].Read)
}

func TestNotificationMarkRead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`UPDATE notifications SET read`).WithArgs("n-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewNotificationService(db, &fakePusher{}).MarkRead(context.Background(), "u-1", "n-1")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestRegisterDevice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`INSERT INTO device_tokens`).WithArgs("tok", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewNotificationService(db, &fakePusher{})
	require.NoError(t, svc.RegisterDevice(context.Background(), "u-1", "tok"))
	assert.Equal(t, "Token do dispositivo obrigatório", validationMessage(t, svc.RegisterDevice(context.Background(), "u-1", "")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
