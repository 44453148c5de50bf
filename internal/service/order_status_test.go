package service

import (
	"errors"
	"testing"

	"github.com/cangku-next/internal/constants"
	"github.com/cangku-next/internal/models"

	"gorm.io/gorm"
)

func TestCanTransitionWhitelist(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusAllocated, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusPending, constants.OrderStatusPicked, false},
		{constants.OrderStatusAllocated, constants.OrderStatusPicking, true},
		{constants.OrderStatusAllocated, constants.OrderStatusPacked, false},
		{constants.OrderStatusPicking, constants.OrderStatusPicked, true},
		{constants.OrderStatusPicking, constants.OrderStatusPartiallyPicked, true},
		{constants.OrderStatusPicking, constants.OrderStatusAllocated, true},
		{constants.OrderStatusPicked, constants.OrderStatusPacked, true},
		{constants.OrderStatusPicked, constants.OrderStatusPending, false},
		{constants.OrderStatusPacked, constants.OrderStatusShipped, true},
		{constants.OrderStatusPacked, constants.OrderStatusPartiallyShipped, true},
		{constants.OrderStatusPacked, constants.OrderStatusCancelled, false},
		{constants.OrderStatusPartiallyShipped, constants.OrderStatusShipped, true},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusReturned, true},
		{"unknown", constants.OrderStatusAllocated, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.allowed {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestTerminalStatusesRejectAllTransitions(t *testing.T) {
	terminals := []string{
		constants.OrderStatusDelivered,
		constants.OrderStatusFulfilled,
		constants.OrderStatusCancelled,
		constants.OrderStatusReturned,
	}
	targets := []string{
		constants.OrderStatusPending,
		constants.OrderStatusAllocated,
		constants.OrderStatusPicking,
		constants.OrderStatusShipped,
		constants.OrderStatusCancelled,
	}
	for _, from := range terminals {
		if !IsTerminalStatus(from) {
			t.Fatalf("expected %s to be terminal", from)
		}
		for _, to := range targets {
			if CanTransition(from, to) {
				t.Fatalf("terminal status %s must not transition to %s", from, to)
			}
		}
	}
	if IsTerminalStatus(constants.OrderStatusShipped) {
		t.Fatalf("shipped must not be terminal")
	}
}

func TestTransitionAppendsHistory(t *testing.T) {
	f := setupFixture(t)
	order := &models.Order{OrderNo: "SO-STATUS-1", Status: constants.OrderStatusPending}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return f.status.Transition(tx, order, constants.OrderStatusAllocated, 7, "测试跳转")
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if order.Status != constants.OrderStatusAllocated {
		t.Fatalf("expected in-memory status allocated, got %s", order.Status)
	}

	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusAllocated {
		t.Fatalf("expected stored status allocated, got %s", reloaded.Status)
	}
	history, err := f.orderRepo.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(history))
	}
	row := history[0]
	if row.PreviousStatus != constants.OrderStatusPending ||
		row.NewStatus != constants.OrderStatusAllocated ||
		row.ChangedBy != 7 {
		t.Fatalf("unexpected history row: %+v", row)
	}
}

func TestTransitionRejectsIllegalJump(t *testing.T) {
	f := setupFixture(t)
	order := &models.Order{OrderNo: "SO-STATUS-2", Status: constants.OrderStatusPending}
	if err := f.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		return f.status.Transition(tx, order, constants.OrderStatusShipped, 1, "")
	})
	if !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}

	reloaded := f.reloadOrder(t, order.ID)
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("status must stay pending after rejected jump, got %s", reloaded.Status)
	}
	history, err := f.orderRepo.ListStatusHistory(order.ID)
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected jump must not write history, got %d rows", len(history))
	}
}
