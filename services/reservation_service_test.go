package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

func newReservations(f *fixture) *ReservationService {
	s := NewReservationService(f.db)
	s.now = func() time.Time { return time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local) }
	return s
}

func TestReservationValidation(t *testing.T) {
	f := newFixture(t)
	s := newReservations(f)
	ok := ReservationRequest{Date: "2024-01-15", Time: "19:30", PartySize: 4}

	tests := []struct {
		name string
		mod  func(r *ReservationRequest)
	}{
		{"party too small", func(r *ReservationRequest) { r.PartySize = 0 }},
		{"party too large", func(r *ReservationRequest) { r.PartySize = 21 }},
		{"bad date", func(r *ReservationRequest) { r.Date = "15/01/2024" }},
		{"past date", func(r *ReservationRequest) { r.Date = "2024-01-14" }},
		{"bad time", func(r *ReservationRequest) { r.Time = "7pm" }},
		{"bad payment", func(r *ReservationRequest) { r.PaymentMethod = "IOU" }},
		{"negative deposit", func(r *ReservationRequest) { r.DepositAmount = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ok
			tt.mod(&req)
			_, err := s.Create(f.customer, req)
			requireCode(t, err, utils.CodeValidation)
		})
	}

	r, err := s.Create(f.customer, ok)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, r.Status)
	assert.Equal(t, models.PaymentCash, r.PaymentMethod)
}

func TestReservationLifecycle(t *testing.T) {
	f := newFixture(t)
	s := newReservations(f)
	branchID := f.branch.ID

	r, err := s.Create(f.customer, ReservationRequest{Date: "2024-01-20", Time: "20:00", PartySize: 2, BranchID: &branchID})
	require.NoError(t, err)

	_, err = s.UpdateStatus(f.chef, r.ID, models.ReservationConfirmed)
	requireCode(t, err, utils.CodeForbidden)

	_, err = s.UpdateStatus(f.cashier, r.ID, models.ReservationPending)
	requireCode(t, err, utils.CodeValidation)

	got, err := s.UpdateStatus(f.cashier, r.ID, models.ReservationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, got.Status)

	_, err = s.UpdateStatus(f.cashier, r.ID, models.ReservationCancelled)
	requireCode(t, err, utils.CodeStateConflict)

	_, err = s.Cancel(f.other, r.ID)
	requireCode(t, err, utils.CodeNotFound)

	got, err = s.Cancel(f.customer, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, got.Status)

	_, err = s.Cancel(f.customer, r.ID)
	requireCode(t, err, utils.CodeStateConflict)
}

func TestReservationListPaginates(t *testing.T) {
	f := newFixture(t)
	s := newReservations(f)
	branchID, other := f.branch.ID, f.otherBranch.ID

	for i := 0; i < 3; i++ {
		_, err := s.Create(f.customer, ReservationRequest{Date: "2024-01-20", Time: "18:00", PartySize: 2 + i, BranchID: &branchID})
		require.NoError(t, err)
	}
	_, err := s.Create(f.other, ReservationRequest{Date: "2024-01-21", Time: "18:00", PartySize: 2, BranchID: &other})
	require.NoError(t, err)

	page, err := s.List(f.cashier, ReservationFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Reservations, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)

	page, err = s.List(f.cashier, ReservationFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Reservations, 1)
	assert.True(t, page.Pagination.HasPrev)

	all, err := s.List(f.hq, ReservationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Pagination.Total)

	filtered, err := s.List(f.hq, ReservationFilter{BranchID: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Pagination.Total)

	_, err = s.List(f.customer, ReservationFilter{})
	requireCode(t, err, utils.CodeForbidden)

	mine, err := s.Mine(f.customer)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestBranchOverview(t *testing.T) {
	f := newFixture(t)
	s := newReservations(f)
	branchID := f.branch.ID

	f.placeFor(t, f.customer)
	_, err := s.Create(f.customer, ReservationRequest{Date: "2024-01-20", Time: "18:00", PartySize: 2, BranchID: &branchID})
	require.NoError(t, err)

	view, err := s.BranchOverview(f.manager, branchID)
	require.NoError(t, err)
	assert.Equal(t, "Central", view.Branch.Name)
	assert.Len(t, view.Orders, 1)
	assert.Len(t, view.Reservations, 1)

	_, err = s.BranchOverview(f.manager, f.otherBranch.ID)
	requireCode(t, err, utils.CodeForbidden)

	_, err = s.BranchOverview(f.hq, 999)
	requireCode(t, err, utils.CodeNotFound)
}
