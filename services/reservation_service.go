package services

import (
	"strings"
	"time"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

const (
	minPartySize = 1
	maxPartySize = 20

	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ReservationRequest struct {
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	PartySize     int                  `json:"partySize"`
	BranchID      *uint                `json:"branchId"`
	Notes         string               `json:"notes"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	DepositAmount float64              `json:"depositAmount"`
}

type ReservationFilter struct {
	BranchID *uint
	Status   models.ReservationStatus
	Page     int
	Limit    int
}

// BranchOverview is the combined view a branch's staff work from.
type BranchOverview struct {
	Branch       models.Branch        `json:"branch"`
	Orders       []models.Order       `json:"orders"`
	Reservations []models.Reservation `json:"reservations"`
}

type ReservationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, now: time.Now}
}

func (s *ReservationService) validate(req *ReservationRequest) error {
	if req.PartySize < minPartySize || req.PartySize > maxPartySize {
		return invalid("Party size must be between %d and %d", minPartySize, maxPartySize)
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.Local)
	if err != nil {
		return invalid("Date must be in YYYY-MM-DD format")
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return invalid("Reservation date cannot be in the past")
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(req.Time)); err != nil {
		return invalid("Time must be in HH:MM format")
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if !req.PaymentMethod.Valid() {
		return invalid("Invalid payment method")
	}
	if req.DepositAmount < 0 {
		return invalid("Deposit amount cannot be negative")
	}
	req.Date = day.Format("2006-01-02")
	req.Time = strings.TrimSpace(req.Time)
	return nil
}

func (s *ReservationService) Create(viewer models.Viewer, req ReservationRequest) (*models.Reservation, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	branchID, err := resolveBranch(s.db, viewer, req.BranchID)
	if err != nil {
		return nil, err
	}

	r := models.Reservation{
		UserID:        viewer.UserID,
		BranchID:      branchID,
		Date:          req.Date,
		Time:          req.Time,
		PartySize:     req.PartySize,
		Status:        models.ReservationPending,
		Notes:         strings.TrimSpace(req.Notes),
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		DepositAmount: req.DepositAmount,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "create reservation")
	}
	return s.load(r.ID)
}

func (s *ReservationService) load(id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.db.Preload("User").Preload("Branch").First(&r, id).Error; err != nil {
		return nil, lookup(err, "Reservation")
	}
	return &r, nil
}

func (s *ReservationService) Mine(viewer models.Viewer) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.db.Preload("Branch").
		Where("user_id = ?", viewer.UserID).
		Order("date DESC, time DESC").
		Find(&out).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list reservations")
	}
	return out, nil
}

// List pages through reservations for staff. Branch staff only see their branch.
func (s *ReservationService) List(viewer models.Viewer, f ReservationFilter) (*models.ReservationsPage, error) {
	if !viewer.Role.IsStaff() {
		return nil, utils.ErrNoPermission
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("Invalid reservation status %q", f.Status)
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	q := s.db.Model(&models.Reservation{})
	if viewer.Role.IsBranchScoped() {
		if viewer.BranchID == nil {
			return nil, forbidden("No branch assigned")
		}
		q = q.Where("branch_id = ?", *viewer.BranchID)
	} else if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "count reservations")
	}

	page := &models.ReservationsPage{Reservations: []models.Reservation{}}
	err := q.Preload("User").Preload("Branch").
		Order("date ASC, time ASC, id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&page.Reservations).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list reservations")
	}
	page.Pagination = models.NewPagination(total, f.Page, f.Limit)
	return page, nil
}

func (s *ReservationService) canSee(viewer models.Viewer, r *models.Reservation) bool {
	uid := r.UserID
	return viewer.CanSeeOrder(&uid, r.BranchID)
}

// UpdateStatus lets staff confirm or cancel a pending reservation.
func (s *ReservationService) UpdateStatus(viewer models.Viewer, id uint, status models.ReservationStatus) (*models.Reservation, error) {
	if !takesCounterOrders(viewer.Role) {
		return nil, utils.ErrNoPermission
	}
	if status != models.ReservationConfirmed && status != models.ReservationCancelled {
		return nil, invalid("Reservations can only be confirmed or cancelled")
	}

	r, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !s.canSee(viewer, r) {
		return nil, utils.ErrNoPermission
	}
	if r.Status != models.ReservationPending {
		return nil, conflict("Reservation is already %s", r.Status)
	}
	return s.setStatus(id, models.ReservationPending, status)
}

// Cancel lets the owner cancel a reservation that is not already cancelled.
func (s *ReservationService) Cancel(viewer models.Viewer, id uint) (*models.Reservation, error) {
	r, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if r.UserID != viewer.UserID {
		return nil, notFound("Reservation")
	}
	if r.Status == models.ReservationCancelled {
		return nil, conflict("Reservation is already cancelled")
	}
	return s.setStatus(id, r.Status, models.ReservationCancelled)
}

func (s *ReservationService) setStatus(id uint, from, to models.ReservationStatus) (*models.Reservation, error) {
	res := s.db.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, res.Error, "update reservation")
	}
	if res.RowsAffected == 0 {
		return nil, conflict("Reservation status changed concurrently")
	}
	return s.load(id)
}

// BranchOverview returns a branch with its orders and reservations.
func (s *ReservationService) BranchOverview(viewer models.Viewer, branchID uint) (*BranchOverview, error) {
	if !viewer.Role.IsStaff() {
		return nil, utils.ErrNoPermission
	}
	if viewer.Role.IsBranchScoped() && (viewer.BranchID == nil || *viewer.BranchID != branchID) {
		return nil, utils.ErrNoPermission
	}

	out := &BranchOverview{Orders: []models.Order{}, Reservations: []models.Reservation{}}
	if err := s.db.First(&out.Branch, branchID).Error; err != nil {
		return nil, lookup(err, "Branch")
	}
	err := preloadOrder(s.db).Where("branch_id = ?", branchID).
		Order("created_at DESC, id DESC").Find(&out.Orders).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list branch orders")
	}
	err = s.db.Preload("User").Where("branch_id = ?", branchID).
		Order("date ASC, time ASC").Find(&out.Reservations).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list branch reservations")
	}
	return out, nil
}
