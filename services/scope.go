package services

import (
	"errors"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

func notFound(what string) *utils.AppError {
	return utils.NewAppError(utils.CodeNotFound, "%s not found", what)
}

func invalid(format string, args ...any) *utils.AppError {
	return utils.NewAppError(utils.CodeValidation, format, args...)
}

func forbidden(message string) *utils.AppError {
	return utils.NewAppError(utils.CodeForbidden, "%s", message)
}

func conflict(format string, args ...any) *utils.AppError {
	return utils.NewAppError(utils.CodeStateConflict, format, args...)
}

// lookup turns gorm's not-found into an AppError and wraps everything else.
func lookup(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return utils.WrapAppError(utils.CodeInternal, err, "load "+what)
}

// scopeOrders restricts an order or order event query to what viewer may see.
func scopeOrders(q *gorm.DB, viewer models.Viewer) *gorm.DB {
	switch {
	case viewer.SeesAllBranches():
		return q
	case viewer.Role.IsBranchScoped():
		if viewer.BranchID == nil {
			return q.Where("1 = 0")
		}
		return q.Where("branch_id = ?", *viewer.BranchID)
	}
	return q.Where("user_id = ?", viewer.UserID)
}

// resolveBranch returns the branch an order or reservation belongs to. An
// explicit branch must exist and be active; otherwise the viewer's own branch
// is used, which may be none.
func resolveBranch(tx *gorm.DB, viewer models.Viewer, branchID *uint) (*uint, error) {
	if branchID == nil || *branchID == 0 {
		return viewer.BranchID, nil
	}
	if viewer.Role.IsBranchScoped() && (viewer.BranchID == nil || *viewer.BranchID != *branchID) {
		return nil, forbidden("You can only act for your assigned branch")
	}

	var branch models.Branch
	if err := tx.First(&branch, *branchID).Error; err != nil {
		return nil, lookup(err, "Branch")
	}
	if !branch.IsActive {
		return nil, invalid("Branch %s is not active", branch.Name)
	}
	id := branch.ID
	return &id, nil
}

// takesCounterOrders reports whether role may check out for walk-in customers.
func takesCounterOrders(role models.Role) bool {
	switch role {
	case models.RoleCashier, models.RoleBranchManager, models.RoleHeadquarterManager, models.RoleAdmin:
		return true
	}
	return false
}

func preloadOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("OrderItems.MenuItem").Preload("User").Preload("Branch")
}
