package models

// Viewer is the authenticated caller an operation runs on behalf of.
type Viewer struct {
	UserID   uint
	Role     Role
	BranchID *uint
}

// SeesAllBranches reports whether the viewer is unrestricted by branch.
func (v Viewer) SeesAllBranches() bool {
	return v.Role == RoleAdmin || v.Role == RoleHeadquarterManager
}

// CanSeeOrder applies the same rule as order listings: HQ and admins see
// everything, branch staff see their branch, customers see their own orders.
func (v Viewer) CanSeeOrder(userID, branchID *uint) bool {
	switch {
	case v.SeesAllBranches():
		return true
	case v.Role.IsBranchScoped():
		return v.BranchID != nil && branchID != nil && *v.BranchID == *branchID
	}
	return userID != nil && *userID == v.UserID
}

func (v Viewer) CanSeeEvent(ev *OrderEvent) bool {
	return v.CanSeeOrder(ev.UserID, ev.BranchID)
}
