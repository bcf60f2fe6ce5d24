package models

import "time"

type Role string

const (
	RoleAdmin              Role = "ADMIN"
	RoleHeadquarterManager Role = "HEADQUARTER_MANAGER"
	RoleBranchManager      Role = "BRANCH_MANAGER"
	RoleCashier            Role = "CASHIER"
	RoleChef               Role = "CHEF"
	RoleCustomer           Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHeadquarterManager, RoleBranchManager, RoleCashier, RoleChef, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether the role operates the restaurant rather than ordering from it.
func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleCustomer
}

// IsBranchScoped reports whether the role only sees data of its assigned branch.
func (r Role) IsBranchScoped() bool {
	return r == RoleBranchManager || r == RoleCashier || r == RoleChef
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      Role      `gorm:"type:varchar(32);not null;default:'CUSTOMER'" json:"role"`
	BranchID  *uint     `gorm:"index" json:"branchId,omitempty"`
	Branch    *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
