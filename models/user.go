package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role decides which dashboard a user sees and which queries they may run.
// Fixed at account creation, no role-change flow.
type Role string

const (
	Citizen Role = "Citizen"
	Staff   Role = "Worker"
	Admin   Role = "Admin"
	Head    Role = "Head"
)

// DashboardForRole maps every role to its landing dashboard. A mapping table
// instead of scattered conditionals keeps the role set checked in one place.
var DashboardForRole = map[Role]string{
	Citizen: "/dashboard/citizen",
	Staff:   "/dashboard/worker",
	Admin:   "/dashboard/admin",
	Head:    "/dashboard/head",
}

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case Citizen, Staff, Admin, Head:
		return true
	}
	return false
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Snapshot freezes the identity fields embedded into issues at submission time.
func (u *User) Snapshot() Submitter {
	return Submitter{
		UID:   u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
}
