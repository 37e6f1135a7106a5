package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the user collection in mongo. Accounts are
// provisioned by the identity provider; this service only reads them.
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
	Version int32              `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in the user collection in mongo
type UserDetails struct {
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Role     Role   `json:"role" bson:"role"`
	IsActive bool   `json:"isActive" bson:"isActive"`

	// police only
	PoliceStation string `json:"policeStation,omitempty" bson:"policeStation,omitempty"`
	BadgeNumber   string `json:"badgeNumber,omitempty" bson:"badgeNumber,omitempty"`

	// court only
	CourtName   string `json:"courtName,omitempty" bson:"courtName,omitempty"`
	Designation string `json:"designation,omitempty" bson:"designation,omitempty"`

	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// Profile is the role-specific part of an Actor. Exactly one of
// CitizenProfile, PoliceProfile or CourtProfile backs every Actor.
type Profile interface {
	Role() Role
}

// CitizenProfile carries the contact details stamped onto complaints
type CitizenProfile struct {
	Email string
	Phone string
}

// Role implements Profile
func (CitizenProfile) Role() Role { return RoleCitizen }

// PoliceProfile carries the officer's station and badge
type PoliceProfile struct {
	Station string
	Badge   string
}

// Role implements Profile
func (PoliceProfile) Role() Role { return RolePolice }

// CourtProfile carries the court the actor sits in
type CourtProfile struct {
	CourtName   string
	Designation string
}

// Role implements Profile
func (CourtProfile) Role() Role { return RoleCourt }

// Actor is the authenticated caller of a workflow operation
type Actor struct {
	ID      primitive.ObjectID
	Name    string
	Profile Profile
}

// Role returns the actor's role, derived from its profile
func (a Actor) Role() Role {
	if a.Profile == nil {
		return ""
	}
	return a.Profile.Role()
}

// NewActor builds an Actor from a stored user, enforcing the fields each
// role must carry.
func NewActor(u User) (Actor, error) {
	a := Actor{ID: u.ID, Name: u.Details.Name}
	switch u.Details.Role {
	case RoleCitizen:
		a.Profile = CitizenProfile{Email: u.Details.Email, Phone: u.Details.Phone}
	case RolePolice:
		if u.Details.PoliceStation == "" || u.Details.BadgeNumber == "" {
			return Actor{}, fmt.Errorf("police user %s is missing station or badge number", u.ID.Hex())
		}
		a.Profile = PoliceProfile{Station: u.Details.PoliceStation, Badge: u.Details.BadgeNumber}
	case RoleCourt:
		if u.Details.CourtName == "" || u.Details.Designation == "" {
			return Actor{}, fmt.Errorf("court user %s is missing court name or designation", u.ID.Hex())
		}
		a.Profile = CourtProfile{CourtName: u.Details.CourtName, Designation: u.Details.Designation}
	default:
		return Actor{}, fmt.Errorf("user %s has unknown role %q", u.ID.Hex(), u.Details.Role)
	}
	return a, nil
}
