package domain

import "time"

// Customer is the rental profile attached to an identity-provider user
type Customer struct {
	ID             int32     `json:"id"`
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Nationality    string    `json:"nationality"`
	Age            int       `json:"age"`
	PhoneNumber    string    `json:"phone_number"`
	LicenseNumber  string    `json:"license_number"`
	Address        string    `json:"address"`
	DateOfBirth    string    `json:"date_of_birth"`
	ExpirationDate string    `json:"expiration_date"`
	GoldenMember   bool      `json:"golden_member"`
	RewardPoints   int       `json:"reward_points"`
	Currency       string    `json:"currency,omitempty"` // Preferred display currency, empty for the default
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// CustomerUpdate carries the fields of an upsert; nil fields are left untouched
type CustomerUpdate struct {
	Email          *string `json:"email,omitempty"`
	Name           *string `json:"name,omitempty"`
	Nationality    *string `json:"nationality,omitempty"`
	Age            *int    `json:"age,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	LicenseNumber  *string `json:"license_number,omitempty"`
	Address        *string `json:"address,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
}

// MissingForCreate returns the first required field absent from a new profile
func (u CustomerUpdate) MissingForCreate() string {
	switch {
	case u.Nationality == nil:
		return "nationality"
	case u.Age == nil:
		return "age"
	case u.PhoneNumber == nil:
		return "phone_number"
	case u.LicenseNumber == nil:
		return "license_number"
	case u.Address == nil:
		return "address"
	case u.DateOfBirth == nil:
		return "date_of_birth"
	}
	return ""
}

// Apply copies the non-nil fields onto c
func (u CustomerUpdate) Apply(c *Customer) {
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Nationality != nil {
		c.Nationality = *u.Nationality
	}
	if u.Age != nil {
		c.Age = *u.Age
	}
	if u.PhoneNumber != nil {
		c.PhoneNumber = *u.PhoneNumber
	}
	if u.LicenseNumber != nil {
		c.LicenseNumber = *u.LicenseNumber
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
	if u.DateOfBirth != nil {
		c.DateOfBirth = *u.DateOfBirth
	}
	if u.ExpirationDate != nil {
		c.ExpirationDate = *u.ExpirationDate
	}
}
