package enums

import "fmt"

// UserType distinguishes the two marketplace roles plus back-office admins.
type UserType string

const (
	UserTypePreserver UserType = "preserver"
	UserTypeClient    UserType = "client"
	UserTypeAdmin     UserType = "admin"
)

var validUserTypes = []UserType{
	UserTypePreserver,
	UserTypeClient,
	UserTypeAdmin,
}

func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts raw input into a UserType.
func ParseUserType(value string) (UserType, error) {
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
