package domain

// User is the generic account record behind GET /user/{id}.
type User struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName,omitempty"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         Role   `json:"role,omitempty"`
}

// ProfileUpdate holds the editable personal information. Nil fields are not sent.
type ProfileUpdate struct {
	FullName    *string `json:"fullName,omitempty" validate:"omitempty,min=2,max=200"`
	UserName    *string `json:"userName,omitempty" validate:"omitempty,min=3,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,phone,max=32"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address     *string `json:"address,omitempty" validate:"omitempty,min=5,max=500"`
}

// Avatar is an image supplied with a profile update.
type Avatar struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Fields flattens the update into backend field names for a multipart body.
func (p ProfileUpdate) Fields() [][2]string {
	var out [][2]string
	add := func(name string, v *string) {
		if v != nil {
			out = append(out, [2]string{name, *v})
		}
	}
	add("fullName", p.FullName)
	add("userName", p.UserName)
	add("phoneNumber", p.PhoneNumber)
	add("dateOfBirth", p.DateOfBirth)
	add("gender", p.Gender)
	add("address", p.Address)
	return out
}
