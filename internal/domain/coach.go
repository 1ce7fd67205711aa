package domain

import "time"

type Role string

const RoleCoach Role = "COACH"

// Service is an entry of the remote service catalog.
type Service struct {
	ID          string  `json:"_id"`
	Icon        string  `json:"icon,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Overview    string  `json:"overview,omitempty"`
}

type Certification struct {
	Name string `json:"name"`
}

// Coach is the coach record as returned by the backend.
type Coach struct {
	ID                 string          `json:"_id"`
	FirstName          string          `json:"firstName"`
	LastName           string          `json:"lastName"`
	Role               Role            `json:"role"`
	Email              string          `json:"email"`
	PhoneNumber        string          `json:"phoneNumber"`
	ProfileImage       string          `json:"profileImage"`
	Gender             Gender          `json:"gender"`
	DateOfBirth        string          `json:"dateOfBirth"`
	Address            string          `json:"address"`
	Specialization     string          `json:"specialization"`
	Description        string          `json:"description"`
	Qualification      string          `json:"qualification"`
	FieldOfExperiences string          `json:"fieldOfExperiences"`
	YearsOfExperience  int             `json:"yearsOfExperience"`
	Accepted           bool            `json:"accepted"`
	StripeOnboarded    bool            `json:"stripeOnboarded"`
	ServicesOffered    *Service        `json:"servicesOffered,omitempty"`
	Certifications     []Certification `json:"certifications"`
	Skills             []Skill         `json:"skills"`
	Availability       []Availability  `json:"availability"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (c Coach) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ServiceByID finds a catalog entry.
func ServiceByID(services []Service, id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}
