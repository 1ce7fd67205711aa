package domain

import (
	"time"
)

type RegistrationStep string

const (
	StepBasic        RegistrationStep = "basic"
	StepProfessional RegistrationStep = "professional"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Weekday string

var Weekdays = []Weekday{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) IsValid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// BasicIdentity is the output of the first registration step.
type BasicIdentity struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	PhoneNumber     string `json:"phoneNumber" validate:"required,phone,max=32"`
	Address         string `json:"address" validate:"required,max=500"`
	Password        string `json:"password" validate:"required,password_policy"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AgreeToTerms    bool   `json:"agreeToTerms" validate:"required"`
}

type ProfessionalProfile struct {
	Gender             Gender         `json:"gender" validate:"required,oneof=male female other"`
	DateOfBirth        string         `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Specialization     string         `json:"specialization" validate:"required,max=200"`
	Description        string         `json:"description" validate:"max=5000"`
	Qualification      string         `json:"qualification" validate:"max=5000"`
	FieldOfExperiences string         `json:"fieldOfExperiences" validate:"required,max=200"`
	YearsOfExperience  int            `json:"yearsOfExperience" validate:"required,min=1,max=50"`
	ServicesOffered    string         `json:"servicesOffered" validate:"required,max=64"`
	Skills             []Skill        `json:"skills" validate:"dive"`
	Availability       []Availability `json:"availability" validate:"dive"`
	CertificationsName string         `json:"certificationsName" validate:"max=1000"`
}

type Skill struct {
	SkillName   string `json:"skillName" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type Availability struct {
	Day   Weekday    `json:"day" validate:"required,weekday"`
	Slots []TimeSlot `json:"slots" validate:"min=1,dive"`
}

type TimeSlot struct {
	StartTime string `json:"startTime" validate:"required,timeslot"`
	EndTime   string `json:"endTime" validate:"required,timeslot"`
}

// Attachment describes a file staged for the draft. The bytes live in file storage under ObjectKey.
type Attachment struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	ObjectKey   string `json:"objectKey"`
}

type RegistrationDraft struct {
	ID                 string              `json:"id"`
	Step               RegistrationStep    `json:"step"`
	Basic              *BasicIdentity      `json:"basic,omitempty"`
	Professional       ProfessionalProfile `json:"professional"`
	ProfilePicture     *Attachment         `json:"profilePicture,omitempty"`
	CertificationFiles []Attachment        `json:"certificationFiles"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func NewRegistrationDraft(id string, now time.Time) *RegistrationDraft {
	return &RegistrationDraft{
		ID:   id,
		Step: StepBasic,
		Professional: ProfessionalProfile{
			Skills:       []Skill{},
			Availability: []Availability{},
		},
		CertificationFiles: []Attachment{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AttachmentView is an attachment as returned to the browser, without storage keys.
type AttachmentView struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type BasicIdentityView struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	AgreeToTerms bool   `json:"agreeToTerms"`
}

type RegistrationDraftView struct {
	ID                 string              `json:"id"`
	Step               RegistrationStep    `json:"step"`
	Basic              *BasicIdentityView  `json:"basic,omitempty"`
	Professional       ProfessionalProfile `json:"professional"`
	ProfilePicture     *AttachmentView     `json:"profilePicture,omitempty"`
	CertificationFiles []AttachmentView    `json:"certificationFiles"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func (a Attachment) View() AttachmentView {
	return AttachmentView{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
	}
}

// View strips passwords and storage keys.
func (d *RegistrationDraft) View() RegistrationDraftView {
	v := RegistrationDraftView{
		ID:                 d.ID,
		Step:               d.Step,
		Professional:       d.Professional,
		CertificationFiles: make([]AttachmentView, 0, len(d.CertificationFiles)),
		UpdatedAt:          d.UpdatedAt,
	}

	if d.Basic != nil {
		v.Basic = &BasicIdentityView{
			FirstName:    d.Basic.FirstName,
			LastName:     d.Basic.LastName,
			Email:        d.Basic.Email,
			PhoneNumber:  d.Basic.PhoneNumber,
			Address:      d.Basic.Address,
			AgreeToTerms: d.Basic.AgreeToTerms,
		}
	}

	if d.ProfilePicture != nil {
		pic := d.ProfilePicture.View()
		v.ProfilePicture = &pic
	}

	for _, a := range d.CertificationFiles {
		v.CertificationFiles = append(v.CertificationFiles, a.View())
	}

	return v
}

// AttachmentKeys lists every staged object key of the draft.
func (d *RegistrationDraft) AttachmentKeys() []string {
	var keys []string
	if d.ProfilePicture != nil {
		keys = append(keys, d.ProfilePicture.ObjectKey)
	}
	for _, a := range d.CertificationFiles {
		keys = append(keys, a.ObjectKey)
	}
	return keys
}

// UploadResult reports the outcome of one batch of file selections.
type UploadResult struct {
	Accepted []UploadedFile `json:"accepted"`
	Rejected []RejectedFile `json:"rejected"`
}

type UploadedFile struct {
	AttachmentView
	Preview string `json:"preview,omitempty"`
}

type RejectedFile struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

type SubmitResult struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

// FileInput is one file of an upload batch. Data is nil when the declared
// size already exceeds the limit and the body was not read.
type FileInput struct {
	FileName string
	Size     int64
	Data     []byte
}
