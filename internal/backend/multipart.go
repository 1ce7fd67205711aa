package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"coachdash/internal/domain"
)

// FilePart is a binary attachment of a multipart body.
type FilePart struct {
	FileName    string
	ContentType string
	Data        []byte
}

// RegistrationPayload is the exact body of POST /coach/register.
type RegistrationPayload struct {
	FirstName          string
	LastName           string
	Email              string
	Password           string
	PhoneNumber        string
	Address            string
	Gender             string
	DateOfBirth        string
	Specialization     string
	Description        string
	Qualification      string
	FieldOfExperiences string
	YearsOfExperience  int
	ServicesOffered    string
	Availability       []domain.Availability
	Skills             []domain.Skill
	Certifications     string
	ProfileImage       *FilePart
	CertificationFiles []FilePart
}

func NewRegistrationPayload(b domain.BasicIdentity, p domain.ProfessionalProfile) *RegistrationPayload {
	return &RegistrationPayload{
		FirstName:          b.FirstName,
		LastName:           b.LastName,
		Email:              b.Email,
		Password:           b.Password,
		PhoneNumber:        b.PhoneNumber,
		Address:            b.Address,
		Gender:             string(p.Gender),
		DateOfBirth:        p.DateOfBirth,
		Specialization:     p.Specialization,
		Description:        p.Description,
		Qualification:      p.Qualification,
		FieldOfExperiences: p.FieldOfExperiences,
		YearsOfExperience:  p.YearsOfExperience,
		ServicesOffered:    p.ServicesOffered,
		Availability:       p.Availability,
		Skills:             p.Skills,
		Certifications:     p.CertificationsName,
	}
}

type textField struct {
	name     string
	value    string
	required bool
}

func (p *RegistrationPayload) textFields() ([]textField, error) {
	availability, err := jsonList(p.Availability)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	skills, err := jsonList(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}

	years := ""
	if p.YearsOfExperience > 0 {
		years = strconv.Itoa(p.YearsOfExperience)
	}

	return []textField{
		{"firstName", p.FirstName, true},
		{"lastName", p.LastName, true},
		{"email", p.Email, true},
		{"password", p.Password, true},
		{"phoneNumber", p.PhoneNumber, true},
		{"address", p.Address, true},
		{"gender", p.Gender, true},
		{"dateOfBirth", p.DateOfBirth, true},
		{"specialization", p.Specialization, true},
		{"description", p.Description, false},
		{"qualification", p.Qualification, false},
		{"fieldOfExperiences", p.FieldOfExperiences, true},
		{"yearsOfExperience", years, true},
		{"servicesOffered", p.ServicesOffered, true},
		{"availability", availability, true},
		{"skills", skills, true},
		{"certifications", p.Certifications, false},
	}, nil
}

// jsonList encodes a slice, writing [] for nil.
func jsonList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Validate reports every required field left empty.
func (p *RegistrationPayload) Validate() error {
	fields, err := p.textFields()
	if err != nil {
		return err
	}
	var missing []string
	for _, f := range fields {
		if f.required && strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("registration payload missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Encode writes the multipart body and returns it with its content type.
func (p *RegistrationPayload) Encode() (string, []byte, error) {
	if err := p.Validate(); err != nil {
		return "", nil, err
	}
	fields, err := p.textFields()
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if p.ProfileImage != nil {
		if err := writeFile(w, "profileImage", *p.ProfileImage); err != nil {
			return "", nil, err
		}
	}
	for _, f := range p.CertificationFiles {
		if err := writeFile(w, "certificationFiles", f); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFile adds a file part keeping the sniffed content type instead of
// application/octet-stream.
func writeFile(w *multipart.Writer, field string, f FilePart) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.FileName)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("write part %s: %w", field, err)
	}
	return nil
}

func encodeProfileUpdate(u domain.ProfileUpdate, avatar *domain.Avatar) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range u.Fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if avatar != nil {
		if err := writeFile(w, "profileImage", FilePart{
			FileName:    avatar.FileName,
			ContentType: avatar.ContentType,
			Data:        avatar.Data,
		}); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
