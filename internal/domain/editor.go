package domain

// CollectionLimits bounds the nested collections of a draft. Zero disables a bound.
type CollectionLimits struct {
	MaxSkills         int
	MaxAvailability   int
	MaxSlotsPerDay    int
	MaxCertifications int
}

var DefaultCollectionLimits = CollectionLimits{
	MaxSkills:         20,
	MaxAvailability:   14,
	MaxSlotsPerDay:    12,
	MaxCertifications: 10,
}

func full(n, limit int) bool {
	return limit > 0 && n >= limit
}

func (d *RegistrationDraft) AddSkill(limits CollectionLimits) error {
	if full(len(d.Professional.Skills), limits.MaxSkills) {
		return ErrCollectionFull
	}
	d.Professional.Skills = append(d.Professional.Skills, Skill{})
	return nil
}

func (d *RegistrationDraft) UpdateSkill(index int, skill Skill) error {
	if index < 0 || index >= len(d.Professional.Skills) {
		return ErrEntryNotFound
	}
	d.Professional.Skills[index] = skill
	return nil
}

func (d *RegistrationDraft) RemoveSkill(index int) error {
	skills := d.Professional.Skills
	if index < 0 || index >= len(skills) {
		return ErrEntryNotFound
	}
	d.Professional.Skills = append(skills[:index:index], skills[index+1:]...)
	return nil
}

// AddAvailability appends a day entry with one empty slot.
func (d *RegistrationDraft) AddAvailability(limits CollectionLimits) error {
	if full(len(d.Professional.Availability), limits.MaxAvailability) {
		return ErrCollectionFull
	}
	d.Professional.Availability = append(d.Professional.Availability, Availability{
		Day:   "",
		Slots: []TimeSlot{{}},
	})
	return nil
}

func (d *RegistrationDraft) UpdateDay(dayIndex int, day Weekday) error {
	if dayIndex < 0 || dayIndex >= len(d.Professional.Availability) {
		return ErrEntryNotFound
	}
	d.Professional.Availability[dayIndex].Day = day
	return nil
}

func (d *RegistrationDraft) RemoveAvailability(dayIndex int) error {
	days := d.Professional.Availability
	if dayIndex < 0 || dayIndex >= len(days) {
		return ErrEntryNotFound
	}
	d.Professional.Availability = append(days[:dayIndex:dayIndex], days[dayIndex+1:]...)
	return nil
}

// AddSlot appends an empty slot to the given day. It reports false and
// changes nothing when dayIndex does not name an existing entry.
func (d *RegistrationDraft) AddSlot(dayIndex int, limits CollectionLimits) (bool, error) {
	if dayIndex < 0 || dayIndex >= len(d.Professional.Availability) {
		return false, nil
	}
	day := &d.Professional.Availability[dayIndex]
	if full(len(day.Slots), limits.MaxSlotsPerDay) {
		return false, ErrCollectionFull
	}
	day.Slots = append(day.Slots, TimeSlot{})
	return true, nil
}

func (d *RegistrationDraft) UpdateSlot(dayIndex, slotIndex int, slot TimeSlot) error {
	if dayIndex < 0 || dayIndex >= len(d.Professional.Availability) {
		return ErrEntryNotFound
	}
	slots := d.Professional.Availability[dayIndex].Slots
	if slotIndex < 0 || slotIndex >= len(slots) {
		return ErrEntryNotFound
	}
	slots[slotIndex] = slot
	return nil
}

func (d *RegistrationDraft) RemoveSlot(dayIndex, slotIndex int) error {
	if dayIndex < 0 || dayIndex >= len(d.Professional.Availability) {
		return ErrEntryNotFound
	}
	day := &d.Professional.Availability[dayIndex]
	if slotIndex < 0 || slotIndex >= len(day.Slots) {
		return ErrEntryNotFound
	}
	day.Slots = append(day.Slots[:slotIndex:slotIndex], day.Slots[slotIndex+1:]...)
	return nil
}

func (d *RegistrationDraft) CanAddCertification(limits CollectionLimits) bool {
	return !full(len(d.CertificationFiles), limits.MaxCertifications)
}

func (d *RegistrationDraft) AddCertification(a Attachment, limits CollectionLimits) error {
	if !d.CanAddCertification(limits) {
		return ErrCollectionFull
	}
	d.CertificationFiles = append(d.CertificationFiles, a)
	return nil
}

// RemoveCertification drops the attachment with the given id and returns it.
func (d *RegistrationDraft) RemoveCertification(id string) (Attachment, error) {
	for i, a := range d.CertificationFiles {
		if a.ID == id {
			d.CertificationFiles = append(d.CertificationFiles[:i:i], d.CertificationFiles[i+1:]...)
			return a, nil
		}
	}
	return Attachment{}, ErrAttachmentNotFound
}

// SetProfessional replaces the scalar professional fields. Collections are
// edited through the dedicated methods and are left untouched unless the
// caller provides them.
func (d *RegistrationDraft) SetProfessional(p ProfessionalProfile) {
	skills, availability := d.Professional.Skills, d.Professional.Availability
	if p.Skills != nil {
		skills = p.Skills
	}
	if p.Availability != nil {
		availability = p.Availability
	}
	d.Professional = p
	d.Professional.Skills = skills
	d.Professional.Availability = availability
}
