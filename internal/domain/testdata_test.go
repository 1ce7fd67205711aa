package domain

func validBasic() BasicIdentity {
	return BasicIdentity{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@x.com",
		PhoneNumber:     "+1 555 010 0000",
		Address:         "12 Main Street",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		AgreeToTerms:    true,
	}
}

func validProfessional() ProfessionalProfile {
	return ProfessionalProfile{
		Gender:             GenderFemale,
		DateOfBirth:        "1990-04-12",
		Specialization:     "Nutrition",
		FieldOfExperiences: "Wellness",
		YearsOfExperience:  7,
		ServicesOffered:    "svc-1",
		Skills:             []Skill{{SkillName: "Meal planning"}},
		Availability: []Availability{
			{Day: "Monday", Slots: []TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
		},
	}
}
