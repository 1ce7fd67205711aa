package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"coachdash/internal/domain"
)

func janeBasic() domain.BasicIdentity {
	return domain.BasicIdentity{
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

func janeProfessional(availability []domain.Availability) domain.ProfessionalProfile {
	return domain.ProfessionalProfile{
		Gender:             domain.GenderFemale,
		DateOfBirth:        "1990-04-12",
		Specialization:     "Nutrition",
		FieldOfExperiences: "Wellness",
		YearsOfExperience:  7,
		ServicesOffered:    "svc-1",
		Skills:             []domain.Skill{{SkillName: "Meal planning", Description: "Weekly plans"}},
		Availability:       availability,
	}
}

// startProfessional creates a draft and advances it to the professional step.
func startProfessional(t *testing.T, f *registrationFixture, availability []domain.Availability) string {
	t.Helper()
	ctx := context.Background()

	draft, err := f.svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	draft, err = f.svc.Advance(ctx, draft.ID, janeBasic())
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if draft.Step != domain.StepProfessional {
		t.Fatalf("step = %s, want professional", draft.Step)
	}
	if _, err := f.svc.SaveProfessional(ctx, draft.ID, janeProfessional(availability)); err != nil {
		t.Fatalf("SaveProfessional: %v", err)
	}
	return draft.ID
}

func TestSubmitSendsExactlyOneRegistration(t *testing.T) {
	f := newRegistrationFixture()
	availability := []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	}
	id := startProfessional(t, f, availability)

	res, err := f.svc.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Next != "/login" || res.Message != "Coach registered successfully" {
		t.Errorf("result = %+v", res)
	}
	if f.backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", f.backend.calls)
	}

	p := f.backend.payloads[0]
	if p.FirstName != "Jane" || p.Email != "jane@x.com" || p.Password != "Secret123" {
		t.Errorf("payload identity = %+v", p)
	}
	encoded, err := json.Marshal(p.Availability)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := json.Marshal(availability)
	if string(encoded) != string(want) {
		t.Errorf("availability = %s, want %s", encoded, want)
	}

	if _, err := f.svc.Get(context.Background(), id); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("draft should be cleared after success, got %v", err)
	}
	if n, ok := f.notifier.last(); !ok || n.Level != domain.NotificationSuccess || n.Channel != id {
		t.Errorf("notification = %+v", n)
	}
}

func TestSubmitBlockedByInvalidSlot(t *testing.T) {
	f := newRegistrationFixture()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "25:00 AM", EndTime: "01:00 PM"}}},
	})

	_, err := f.svc.Submit(context.Background(), id)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["availability[0].slots[0].startTime"]; !ok {
		t.Errorf("fields = %v", verr.Fields)
	}
	if f.backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0", f.backend.calls)
	}
	if _, err := f.svc.Get(context.Background(), id); err != nil {
		t.Errorf("draft should be kept: %v", err)
	}
}

func TestSubmitFlagsAllInvalidSlots(t *testing.T) {
	f := newRegistrationFixture()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{
			{StartTime: "23:00", EndTime: "01:00 PM"},
			{StartTime: "02:00 PM", EndTime: "11:00"},
		}},
		{Day: "Tuesday", Slots: []domain.TimeSlot{{StartTime: "9:00 am", EndTime: "13:00 PM"}}},
	})

	_, err := f.svc.Submit(context.Background(), id)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"availability[0].slots[0].startTime",
		"availability[0].slots[1].endTime",
		"availability[1].slots[0].endTime",
	}
	for _, key := range want {
		if _, ok := verr.Fields[key]; !ok {
			t.Errorf("missing error for %s in %v", key, verr.Fields)
		}
	}
	if len(verr.Fields) != len(want) {
		t.Errorf("fields = %v", verr.Fields)
	}
	if f.backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0", f.backend.calls)
	}
}

func TestAdvanceWithPasswordMismatch(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	draft, err := f.svc.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	basic := janeBasic()
	basic.ConfirmPassword = "Secret321"
	d, err := f.svc.Advance(ctx, draft.ID, basic)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["confirmPassword"] != "Passwords do not match" {
		t.Fatalf("Advance error = %v", err)
	}
	if d == nil || d.Step != domain.StepBasic || d.Basic == nil || d.Basic.FirstName != "Jane" {
		t.Errorf("draft after failed advance = %+v", d)
	}

	if _, err := f.svc.Submit(ctx, draft.ID); !errors.Is(err, domain.ErrWrongStep) {
		t.Errorf("Submit on basic step = %v", err)
	}
	if f.backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0", f.backend.calls)
	}
}

func TestRetreatKeepsProfessionalValues(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	})

	d, err := f.svc.Retreat(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if d.Step != domain.StepBasic || d.Professional.Specialization != "Nutrition" || len(d.Professional.Availability) != 1 {
		t.Errorf("draft after retreat = %+v", d)
	}

	if _, err := f.svc.AddSkill(ctx, id); !errors.Is(err, domain.ErrWrongStep) {
		t.Errorf("AddSkill on basic step = %v", err)
	}

	d, err = f.svc.Advance(ctx, id, janeBasic())
	if err != nil {
		t.Fatal(err)
	}
	if d.Professional.Skills[0].SkillName != "Meal planning" {
		t.Errorf("skills lost across retreat: %+v", d.Professional.Skills)
	}
}

func TestEditorsThroughService(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, []domain.Availability{})

	d, err := f.svc.AddAvailability(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Professional.Availability) != 1 || len(d.Professional.Availability[0].Slots) != 1 {
		t.Fatalf("availability = %+v", d.Professional.Availability)
	}

	if _, err := f.svc.UpdateDay(ctx, id, 0, "Wednesday"); err != nil {
		t.Fatal(err)
	}
	d, added, err := f.svc.AddSlot(ctx, id, 0)
	if err != nil || !added || len(d.Professional.Availability[0].Slots) != 2 {
		t.Fatalf("AddSlot = %v, %v, %+v", added, err, d.Professional.Availability)
	}

	_, added, err = f.svc.AddSlot(ctx, id, 7)
	if err != nil || added {
		t.Errorf("AddSlot on missing day = %v, %v", added, err)
	}

	if _, err := f.svc.UpdateSlot(ctx, id, 0, 1, domain.TimeSlot{StartTime: "03:00 PM", EndTime: "04:00 PM"}); err != nil {
		t.Fatal(err)
	}
	d, err = f.svc.RemoveSlot(ctx, id, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.TimeSlot{{StartTime: "03:00 PM", EndTime: "04:00 PM"}}
	if !reflect.DeepEqual(d.Professional.Availability[0].Slots, want) {
		t.Errorf("slots = %+v", d.Professional.Availability[0].Slots)
	}

	if _, err := f.svc.UpdateSkill(ctx, id, 0, domain.Skill{SkillName: "Coaching"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RemoveSkill(ctx, id, 3); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("RemoveSkill out of range = %v", err)
	}
}

func TestSaveProfessionalRejectsOversizedCollections(t *testing.T) {
	f := newRegistrationFixture()
	id := startProfessional(t, f, nil)

	p := janeProfessional(nil)
	p.Skills = make([]domain.Skill, 21)
	if _, err := f.svc.SaveProfessional(context.Background(), id, p); !errors.Is(err, domain.ErrCollectionFull) {
		t.Errorf("SaveProfessional = %v, want ErrCollectionFull", err)
	}
}

func TestUploadCertificationsExcludesRejectedFiles(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	})

	big := make([]byte, 0)
	files := []domain.FileInput{
		{FileName: "diploma.pdf", Size: int64(len(pdfData)), Data: pdfData},
		{FileName: "notes.txt", Size: int64(len(txtData)), Data: txtData},
		{FileName: "huge.pdf", Size: 6 << 20, Data: big},
		{FileName: "badge.png", Size: int64(len(pngData)), Data: pngData},
	}

	d, res, err := f.svc.UploadCertifications(ctx, id, files)
	if err != nil {
		t.Fatalf("UploadCertifications: %v", err)
	}

	if len(res.Accepted) != 2 || res.Accepted[0].FileName != "diploma.pdf" || res.Accepted[1].FileName != "badge.png" {
		t.Fatalf("accepted = %+v", res.Accepted)
	}
	if res.Accepted[0].Preview != "diploma.pdf" {
		t.Errorf("pdf preview = %q, want file name", res.Accepted[0].Preview)
	}
	if !strings.HasPrefix(res.Accepted[1].Preview, "data:image/png;base64,") {
		t.Errorf("png preview = %q", res.Accepted[1].Preview)
	}
	if len(res.Rejected) != 2 || res.Rejected[0].FileName != "notes.txt" || res.Rejected[1].FileName != "huge.pdf" {
		t.Errorf("rejected = %+v", res.Rejected)
	}
	if len(d.CertificationFiles) != 2 || f.files.Len() != 2 {
		t.Errorf("staged = %d attachments, %d objects", len(d.CertificationFiles), f.files.Len())
	}

	if _, err := f.svc.Submit(ctx, id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p := f.backend.payloads[0]
	if len(p.CertificationFiles) != 2 {
		t.Fatalf("payload files = %d, want 2", len(p.CertificationFiles))
	}
	for _, part := range p.CertificationFiles {
		if part.FileName == "notes.txt" || part.FileName == "huge.pdf" {
			t.Errorf("rejected file %s reached the payload", part.FileName)
		}
	}
	if f.files.Len() != 0 {
		t.Errorf("staged objects left after submit: %d", f.files.Len())
	}
}

func TestCertificationBound(t *testing.T) {
	f := newRegistrationFixture()
	f.svc.limits.MaxCertifications = 2
	id := startProfessional(t, f, nil)

	files := make([]domain.FileInput, 3)
	for i := range files {
		files[i] = domain.FileInput{FileName: "c.pdf", Size: int64(len(pdfData)), Data: pdfData}
	}

	d, res, err := f.svc.UploadCertifications(context.Background(), id, files)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Accepted) != 2 || len(res.Rejected) != 1 || len(d.CertificationFiles) != 2 {
		t.Errorf("accepted %d, rejected %d, on draft %d", len(res.Accepted), len(res.Rejected), len(d.CertificationFiles))
	}
}

func TestProfilePictureMustBeImage(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, nil)

	d, res, err := f.svc.UploadProfilePicture(ctx, id, domain.FileInput{FileName: "cv.pdf", Size: int64(len(pdfData)), Data: pdfData})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rejected) != 1 || d.ProfilePicture != nil {
		t.Errorf("pdf accepted as profile picture: %+v", res)
	}

	_, _, err = f.svc.UploadProfilePicture(ctx, id, domain.FileInput{FileName: "me.png", Size: int64(len(pngData)), Data: pngData})
	if err != nil {
		t.Fatal(err)
	}
	d, _, err = f.svc.UploadProfilePicture(ctx, id, domain.FileInput{FileName: "me2.png", Size: int64(len(pngData)), Data: pngData})
	if err != nil {
		t.Fatal(err)
	}
	if d.ProfilePicture == nil || d.ProfilePicture.FileName != "me2.png" {
		t.Errorf("profile picture = %+v", d.ProfilePicture)
	}
	if f.files.Len() != 1 {
		t.Errorf("replaced picture not removed, %d objects", f.files.Len())
	}
}

func TestRemoveCertificationDeletesObject(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, nil)

	d, _, err := f.svc.UploadCertifications(ctx, id, []domain.FileInput{{FileName: "a.pdf", Size: int64(len(pdfData)), Data: pdfData}})
	if err != nil {
		t.Fatal(err)
	}
	d, err = f.svc.RemoveCertification(ctx, id, d.CertificationFiles[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.CertificationFiles) != 0 || f.files.Len() != 0 {
		t.Errorf("certification not removed: %d on draft, %d objects", len(d.CertificationFiles), f.files.Len())
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	f := newRegistrationFixture()
	f.backend.err = &domain.BackendError{StatusCode: 400, Message: "Email already exists"}
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	})

	_, err := f.svc.Submit(context.Background(), id)
	if got := domain.UserMessage(err, domain.MsgRegistrationFailed); got != "Email already exists" {
		t.Errorf("message = %q", got)
	}
	if _, err := f.svc.Get(context.Background(), id); err != nil {
		t.Errorf("draft must be retained: %v", err)
	}
	if f.backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (no retry)", f.backend.calls)
	}
	if n, _ := f.notifier.last(); n.Level != domain.NotificationError || n.Message != "Email already exists" {
		t.Errorf("notification = %+v", n)
	}

	if locked, _ := f.drafts.AcquireSubmitLock(context.Background(), id, 0); !locked {
		t.Error("submit lock was not released")
	}
}

func TestConcurrentSubmitIsGuarded(t *testing.T) {
	f := newRegistrationFixture()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	})

	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	f.backend.hook = func() {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background(), id)
		done <- err
	}()

	<-entered
	if _, err := f.svc.Submit(context.Background(), id); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Errorf("second submit = %v, want ErrSubmissionInFlight", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if f.backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", f.backend.calls)
	}
}

// lockGatedDrafts holds AcquireSubmitLock until gate closes.
type lockGatedDrafts struct {
	*fakeDrafts
	waiting chan struct{}
	gate    chan struct{}
}

func (d *lockGatedDrafts) AcquireSubmitLock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	close(d.waiting)
	<-d.gate
	return d.fakeDrafts.AcquireSubmitLock(ctx, id, ttl)
}

func TestSubmitAfterCompletedSubmitDoesNotRepost(t *testing.T) {
	f := newRegistrationFixture()
	id := startProfessional(t, f, []domain.Availability{
		{Day: "Monday", Slots: []domain.TimeSlot{{StartTime: "11:00 AM", EndTime: "01:00 PM"}}},
	})

	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	f.backend.hook = func() {
		once.Do(func() { close(entered) })
		<-release
	}

	gated := &lockGatedDrafts{fakeDrafts: f.drafts, waiting: make(chan struct{}), gate: make(chan struct{})}
	second := *f.svc
	second.drafts = gated

	first := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background(), id)
		first <- err
	}()
	<-entered

	// The second submit reads the draft while the first is still registering.
	result := make(chan error, 1)
	go func() {
		_, err := second.Submit(context.Background(), id)
		result <- err
	}()
	<-gated.waiting

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	close(gated.gate)

	if err := <-result; !errors.Is(err, domain.ErrDraftNotFound) {
		t.Errorf("second submit = %v, want ErrDraftNotFound", err)
	}
	if f.backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", f.backend.calls)
	}
}

func TestStartSchedulesPurge(t *testing.T) {
	f := newRegistrationFixture()
	d, err := f.svc.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	at, ok := f.purger.scheduled[d.ID]
	if !ok {
		t.Fatal("purge not scheduled")
	}
	cfg := testConfig().Registration
	if want := d.CreatedAt.Add(cfg.DraftTTL + cfg.PurgeGracePeriod); !at.Equal(want) {
		t.Errorf("purge at %v, want %v", at, want)
	}
}

func TestPurgeAbandoned(t *testing.T) {
	f := newRegistrationFixture()
	ctx := context.Background()
	id := startProfessional(t, f, nil)
	if _, _, err := f.svc.UploadCertifications(ctx, id, []domain.FileInput{{FileName: "a.pdf", Size: int64(len(pdfData)), Data: pdfData}}); err != nil {
		t.Fatal(err)
	}

	purged, err := f.svc.PurgeAbandoned(ctx, id)
	if err != nil || purged {
		t.Fatalf("live draft purged: %v, %v", purged, err)
	}

	if err := f.drafts.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	purged, err = f.svc.PurgeAbandoned(ctx, id)
	if err != nil || !purged || f.files.Len() != 0 {
		t.Errorf("PurgeAbandoned = %v, %v; %d objects left", purged, err, f.files.Len())
	}
}
