package applications

import (
	"errors"
	"testing"
)

func TestApplyChangesOnlyTargetLeaf(t *testing.T) {
	rec := NewRecord("job-1", "Nurse", "user-1")
	rec.Personal.FirstName = "Ann"
	rec.Personal.Address.City = "Boise"
	rec.Emergency.Primary.Name = "Bob"

	out, err := Apply(rec, "personal.address.city", "Reno")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Personal.Address.City != "Reno" {
		t.Fatalf("expected city Reno, got %q", out.Personal.Address.City)
	}
	if out.Personal.FirstName != "Ann" || out.Emergency.Primary.Name != "Bob" {
		t.Fatal("sibling fields changed")
	}
	if rec.Personal.Address.City != "Boise" {
		t.Fatalf("input record mutated: %q", rec.Personal.Address.City)
	}
}

func TestApplyEmergencyPaths(t *testing.T) {
	rec := NewRecord("job-1", "", "user-1")

	out, err := Apply(rec, "emergency.secondary.address.zipCode", "83702")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Emergency.Secondary.Address.ZipCode != "83702" {
		t.Fatalf("got %q", out.Emergency.Secondary.Address.ZipCode)
	}

	if _, err := Apply(rec, "emergency.primary", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for non-leaf path, got %v", err)
	}
}

func TestApplyUnknownPath(t *testing.T) {
	rec := NewRecord("job-1", "", "user-1")
	for _, path := range []string{"", "documents.0.displayName", "personal.nope", "personal.driversLicense.color"} {
		if _, err := Apply(rec, path, "v"); !errors.Is(err, ErrUnknownField) {
			t.Fatalf("path %q: expected ErrUnknownField, got %v", path, err)
		}
	}
}

func TestEducationListOps(t *testing.T) {
	rec := NewRecord("job-1", "", "user-1")

	rec2 := AddEducation(rec)
	if len(rec.Education) != 0 || len(rec2.Education) != 1 {
		t.Fatalf("add: got %d/%d entries", len(rec.Education), len(rec2.Education))
	}

	rec3, err := UpdateEducation(rec2, 0, "schoolName", "Boise State")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec3.Education[0].SchoolName != "Boise State" {
		t.Fatalf("got %q", rec3.Education[0].SchoolName)
	}
	if rec2.Education[0].SchoolName != "" {
		t.Fatal("update mutated input slice")
	}

	if _, err := UpdateEducation(rec3, 1, "degree", "BSN"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	rec4, err := RemoveEducation(rec3, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(rec4.Education) != 0 || len(rec3.Education) != 1 {
		t.Fatal("remove did not copy-on-write")
	}
}

func TestRemoveKeepsRelativeOrder(t *testing.T) {
	rec := NewRecord("job-1", "", "user-1")
	rec.Licenses = []License{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	out, err := RemoveLicense(rec, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(out.Licenses) != 2 || out.Licenses[0].Name != "a" || out.Licenses[1].Name != "c" {
		t.Fatalf("unexpected survivors: %+v", out.Licenses)
	}
}

func TestUpdateEmployment(t *testing.T) {
	rec := AddEmployment(NewRecord("job-1", "", "user-1"))

	out, err := UpdateEmployment(rec, 0, "address.city", "Nampa")
	if err != nil {
		t.Fatalf("update address: %v", err)
	}
	if out.Employment[0].Address.City != "Nampa" {
		t.Fatalf("got %q", out.Employment[0].Address.City)
	}

	out, err = UpdateEmployment(out, 0, "endDate", "2024-01-01")
	if err != nil {
		t.Fatalf("update endDate: %v", err)
	}
	out, err = UpdateEmployment(out, 0, "currentEmployment", "true")
	if err != nil {
		t.Fatalf("update currentEmployment: %v", err)
	}
	if !out.Employment[0].CurrentEmployment {
		t.Fatal("currentEmployment not set")
	}
	if out.Employment[0].EndDate != "" {
		t.Fatalf("endDate should clear for current job, got %q", out.Employment[0].EndDate)
	}

	if _, err := UpdateEmployment(out, 0, "currentEmployment", "maybe"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}
