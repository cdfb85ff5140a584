package applications

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownField    = errors.New("unknown field path")
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// Apply sets one scalar leaf addressed by a dotted path (for example
// "personal.address.city") and returns the updated record. The input record
// is never mutated: the top-level struct copies by value, the touched leaf is
// rewritten in the copy, and untouched slices stay shared with the input.
func Apply(rec Record, path, value string) (Record, error) {
	out := rec
	target, err := fieldPtr(&out, path)
	if err != nil {
		return Record{}, err
	}
	*target = value
	return out, nil
}

func fieldPtr(rec *Record, path string) (*string, error) {
	section, rest, _ := strings.Cut(path, ".")
	switch section {
	case "personal":
		return personalField(&rec.Personal, rest)
	case "emergency":
		return emergencyField(&rec.Emergency, rest)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
}

func personalField(p *Personal, path string) (*string, error) {
	field, rest, nested := strings.Cut(path, ".")
	if nested {
		switch field {
		case "address":
			return addressField(&p.Address, rest)
		case "driversLicense":
			switch rest {
			case "number":
				return &p.DriversLicense.Number, nil
			case "state":
				return &p.DriversLicense.State, nil
			case "expirationDate":
				return &p.DriversLicense.ExpirationDate, nil
			}
		}
		return nil, fmt.Errorf("%w: personal.%s", ErrUnknownField, path)
	}
	switch field {
	case "firstName":
		return &p.FirstName, nil
	case "middleName":
		return &p.MiddleName, nil
	case "lastName":
		return &p.LastName, nil
	case "email":
		return &p.Email, nil
	case "phone":
		return &p.Phone, nil
	case "ssn":
		return &p.SSN, nil
	case "dateOfBirth":
		return &p.DateOfBirth, nil
	case "dateAvailable":
		return &p.DateAvailable, nil
	}
	return nil, fmt.Errorf("%w: personal.%s", ErrUnknownField, path)
}

func emergencyField(e *Emergency, path string) (*string, error) {
	which, rest, ok := strings.Cut(path, ".")
	if !ok {
		return nil, fmt.Errorf("%w: emergency.%s", ErrUnknownField, path)
	}
	var contact *EmergencyContact
	switch which {
	case "primary":
		contact = &e.Primary
	case "secondary":
		contact = &e.Secondary
	default:
		return nil, fmt.Errorf("%w: emergency.%s", ErrUnknownField, path)
	}
	field, addrRest, nested := strings.Cut(rest, ".")
	if nested {
		if field == "address" {
			return addressField(&contact.Address, addrRest)
		}
		return nil, fmt.Errorf("%w: emergency.%s", ErrUnknownField, path)
	}
	switch field {
	case "name":
		return &contact.Name, nil
	case "relationship":
		return &contact.Relationship, nil
	case "phone":
		return &contact.Phone, nil
	}
	return nil, fmt.Errorf("%w: emergency.%s", ErrUnknownField, path)
}

func addressField(a *Address, field string) (*string, error) {
	switch field {
	case "street":
		return &a.Street, nil
	case "city":
		return &a.City, nil
	case "state":
		return &a.State, nil
	case "zipCode":
		return &a.ZipCode, nil
	}
	return nil, fmt.Errorf("%w: address.%s", ErrUnknownField, field)
}

// AddEducation appends an empty school entry.
func AddEducation(rec Record) Record {
	out := rec
	out.Education = append(append([]Education(nil), rec.Education...), Education{})
	return out
}

// UpdateEducation sets one field of the entry at index i.
func UpdateEducation(rec Record, i int, field, value string) (Record, error) {
	if i < 0 || i >= len(rec.Education) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Education = append([]Education(nil), rec.Education...)
	entry := &out.Education[i]
	switch field {
	case "degree":
		entry.Degree = value
	case "fieldOfStudy":
		entry.FieldOfStudy = value
	case "schoolName":
		entry.SchoolName = value
	case "graduationDate":
		entry.GraduationDate = value
	default:
		return Record{}, fmt.Errorf("%w: education.%s", ErrUnknownField, field)
	}
	return out, nil
}

// RemoveEducation drops the entry at index i. Surviving entries keep their
// relative order; entries before i are untouched.
func RemoveEducation(rec Record, i int) (Record, error) {
	if i < 0 || i >= len(rec.Education) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Education = append(append([]Education(nil), rec.Education[:i]...), rec.Education[i+1:]...)
	return out, nil
}

// AddLicense appends an empty license entry.
func AddLicense(rec Record) Record {
	out := rec
	out.Licenses = append(append([]License(nil), rec.Licenses...), License{})
	return out
}

// UpdateLicense sets one field of the entry at index i.
func UpdateLicense(rec Record, i int, field, value string) (Record, error) {
	if i < 0 || i >= len(rec.Licenses) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Licenses = append([]License(nil), rec.Licenses...)
	entry := &out.Licenses[i]
	switch field {
	case "name":
		entry.Name = value
	case "issuingAuthority":
		entry.IssuingAuthority = value
	case "number":
		entry.Number = value
	case "expirationDate":
		entry.ExpirationDate = value
	case "category":
		entry.Category = value
	default:
		return Record{}, fmt.Errorf("%w: licenses.%s", ErrUnknownField, field)
	}
	return out, nil
}

// RemoveLicense drops the entry at index i.
func RemoveLicense(rec Record, i int) (Record, error) {
	if i < 0 || i >= len(rec.Licenses) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Licenses = append(append([]License(nil), rec.Licenses[:i]...), rec.Licenses[i+1:]...)
	return out, nil
}

// AddEmployment appends an empty employment entry.
func AddEmployment(rec Record) Record {
	out := rec
	out.Employment = append(append([]Employment(nil), rec.Employment...), Employment{})
	return out
}

// UpdateEmployment sets one field of the entry at index i. Address fields
// nest as "address.city" etc.; "currentEmployment" parses as a boolean.
func UpdateEmployment(rec Record, i int, field, value string) (Record, error) {
	if i < 0 || i >= len(rec.Employment) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Employment = append([]Employment(nil), rec.Employment...)
	entry := &out.Employment[i]

	if name, rest, nested := strings.Cut(field, "."); nested {
		if name != "address" {
			return Record{}, fmt.Errorf("%w: employment.%s", ErrUnknownField, field)
		}
		target, err := addressField(&entry.Address, rest)
		if err != nil {
			return Record{}, err
		}
		*target = value
		return out, nil
	}

	switch field {
	case "employerName":
		entry.EmployerName = value
	case "positionTitle":
		entry.PositionTitle = value
	case "phone":
		entry.Phone = value
	case "startDate":
		entry.StartDate = value
	case "endDate":
		entry.EndDate = value
	case "currentEmployment":
		current, err := strconv.ParseBool(value)
		if err != nil {
			return Record{}, fmt.Errorf("%w: employment.currentEmployment: %q", ErrUnknownField, value)
		}
		entry.CurrentEmployment = current
		if current {
			entry.EndDate = ""
		}
	default:
		return Record{}, fmt.Errorf("%w: employment.%s", ErrUnknownField, field)
	}
	return out, nil
}

// RemoveEmployment drops the entry at index i.
func RemoveEmployment(rec Record, i int) (Record, error) {
	if i < 0 || i >= len(rec.Employment) {
		return Record{}, ErrIndexOutOfRange
	}
	out := rec
	out.Employment = append(append([]Employment(nil), rec.Employment[:i]...), rec.Employment[i+1:]...)
	return out, nil
}
