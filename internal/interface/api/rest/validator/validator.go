package validator

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainDoc "preservation-api/internal/domain/document"
	domainUser "preservation-api/internal/domain/user"
	"preservation-api/internal/interface/api/rest/dto/auth"
	"preservation-api/internal/interface/api/rest/dto/document"
	"preservation-api/internal/interface/api/rest/dto/user"
)

const (
	minNameLen     = 3
	maxNameLen     = 45
	minPasswordLen = 6
	maxPasswordLen = 30
	maxFieldLen    = 255
)

const dateLayout = "2006-01-02"

var ErrInvalidPage = errors.New("invalid page")

func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return 0, ErrInvalidPage
	}

	return p, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

// ValidateUser checks a user payload; the password is optional on update.
func ValidateUser(r user.Request, requirePassword bool) map[string]string {
	errs := make(map[string]string)

	validateName(errs, r.Name)
	validateEmail(errs, r.Email)
	if r.Password != "" || requirePassword {
		validatePassword(errs, r.Password)
	}
	if r.Role != "" && !domainUser.IsValidRole(r.Role) {
		errs["role"] = "role must be User or Admin"
	}

	return nilIfEmpty(errs)
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	validateName(errs, r.Name)
	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)

	return nilIfEmpty(errs)
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	validateEmail(errs, r.Email)
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	}

	return nilIfEmpty(errs)
}

func ValidateDocument(r document.Request) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	for field, v := range map[string]string{
		"name":     r.Name,
		"category": r.Category,
		"author":   r.Author,
	} {
		if utf8.RuneCountInString(v) > maxFieldLen {
			errs[field] = "must be at most 255 characters"
		}
	}

	return nilIfEmpty(errs)
}

func ValidateDocumentUpdate(r document.UpdateRequest) map[string]string {
	errs := make(map[string]string)

	if r.Name == nil && r.Keyword == nil && r.Category == nil && r.Description == nil && r.Author == nil {
		errs["body"] = "at least one field is required"
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs["name"] = "name must not be empty"
	}

	return nilIfEmpty(errs)
}

// ValidateFilter turns query parameters into a document filter scoped to owner.
func ValidateFilter(owner uuid.UUID, r document.FilterRequest) (domainDoc.Filter, map[string]string) {
	errs := make(map[string]string)
	f := domainDoc.Filter{
		OwnerUUID:   owner,
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Keyword:     strings.TrimSpace(r.Keywords),
		Description: strings.TrimSpace(r.Description),
	}

	if r.StartDate != "" {
		d, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			errs["startDate"] = "must be YYYY-MM-DD"
		} else {
			f.StartDate = &d
		}
	}
	if r.EndDate != "" {
		d, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			errs["endDate"] = "must be YYYY-MM-DD"
		} else {
			// inclusive of the whole end day
			end := d.Add(24*time.Hour - time.Nanosecond)
			f.EndDate = &end
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		errs["endDate"] = "must not be before startDate"
	}
	if r.Status != "" {
		st, err := domainDoc.ParseStatus(strings.ToUpper(r.Status))
		if err != nil {
			errs["status"] = "must be INICIADA, PRESERVADO or FALHA"
		} else {
			f.Status = &st
		}
	}

	return f, nilIfEmpty(errs)
}

func validateName(errs map[string]string, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		errs["name"] = "name is required"
	} else if l := utf8.RuneCountInString(name); l < minNameLen || l > maxNameLen {
		errs["name"] = "name length must be 3-45 characters"
	}
}

func validateEmail(errs map[string]string, email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}
}

func validatePassword(errs map[string]string, password string) {
	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 6-30 characters"
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
