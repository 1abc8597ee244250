package errs

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts ozzo-validation output into a field-level
// validation error. The first failing field (by name) is reported.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		if _, internal := err.(validation.InternalError); internal {
			return Internal(err)
		}
		return Validation("", err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	first := fields[0]
	return Validation(first, verrs[first].Error())
}
