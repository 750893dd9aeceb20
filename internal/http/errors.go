package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/snapshot"
)

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrInvalidMonthKey,
	ledger.ErrUnknownVariant,
	ledger.ErrUnknownCategory,
	ledger.ErrUnknownField,
	ledger.ErrCategoryNotInVariant,
	ledger.ErrIncompleteExpense,
	snapshot.ErrMalformedImport,
	snapshot.ErrVariantMismatch,
	snapshot.ErrDuplicateMonth,
}

// statusFor maps domain errors to a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, snapshot.ErrNotFound), errors.Is(err, ledger.ErrExpenseNotFound):
		return http.StatusNotFound
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// userMessage hides internal failures from the browser.
func userMessage(err error, status int) string {
	if status >= 500 {
		return "Something went wrong, please try again"
	}
	return err.Error()
}

// errorResponseFor picks the typed error response for status.
func errorResponseFor(status int, msg string) *HTMXResponseBuilder {
	switch status {
	case http.StatusNotFound:
		return NotFoundError(msg)
	case http.StatusUnprocessableEntity:
		return UnprocessableEntityError(msg)
	case http.StatusInternalServerError:
		return InternalServerError(msg)
	}
	return ErrorResponse(status, msg)
}
