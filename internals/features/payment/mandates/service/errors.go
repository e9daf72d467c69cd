package service

import (
	"errors"

	"github.com/ibnlanre/laumga-sub000/internals/features/payment/mandates/repository"
)

var (
	// ErrMandateNotFound also covers records removed by the lazy
	// staleness cleanup: callers treat it as "no mandate", not a failure.
	ErrMandateNotFound = repository.ErrMandateNotFound

	// ErrMandateExists: at most one non-terminal mandate per user.
	ErrMandateExists = repository.ErrMandateExists

	// ErrMissingReference: the mandate was never tokenized, so there is
	// no processor-side state to transition.
	ErrMissingReference = errors.New("mandate has no processor reference")

	// ErrMandateNotChargeable: debits need an active processor token.
	ErrMandateNotChargeable = errors.New("mandate token is not active yet")
)
