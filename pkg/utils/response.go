package utils

import (
	"errors"

	pkgError "github.com/AzielCF/az-console/pkg/error"
)

type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics with err so the recovery middleware renders it. Errors
// implementing GenericError anywhere in the chain keep their code and status.
func PanicIfNeeded(err any) {
	if err == nil {
		return
	}
	e, ok := err.(error)
	if !ok {
		panic(err)
	}
	var generic pkgError.GenericError
	if errors.As(e, &generic) {
		panic(generic)
	}
	panic(pkgError.InternalServerError(e.Error()))
}
