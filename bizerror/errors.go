package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrTokenLoginDisabled = errors.New("token login disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username taken")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrInvalidRecord reports a record that would break the shape or value
// rules of its entity.
type ErrInvalidRecord struct {
	Entity string
	Field  string
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return e.Entity + "." + e.Field + ": " + e.Reason
}
func (e *ErrInvalidRecord) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.invalid_record", Message: e.Error(),
		Data: map[string]string{"entity": e.Entity, "field": e.Field}}
}
