package domain

import "errors"

type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// Error 业务错误；Msg 原样返回给客户端，Err 只进日志
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 按 Kind+Msg 比较，忽略 Err
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == e.Msg
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found"}
}

// Invalid 带上原因的校验错误，对外仍是 "Validation error"
func Invalid(cause error) *Error {
	return &Error{Kind: KindValidation, Msg: ErrValidation.Msg, Err: cause}
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Msg: "Validation error"}
	ErrInvalidBirthday    = &Error{Kind: KindValidation, Msg: "Invalid birthday"}
	ErrPasswordMismatch   = &Error{Kind: KindValidation, Msg: "Password does not match"}
	ErrUserExists         = &Error{Kind: KindConflict, Msg: "User already exists!"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Msg: "Email already taken"}
	ErrNotFriends         = &Error{Kind: KindConflict, Msg: "Not friends"}
	ErrTaskInactive       = &Error{Kind: KindConflict, Msg: "Task is not active"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Msg: "User not found or Invalid password"}
	ErrNotTaskOwner       = &Error{Kind: KindForbidden, Msg: "Not task owner"}

	ErrUserNotFound = NotFound("User")
	ErrTaskNotFound = NotFound("Task")
	ErrTodoNotFound = NotFound("Todo")
)

// AsError 取出最外层的业务错误
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
