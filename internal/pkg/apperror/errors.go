package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeWrongPhase       ErrorCode = "WRONG_PHASE"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeNotOwner         ErrorCode = "NOT_OWNER"
	ErrCodeNotAuthorized    ErrorCode = "NOT_AUTHORIZED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrCodeAlreadyVoted     ErrorCode = "ALREADY_VOTED"
	ErrCodeTooManyProposals ErrorCode = "TOO_MANY_PROPOSALS"
	ErrCodeVoteOwnProposal  ErrorCode = "VOTE_OWN_PROPOSAL"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError    ErrorCode = "DATABASE_ERROR"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation короткий конструктор для ошибок входных данных.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Storage оборачивает ошибку хранилища. Причина уходит в лог, клиенту отдаётся общий текст.
func Storage(err error, message string) *AppError {
	return Wrap(err, ErrCodeDatabaseError, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeWrongPhase, ErrCodeNotOwner, ErrCodeNotAuthorized, ErrCodeTooManyProposals:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeVoteOwnProposal:
		return http.StatusBadRequest
	case ErrCodeAlreadyExists, ErrCodeAlreadyVoted:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки либо INTERNAL_ERROR для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsInternal сообщает, что ошибка не относится к доменным и не должна показываться клиенту как есть.
func IsInternal(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeInternal || code == ErrCodeDatabaseError
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsWrongPhase(err error) bool {
	return CodeOf(err) == ErrCodeWrongPhase
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

var (
	ErrWrongPhase         = New(ErrCodeWrongPhase, "операция недоступна в текущей фазе")
	ErrFinalPhase         = New(ErrCodeWrongPhase, "процесс уже находится в последней фазе")
	ErrPhaseNotFound      = New(ErrCodeNotFound, "фаза не найдена")
	ErrBudgetNotFound     = New(ErrCodeNotFound, "бюджет не задан")
	ErrProposalNotFound   = New(ErrCodeNotFound, "предложение не найдено")
	ErrNoProposals        = New(ErrCodeNotFound, "предложения не найдены")
	ErrNoVotes            = New(ErrCodeNotFound, "голоса не найдены")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrVoteNotFound       = New(ErrCodeNotAuthorized, "голос не найден или принадлежит другому пользователю")
	ErrNotOwner           = New(ErrCodeNotOwner, "предложение принадлежит другому пользователю")
	ErrForbidden          = New(ErrCodeNotAuthorized, "недостаточно прав")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrAlreadyVoted       = New(ErrCodeAlreadyVoted, "вы уже проголосовали за это предложение")
	ErrUserExists         = New(ErrCodeAlreadyExists, "пользователь с таким именем уже существует")
	ErrTooManyProposals   = New(ErrCodeTooManyProposals, "у пользователя уже 3 предложения")
	ErrVoteOwnProposal    = New(ErrCodeVoteOwnProposal, "нельзя голосовать за собственное предложение")
	ErrCostExceedsBudget  = New(ErrCodeValidation, "стоимость предложения превышает бюджет")
)
