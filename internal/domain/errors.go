package domain

// Общие доменные ошибки
var (
	ErrNotFound            = notFoundError("not found")
	ErrValidation          = validationError("invalid data")
	ErrConfiguration       = configurationError("missing configuration")
	ErrInvalidPayload      = payloadError("invalid payload")
	ErrInvalidSignature    = signatureError("invalid signature")
	ErrDuplicateSettlement = duplicateError("settlement already recorded")
	ErrUnauthorized        = unauthorizedError("unauthorized")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

type configurationError string

func (e configurationError) Error() string { return string(e) }

type payloadError string

func (e payloadError) Error() string { return string(e) }

type signatureError string

func (e signatureError) Error() string { return string(e) }

type duplicateError string

func (e duplicateError) Error() string { return string(e) }

type unauthorizedError string

func (e unauthorizedError) Error() string { return string(e) }
