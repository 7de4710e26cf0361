package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientRemaining indicates that an expense would exceed the
// owning budget's remaining amount. Reported to the user, never fatal.
var ErrInsufficientRemaining = errors.New("expense exceeds remaining budget")

// ErrNoActiveSession indicates that no ledger mirror is open for the user.
// The user has to log in again so the session gate reloads their budgets.
var ErrNoActiveSession = errors.New("no active session")

// ErrAuth indicates that the identity provider rejected a sign-up or login.
var ErrAuth = errors.New("authentication failed")

// ErrUnauthorized indicates a request without a valid authenticated user.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRemoteRead indicates the document store could not be read.
// The ledger mirror is left empty; the user sees an empty dashboard.
var ErrRemoteRead = errors.New("document store read failed")

// ErrRemoteWrite indicates the document store rejected or failed a
// create/replace/delete. The mirror is left untouched since mirror
// commits happen strictly after a successful write.
var ErrRemoteWrite = errors.New("document store write failed")
