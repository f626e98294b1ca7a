package game

import "errors"

// Rejection taxonomy. Player programs branch on these codes, so both the
// sentinels and the string codes are part of the stable contract.
var (
	ErrNotReady              = errors.New("robot cooldown not exhausted")
	ErrOutOfRange            = errors.New("target out of range")
	ErrInvalidLocation       = errors.New("invalid location")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidTarget         = errors.New("invalid target")
	ErrNoSuchRobot           = errors.New("no such robot")
	ErrInvalidRound          = errors.New("invalid round")
)

const (
	CodeNotReady              = "NOT_READY"
	CodeOutOfRange            = "OUT_OF_RANGE"
	CodeInvalidLocation       = "INVALID_LOCATION"
	CodeInsufficientResources = "INSUFFICIENT_RESOURCES"
	CodeInvalidTarget         = "INVALID_TARGET"
	CodeNoSuchRobot           = "NO_SUCH_ROBOT"
	CodeInvalidRound          = "INVALID_ROUND"
)

var codeBySentinel = map[error]string{
	ErrNotReady:              CodeNotReady,
	ErrOutOfRange:            CodeOutOfRange,
	ErrInvalidLocation:       CodeInvalidLocation,
	ErrInsufficientResources: CodeInsufficientResources,
	ErrInvalidTarget:         CodeInvalidTarget,
	ErrNoSuchRobot:           CodeNoSuchRobot,
	ErrInvalidRound:          CodeInvalidRound,
}

// RuleError carries a taxonomy sentinel plus a human-readable detail. It is
// what every mutating call returns on rejection.
type RuleError struct {
	Sentinel error
	Detail   string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return e.Sentinel.Error()
	}
	return e.Sentinel.Error() + ": " + e.Detail
}

func (e *RuleError) Unwrap() error {
	return e.Sentinel
}

// Code returns the stable wire code for the rejection.
func (e *RuleError) Code() string {
	return codeBySentinel[e.Sentinel]
}

func Reject(sentinel error, detail string) *RuleError {
	return &RuleError{Sentinel: sentinel, Detail: detail}
}

// CodeForError maps any rejection back to its wire code, or "" for errors
// outside the taxonomy.
func CodeForError(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code()
	}
	for sentinel, code := range codeBySentinel {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
