package quadfusion

import "github.com/quadfusion/engine/internal/enginecore"

// ErrorType, EngineError, and the error-code constants are defined in
// internal/enginecore (internal/memstore and internal/vectorexec both
// construct and inspect them without importing this root package); these
// aliases keep them part of the engine's public surface.
type (
	ErrorType   = enginecore.ErrorType
	EngineError = enginecore.EngineError
)

const (
	ErrorTypeParse     = enginecore.ErrorTypeParse
	ErrorTypePlan      = enginecore.ErrorTypePlan
	ErrorTypeExecution = enginecore.ErrorTypeExecution
	ErrorTypeStorage   = enginecore.ErrorTypeStorage
	ErrorTypeConfig    = enginecore.ErrorTypeConfig

	ErrCodeUnsupportedExpression = enginecore.ErrCodeUnsupportedExpression
	ErrCodeUnboundVariable       = enginecore.ErrCodeUnboundVariable
	ErrCodePlanNotLowered        = enginecore.ErrCodePlanNotLowered
	ErrCodeJoinIncompatible      = enginecore.ErrCodeJoinIncompatible
	ErrCodeStorageClosed         = enginecore.ErrCodeStorageClosed
	ErrCodeStorageIO             = enginecore.ErrCodeStorageIO
	ErrCodeObjectIDNotFound      = enginecore.ErrCodeObjectIDNotFound
	ErrCodeSchemaMismatch        = enginecore.ErrCodeSchemaMismatch
	ErrCodeInvalidConfig         = enginecore.ErrCodeInvalidConfig
	ErrCodeInternal              = enginecore.ErrCodeInternal
	ErrCodeUnsupportedCapability = enginecore.ErrCodeUnsupportedCapability
)

func NewParseError(message string) *EngineError { return enginecore.NewParseError(message) }

func NewPlanError(code, message string) *EngineError { return enginecore.NewPlanError(code, message) }

func NewExecutionError(message string, cause error) *EngineError {
	return enginecore.NewExecutionError(message, cause)
}

func NewStorageError(code, message string, cause error) *EngineError {
	return enginecore.NewStorageError(code, message, cause)
}

func NewConfigError(message string) *EngineError { return enginecore.NewConfigError(message) }

// IsErrorType reports whether err is an *EngineError of the given type.
func IsErrorType(err error, t ErrorType) bool { return enginecore.IsErrorType(err, t) }

// IsStorageError reports whether err originated from a QuadStorage backend.
func IsStorageError(err error) bool { return enginecore.IsStorageError(err) }
