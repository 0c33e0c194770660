package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidThreshold     ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106
	ErrCodeInvalidSymbol        ErrorCode = 107
	ErrCodeInvalidCapacity      ErrorCode = 108
	ErrCodeInvalidMultiplier    ErrorCode = 109
	ErrCodeInvalidInterval      ErrorCode = 110

	// Indicator errors (200-299)
	ErrCodeIndicatorCalculation ErrorCode = 200
	ErrCodeDegenerateInput      ErrorCode = 201

	// Strategy errors (300-399)
	ErrCodeUnknownStrategy        ErrorCode = 300
	ErrCodeStrategyConfigError    ErrorCode = 301
	ErrCodeDuplicateStrategy      ErrorCode = 302
	ErrCodeNoStrategiesConfigured ErrorCode = 303
	ErrCodeVersionMismatch        ErrorCode = 304

	// Engine errors (400-499)
	ErrCodeEngineClosed ErrorCode = 400
	ErrCodeEngineNoSink ErrorCode = 401

	// Signal store errors (500-599)
	ErrCodeStoreUnavailable ErrorCode = 500
	ErrCodeStoreWriteFailed ErrorCode = 501
	ErrCodeStoreQueryFailed ErrorCode = 502

	// Market data errors (600-699)
	ErrCodeFeedFetchFailed     ErrorCode = 600
	ErrCodeFeedParseFailed     ErrorCode = 601
	ErrCodeUnsupportedProvider ErrorCode = 602
	ErrCodeInvalidTimespan     ErrorCode = 603
)
