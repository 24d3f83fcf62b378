// Package types defines core data types and error handling primitives shared
// across the translation engine.
package types

// ErrorCode classifies application errors.
type ErrorCode string

const (
	ErrUnknownDomain ErrorCode = "UNKNOWN_DOMAIN"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrMemoryImport  ErrorCode = "MEMORY_IMPORT_ERROR"
	ErrMemoryExport  ErrorCode = "MEMORY_EXPORT_ERROR"
	ErrConfig        ErrorCode = "CONFIG_ERROR"
	ErrTranslation   ErrorCode = "TRANSLATION_ERROR"
	ErrAPICall       ErrorCode = "API_CALL_ERROR"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error type. Validation entry points return
// structured reports instead of errors; AppError is reserved for programmer
// errors (unknown domain, bad inputs) and configuration failures, which fail
// fast and loudly.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Config holds the engine configuration persisted by the config manager.
type Config struct {
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`
	OpenAIModel   string `json:"openai_model"`
	// SimilarityThreshold is the minimum total score for FindSimilar candidates.
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// ReuseThreshold is the minimum score for verbatim reuse of a stored
	// translation in TranslateWithMemory.
	ReuseThreshold float64 `json:"reuse_threshold"`
	// ContextBonus is added to a candidate's similarity when its context
	// matches the query context.
	ContextBonus float64 `json:"context_bonus"`
	// MemoryPath is the default path for exported translation memory.
	MemoryPath string `json:"memory_path"`
	// TermsPath optionally points to a YAML file with extra terminology.
	TermsPath string `json:"terms_path"`
	// WorkDirectory is where translated documents and reports are written.
	WorkDirectory string `json:"work_directory"`
}
