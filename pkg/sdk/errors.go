package sdk

// InitErrorKind classifies a plugin initialization failure.
type InitErrorKind uint8

const (
	// InitInvalidConfig means the host-supplied configuration string was
	// rejected by the plugin.
	InitInvalidConfig InitErrorKind = iota

	// InitSetLogger means the plugin could not install the host logging
	// callback.
	InitSetLogger

	// InitCustom carries a free-form plugin diagnostic.
	InitCustom
)

// InitError is the structured error a plugin entry point returns when
// construction fails. The host passes it through unchanged so the embedding
// application can present the plugin's own diagnostic.
type InitError struct {
	Kind    InitErrorKind
	Message string
}

func (e *InitError) Error() string {
	switch e.Kind {
	case InitInvalidConfig:
		return "given config is invalid"
	case InitSetLogger:
		return "cannot set logger"
	default:
		return e.Message
	}
}

// ErrInvalidConfig returns an InitError reporting a rejected configuration.
func ErrInvalidConfig() *InitError {
	return &InitError{Kind: InitInvalidConfig}
}

// ErrSetLogger returns an InitError reporting a logger installation failure.
func ErrSetLogger() *InitError {
	return &InitError{Kind: InitSetLogger}
}

// Errorf returns a free-form InitError.
func Errorf(msg string) *InitError {
	return &InitError{Kind: InitCustom, Message: msg}
}
