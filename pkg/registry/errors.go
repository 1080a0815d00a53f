package registry

import "fmt"

// MissingSymbolError means the linked file is correctly signed but does not
// export the plugin entry symbol; it is not a valid plugin build.
type MissingSymbolError struct {
	Symbol string
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("cannot find symbol %s", e.Symbol)
}

// InvalidRequirementError means the plugin declared a version requirement
// the host cannot parse. This is a plugin bug; fix the plugin build.
type InvalidRequirementError struct {
	Plugin      string
	Requirement string
}

func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("plugin %s declared an invalid version requirement %q", e.Plugin, e.Requirement)
}

// UnmetRequirementError means the plugin's well-formed version requirement
// does not match the host version. This is a deployment mismatch; the
// plugin and host lines need to be aligned.
type UnmetRequirementError struct {
	Plugin      string
	Requirement string
	Host        string
}

func (e *UnmetRequirementError) Error() string {
	return fmt.Sprintf("plugin %s requires host version %q, host is %s", e.Plugin, e.Requirement, e.Host)
}
