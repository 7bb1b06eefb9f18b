package configuration

// DefaultConfig keeps the default parameters of the package.
//
// The values are the default values if they weren't provided by the user.
// Set the default value to nil, if the parameter is required from the user.
type DefaultConfig struct {
	Title      string                 // package title
	Parameters map[string]interface{} // parameters
}
