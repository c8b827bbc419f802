package assets

// DefaultStyleName is the built-in style used when none is configured.
const DefaultStyleName = "default"

// StyleLoader loads a stylesheet by name (without the .css extension).
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidAssetName for unsafe ones.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
