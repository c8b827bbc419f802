package assets

import "errors"

// Resolver looks a style up in a custom directory first and falls back to
// the embedded styles when it is not found there.
type Resolver struct {
	custom   StyleLoader // nil without a custom directory
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty customBasePath uses only the
// embedded styles.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle implements StyleLoader. Only a not-found error from the custom
// directory triggers the fallback; validation and read errors are returned.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}
	css, err := r.custom.LoadStyle(name)
	if err == nil || !errors.Is(err, ErrStyleNotFound) {
		return css, err
	}
	return r.embedded.LoadStyle(name)
}

var _ StyleLoader = (*Resolver)(nil)
