package asserts

import "fmt"

// Option configures a single assertion call.
type Option func(*options)

type options struct {
	message         string
	maximumMatching bool
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// format prefixes cause with the caller's message, if any.
func (o *options) format(cause string) string {
	return Format(o.message, cause)
}

// WithMessage sets a message that prefixes the failure description.
func WithMessage(msg string) Option {
	return func(o *options) {
		o.message = msg
	}
}

// WithMessagef is WithMessage with formatting.
func WithMessagef(format string, args ...any) Option {
	return func(o *options) {
		o.message = fmt.Sprintf(format, args...)
	}
}

// WithMaximumMatching makes ContainsExactFunc search for a maximum bipartite
// matching instead of pairing elements greedily. The result then no longer
// depends on the order of found when the relation is not a bijection.
func WithMaximumMatching() Option {
	return func(o *options) {
		o.maximumMatching = true
	}
}
