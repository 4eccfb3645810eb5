package parser

// DefaultMaxDepth bounds element nesting so hostile input cannot exhaust
// the stack.
const DefaultMaxDepth = 256

type options struct {
	allowUnknownAttributes bool
	maxDepth               int
}

// Option configures a Lexer or Parser.
type Option func(*options)

// AllowUnknownAttributes makes the lexer accept any `name:` as an attribute
// token. Unknown names are left for the renderer to drop.
func AllowUnknownAttributes() Option {
	return func(o *options) { o.allowUnknownAttributes = true }
}

// WithMaxDepth sets the maximum element nesting depth. Values below 1 keep
// the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
