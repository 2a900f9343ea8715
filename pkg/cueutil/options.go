// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the CUE source accepted by Schema.Decode.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	options struct {
		filename    string
		maxFileSize int64
		partial     bool
	}

	// Option configures a Validate or Decode call.
	Option func(*options)
)

func newOptions(opts []Option) options {
	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFilename sets the name used as prefix in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithPartial accepts values that stay non-concrete after unification, such
// as optional config fields the user left out.
func WithPartial() Option {
	return func(o *options) { o.partial = true }
}
