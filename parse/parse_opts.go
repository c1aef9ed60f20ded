package parse

type parseOpts struct {
	strict    bool
	maxErrors int
}

type ParseOption func(*parseOpts)

// Strict makes Parse fail on the first syntax error.
func Strict() ParseOption {
	return func(o *parseOpts) { o.strict = true }
}

// MaxErrors bounds the number of syntax errors recorded.  Parsing
// continues past the bound.
func MaxErrors(n int) ParseOption {
	return func(o *parseOpts) { o.maxErrors = n }
}
