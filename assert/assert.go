package assert

import "github.com/oomph-ac/pathing/oerror"

// IsTrue panics with an *oerror.Error if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics if v is nil.
func NotNil(v any, name string) {
	if v == nil {
		panic(oerror.New("%s must not be nil", name))
	}
}
