package hibernate

// Lookup tables exposed to the external test package.
var (
	ScalarConstants   = scalarConstants
	BooleanConverters = booleanConverters
	Expectations      = expectations
)
