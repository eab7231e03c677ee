// Package errors provides the centralized, structured diagnostic types
// shared by every phase of the bryc frontend: lexer, parser, loader,
// resolver, type checker, and comptime evaluator.
//
// Error codes follow a per-phase taxonomy so tooling downstream of the
// compiler can key off a stable code rather than message text.
package errors

// Error code constants, grouped by the phase that raises them.
const (
	// Lexical errors (LEX###)
	LEX001 = "LEX001" // unclosed string or rune literal
	LEX002 = "LEX002" // malformed UTF-8 leading byte
	LEX003 = "LEX003" // missing expected digit in numeric literal
	LEX004 = "LEX004" // unknown codepoint at top level
	LEX005 = "LEX005" // newline inside string literal

	// Syntactic errors (PAR###)
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid declaration syntax
	PAR004 = "PAR004" // invalid attribute syntax
	PAR005 = "PAR005" // invalid pattern syntax
	PAR006 = "PAR006" // invalid type syntax
	PAR007 = "PAR007" // invalid directive expression

	// Import/module errors (MOD###)
	MOD001 = "MOD001" // module file not found
	MOD002 = "MOD002" // import cycle detected
	MOD003 = "MOD003" // ambiguous module resolution
	MOD004 = "MOD004" // module name/path mismatch
	MOD005 = "MOD005" // duplicate module file

	// Resolution errors (RES###)
	RES001 = "RES001" // undefined symbol
	RES002 = "RES002" // type used as value
	RES003 = "RES003" // value used as type
	RES004 = "RES004" // infinite type cycle
	RES005 = "RES005" // initialization cycle
	RES006 = "RES006" // type depends on constant

	// Type errors (TYP###)
	TYP001 = "TYP001" // unification failure
	TYP002 = "TYP002" // illegal operator for operand types
	TYP003 = "TYP003" // bad cast
	TYP004 = "TYP004" // non-subtype initializer
	TYP005 = "TYP005" // non-exhaustive, no default (informational)
	TYP006 = "TYP006" // struct type is infinitely sized
	TYP007 = "TYP007" // operand requires unsafe context
	TYP008 = "TYP008" // alternated pattern arm binds a name

	// Comptime errors (CMT###)
	CMT001 = "CMT001" // division or modulo by zero
	CMT002 = "CMT002" // signed overflow (min_int / -1)
	CMT003 = "CMT003" // out-of-bounds index or slice
	CMT004 = "CMT004" // shift amount out of range
	CMT005 = "CMT005" // non-constant expression in constant context
	CMT006 = "CMT006" // comptime pointer/integer cast rejected

	// Internal invariant violations (INT###)
	INT001 = "INT001" // internal invariant violation (panic)
)

// Info describes an error code's phase, category, and a short
// human-readable description, used to populate Report.Phase and to
// drive phase-membership predicates like IsTypeError.
type Info struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every defined code to its Info.
var Registry = map[string]Info{
	LEX001: {LEX001, "lexer", "literal", "Unclosed string or rune literal"},
	LEX002: {LEX002, "lexer", "encoding", "Malformed UTF-8 leading byte"},
	LEX003: {LEX003, "lexer", "literal", "Missing expected digit"},
	LEX004: {LEX004, "lexer", "encoding", "Unknown codepoint"},
	LEX005: {LEX005, "lexer", "literal", "Newline in string literal"},

	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid declaration"},
	PAR004: {PAR004, "parser", "syntax", "Invalid attribute"},
	PAR005: {PAR005, "parser", "syntax", "Invalid pattern"},
	PAR006: {PAR006, "parser", "syntax", "Invalid type expression"},
	PAR007: {PAR007, "parser", "directive", "Invalid directive expression"},

	MOD001: {MOD001, "loader", "resolution", "Module not found"},
	MOD002: {MOD002, "loader", "dependency", "Import cycle"},
	MOD003: {MOD003, "loader", "resolution", "Ambiguous import"},
	MOD004: {MOD004, "loader", "structure", "Module name/path mismatch"},
	MOD005: {MOD005, "loader", "structure", "Duplicate module file"},

	RES001: {RES001, "resolver", "scope", "Undefined symbol"},
	RES002: {RES002, "resolver", "kind", "Type used as value"},
	RES003: {RES003, "resolver", "kind", "Value used as type"},
	RES004: {RES004, "resolver", "cycle", "Infinite type"},
	RES005: {RES005, "resolver", "cycle", "Initialization cycle"},
	RES006: {RES006, "resolver", "cycle", "Type depends on constant"},

	TYP001: {TYP001, "typecheck", "unification", "Unification failure"},
	TYP002: {TYP002, "typecheck", "operator", "Illegal operator"},
	TYP003: {TYP003, "typecheck", "cast", "Bad cast"},
	TYP004: {TYP004, "typecheck", "subtype", "Non-subtype initializer"},
	TYP005: {TYP005, "typecheck", "match", "Non-exhaustive match"},
	TYP006: {TYP006, "typecheck", "layout", "Infinitely sized struct"},
	TYP007: {TYP007, "typecheck", "unsafe", "Requires unsafe context"},
	TYP008: {TYP008, "typecheck", "pattern", "Alternated pattern arm binds a name"},

	CMT001: {CMT001, "comptime", "arithmetic", "Division by zero"},
	CMT002: {CMT002, "comptime", "arithmetic", "Signed overflow"},
	CMT003: {CMT003, "comptime", "bounds", "Out of bounds"},
	CMT004: {CMT004, "comptime", "arithmetic", "Shift out of range"},
	CMT005: {CMT005, "comptime", "const", "Non-constant expression"},
	CMT006: {CMT006, "comptime", "unsafe", "Pointer cast rejected"},

	INT001: {INT001, "internal", "invariant", "Internal invariant violation"},
}

// Lookup returns the Info for a code, if registered.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// Phase returns the phase a code belongs to, or "" if unregistered.
func Phase(code string) string {
	if info, ok := Registry[code]; ok {
		return info.Phase
	}
	return ""
}
