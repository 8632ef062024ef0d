package constants

// Reason is the canonical rejection reason for quarantined files.
// Exactly one reason is recorded per rejected file.
type Reason string

// Stable values (these exact strings appear in exported reports).
const (
	ReasonEmptyFile          Reason = "EMPTY_FILE"
	ReasonWrongYear          Reason = "WRONG_YEAR"
	ReasonIncorrectExtension Reason = "INCORRECT_EXTENSION"
	ReasonParsingError       Reason = "PARSING_ERROR"
	ReasonIncorrectContent   Reason = "INCORRECT_CONTENT"
)

// Reasons lists all rejection reasons in reporting order.
var Reasons = []Reason{
	ReasonEmptyFile,
	ReasonWrongYear,
	ReasonIncorrectExtension,
	ReasonParsingError,
	ReasonIncorrectContent,
}
