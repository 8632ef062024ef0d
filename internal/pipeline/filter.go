package pipeline

import (
	"strings"

	"github.com/docflow-tools/finstat/constants"
)

// CheckEligibility decides from name and size alone whether a file may
// proceed to content validation. A file must be non-empty, carry the
// processing year in its name, and end with the recognized extension; when
// several conditions fail, the reported reason follows this precedence:
// empty file, wrong year, incorrect extension.
func CheckEligibility(name string, size int64, year, ext string) (constants.Reason, bool) {
	if size == 0 {
		return constants.ReasonEmptyFile, false
	}
	if !strings.Contains(name, year) {
		return constants.ReasonWrongYear, false
	}
	if !strings.HasSuffix(strings.ToLower(name), constants.NormalizeExt(ext)) {
		return constants.ReasonIncorrectExtension, false
	}
	return "", true
}
