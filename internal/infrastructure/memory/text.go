package memory

import (
	"strings"

	"golang.org/x/text/cases"
)

// containsFold compara sin distinguir mayúsculas usando case folding Unicode (equivalente a ILIKE '%x%').
// cases.Caser no es seguro entre goroutines, por eso se crea por llamada.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}
