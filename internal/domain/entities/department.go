package entities

import (
	"strings"
	"unicode"
)

// Departments served by the hospital, in display order.
const (
	DepartmentCardiology      = "Cardiology"
	DepartmentNeurology       = "Neurology"
	DepartmentOrthopedics     = "Orthopedics"
	DepartmentPediatrics      = "Pediatrics"
	DepartmentGeneralMedicine = "General Medicine"
	DepartmentEmergency       = "Emergency"
)

// Departments lists every department in display order.
var Departments = []string{
	DepartmentCardiology,
	DepartmentNeurology,
	DepartmentOrthopedics,
	DepartmentPediatrics,
	DepartmentGeneralMedicine,
	DepartmentEmergency,
}

// IsKnownDepartment reports whether name is one of Departments.
func IsKnownDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}

// DepartmentKey converts a department name to the camel-cased key used in
// capacity payloads ("General Medicine" -> "generalMedicine").
func DepartmentKey(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 {
			r := []rune(w)
			r[0] = unicode.ToUpper(r[0])
			w = string(r)
		}
		b.WriteString(w)
	}
	return b.String()
}
