// Package employees provides read-only identity lookups against the HR-owned
// employee table.
package employees

import "strings"

// Employee is an identity record. It is owned by an external HR system and is
// never written by this service.
type Employee struct {
	ID           int64  `json:"id"`
	IDNumber     string `json:"id_number"`
	FirstName    string `json:"firstname"`
	MiddleName   string `json:"middlename"`
	LastName     string `json:"lastname"`
	Suffix       string `json:"suffix"`
	CurrentDptID int64  `json:"current_dpt_id"`
}

// DisplayName joins the non-empty name parts, suffix included.
func (e Employee) DisplayName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{e.FirstName, e.MiddleName, e.LastName, e.Suffix} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ShortName returns "First Last" with each word capitalized, the form used in
// notification messages.
func (e Employee) ShortName() string {
	return strings.TrimSpace(capitalizeWords(e.FirstName) + " " + capitalizeWords(e.LastName))
}

func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SearchTypeIDNumber switches directory search to ID-number matching.
const SearchTypeIDNumber = "ID Number"

// SearchFilter narrows a department directory search.
type SearchFilter struct {
	DepartmentID int64
	ExcludeEmpID int64
	Query        string
	SearchType   string
}
