// Package modinfo describes the metadata a mod source publishes about a mod.
package modinfo

// Info is descriptive metadata for a mod. Empty fields are unknown.
type Info struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Category    string `json:"category,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsZero reports whether no field is set.
func (i Info) IsZero() bool {
	return i == Info{}
}
