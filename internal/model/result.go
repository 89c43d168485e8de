package model

// ParseStats summarizes one parse pass over a tabular file.
type ParseStats struct {
	Total  int `json:"total"`
	Parsed int `json:"parsed"`
	Failed int `json:"failed"`
}

// ParseResult is the outcome of parsing a whole file. Errors holds
// row-scoped failures ("Row <n>: <reason>"); Warnings holds strict-mode
// reports for values that normalized to absent/false but looked wrong.
type ParseResult struct {
	Success  bool           `json:"success"`
	Data     []ParsedRecord `json:"data"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Stats    ParseStats     `json:"stats"`
}

// Validation is the result of checking one record against domain rules.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ImportError ties a storage or resolution failure to the record it
// belongs to.
type ImportError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ImportResult accumulates the outcome of one import batch. Success is
// false only when the batch aborted early; a non-empty Errors list in
// lenient mode still requires attention.
type ImportResult struct {
	Success  bool          `json:"success"`
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// PreviewResult buckets record names by what an import would do,
// without writing anything.
type PreviewResult struct {
	NewFacilities      []string `json:"new_facilities"`
	ExistingFacilities []string `json:"existing_facilities"`
	NewLocalities      []string `json:"new_localities"`
	NewRegions         []string `json:"new_regions"`
}
