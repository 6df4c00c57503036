package cmd

type ArgumentInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type OperationInfo struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Arguments   []ArgumentInfo `json:"arguments,omitempty"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
}

// FormFieldInfo is one input of the search form.
type FormFieldInfo struct {
	Argument string `json:"argument"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type,omitempty"`
	Widget   string `json:"widget"`
	// Group is the label of the required group, "optional", or empty for
	// operation-specific fields.
	Group     string   `json:"group,omitempty"`
	Value     string   `json:"value,omitempty"`
	Locked    bool     `json:"locked,omitempty"`
	Autofocus bool     `json:"autofocus,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// SearchInfo describes an assembled search.
type SearchInfo struct {
	Operation string                       `json:"operation"`
	Query     map[string]map[string]string `json:"query"`
	Document  string                       `json:"document"`
	URL       string                       `json:"url,omitempty"`
	Title     string                       `json:"title,omitempty"`
}

type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type ValidationError struct {
	Message   string     `json:"message"`
	Rule      string     `json:"rule,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}
