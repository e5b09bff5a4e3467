package domain

const (
	MinOptions = 2
	MaxOptions = 10
)

// ValidateOptions checks a candidate option list. Rules are applied in order
// and the first failing one is reported.
func ValidateOptions(options []string) error {
	if len(options) < MinOptions {
		return invalid("at least two options required")
	}
	if len(options) > MaxOptions {
		return invalid("at most ten options allowed")
	}
	for _, opt := range options {
		if opt == "" {
			return invalid("option is empty")
		}
	}
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		if _, ok := seen[opt]; ok {
			return invalid("options are not unique")
		}
		seen[opt] = struct{}{}
	}
	return nil
}

// ValidateTitle rejects empty poll titles.
func ValidateTitle(title string) error {
	if title == "" {
		return invalid("title is empty")
	}
	return nil
}

// ValidatePollType rejects anything that is not a known poll type.
func ValidatePollType(t PollType) error {
	if t != PollTypeSingle && t != PollTypeMultiple {
		return invalid("poll type must be single or multiple")
	}
	return nil
}
