package wizard

// Step is a page of the booking flow. Steps run strictly in order.
type Step int

const (
	StepSelectProvider Step = iota + 1
	StepSelectServices
	StepSelectDateTime
	StepSummary
)

func (s Step) String() string {
	switch s {
	case StepSelectProvider:
		return "select_provider"
	case StepSelectServices:
		return "select_services"
	case StepSelectDateTime:
		return "select_datetime"
	case StepSummary:
		return "summary"
	}
	return "unknown"
}

// Valid reports whether s is one of the four steps.
func (s Step) Valid() bool {
	return s >= StepSelectProvider && s <= StepSummary
}
