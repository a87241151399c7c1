package metrics

type Counter interface {
	Inc()
}

type Metrics struct {
	SchedulerTicks   Counter
	ActionsExecuted  Counter
	ActionsFailed    Counter
	RefreshFailures  Counter
	NotifierFailures Counter
}

type noopCounter struct{}

func (noopCounter) Inc() {}

func NewNoop() *Metrics {
	n := noopCounter{}
	return &Metrics{
		SchedulerTicks:   n,
		ActionsExecuted:  n,
		ActionsFailed:    n,
		RefreshFailures:  n,
		NotifierFailures: n,
	}
}
