package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Restore()
	Persist() error
}
