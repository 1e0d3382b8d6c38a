package domain

// SchedulerProfile holds per-user placement defaults.
type SchedulerProfile struct {
	ID              string
	Timezone        string
	DefaultDayType  string
	SleepStartLocal string
}
