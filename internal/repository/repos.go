package repository

import "github.com/alexanderramin/tempo/internal/db"

// Repos bundles every repository over one connection or transaction.
type Repos struct {
	Goals     GoalRepo
	Projects  ProjectRepo
	Tasks     TaskRepo
	Habits    HabitRepo
	DayTypes  DayTypeRepo
	Instances InstanceRepo
	Profile   ProfileRepo
}

func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Goals:     NewSQLiteGoalRepo(conn),
		Projects:  NewSQLiteProjectRepo(conn),
		Tasks:     NewSQLiteTaskRepo(conn),
		Habits:    NewSQLiteHabitRepo(conn),
		DayTypes:  NewSQLiteDayTypeRepo(conn),
		Instances: NewSQLiteInstanceRepo(conn),
		Profile:   NewSQLiteProfileRepo(conn),
	}
}
