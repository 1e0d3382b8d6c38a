package domain

import (
	"strings"
)

// Priority is the shared ordinal scale for goals, projects, tasks and habits.
type Priority string

const (
	PriorityNo            Priority = "NO"
	PriorityLow           Priority = "LOW"
	PriorityMedium        Priority = "MEDIUM"
	PriorityHigh          Priority = "HIGH"
	PriorityCritical      Priority = "CRITICAL"
	PriorityUltraCritical Priority = "ULTRA-CRITICAL"
)

// priorityAliases normalizes canonical names, alternate spellings and the
// legacy numeric ids (0 = NO ... 5 = ULTRA-CRITICAL).
var priorityAliases = map[string]Priority{
	"NO":             PriorityNo,
	"NONE":           PriorityNo,
	"LOW":            PriorityLow,
	"MEDIUM":         PriorityMedium,
	"HIGH":           PriorityHigh,
	"CRITICAL":       PriorityCritical,
	"ULTRA-CRITICAL": PriorityUltraCritical,
	"ULTRA_CRITICAL": PriorityUltraCritical,
	"ULTRA CRITICAL": PriorityUltraCritical,
	"ULTRACRITICAL":  PriorityUltraCritical,
	"0":              PriorityNo,
	"1":              PriorityLow,
	"2":              PriorityMedium,
	"3":              PriorityHigh,
	"4":              PriorityCritical,
	"5":              PriorityUltraCritical,
}

// ParsePriority maps any accepted spelling to a Priority. Unknown input is NO.
func ParsePriority(s string) Priority {
	p, _ := LookupPriority(s)
	return p
}

// LookupPriority is ParsePriority that also reports whether s was recognized.
func LookupPriority(s string) (Priority, bool) {
	if p, ok := priorityAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return p, true
	}
	return PriorityNo, false
}

// Valid reports whether p is one of the canonical priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNo, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical, PriorityUltraCritical:
		return true
	}
	return false
}

// Energy is the energy tag of a block or the energy requirement of an item.
type Energy string

const (
	EnergyNo      Energy = "NO"
	EnergyLow     Energy = "LOW"
	EnergyMedium  Energy = "MEDIUM"
	EnergyHigh    Energy = "HIGH"
	EnergyUltra   Energy = "ULTRA"
	EnergyExtreme Energy = "EXTREME"
)

var energyRank = map[Energy]int{
	EnergyNo:      0,
	EnergyLow:     1,
	EnergyMedium:  2,
	EnergyHigh:    3,
	EnergyUltra:   4,
	EnergyExtreme: 5,
}

// ParseEnergy normalizes an energy tag. Unknown input is NO.
func ParseEnergy(s string) Energy {
	e := Energy(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := energyRank[e]; ok {
		return e
	}
	return EnergyNo
}

// Rank orders energy levels from NO (0) to EXTREME (5). Unknown ranks as NO.
func (e Energy) Rank() int {
	return energyRank[e]
}

// Valid reports whether e is a known energy level.
func (e Energy) Valid() bool {
	_, ok := energyRank[e]
	return ok
}

type BlockType string

const (
	BlockFocus    BlockType = "FOCUS"
	BlockPractice BlockType = "PRACTICE"
	BlockBreak    BlockType = "BREAK"
)

// ParseBlockType normalizes a block type, reporting false for unknown input.
func ParseBlockType(s string) (BlockType, bool) {
	switch bt := BlockType(strings.ToUpper(strings.TrimSpace(s))); bt {
	case BlockFocus, BlockPractice, BlockBreak:
		return bt, true
	case "":
		return BlockFocus, true
	default:
		return BlockFocus, false
	}
}

// ProjectStage progresses RESEARCH -> TEST -> BUILD -> REFINE -> RELEASE.
type ProjectStage string

const (
	StageResearch ProjectStage = "RESEARCH"
	StageTest     ProjectStage = "TEST"
	StageBuild    ProjectStage = "BUILD"
	StageRefine   ProjectStage = "REFINE"
	StageRelease  ProjectStage = "RELEASE"
)

// ParseProjectStage normalizes a project stage. Unknown input is RESEARCH.
func ParseProjectStage(s string) ProjectStage {
	switch st := ProjectStage(strings.ToUpper(strings.TrimSpace(s))); st {
	case StageResearch, StageTest, StageBuild, StageRefine, StageRelease:
		return st
	default:
		return StageResearch
	}
}

type TaskStage string

const (
	TaskPrepare TaskStage = "PREPARE"
	TaskProduce TaskStage = "PRODUCE"
	TaskPerfect TaskStage = "PERFECT"
)

// ParseTaskStage normalizes a task stage. Unknown input is PREPARE.
func ParseTaskStage(s string) TaskStage {
	switch st := TaskStage(strings.ToUpper(strings.TrimSpace(s))); st {
	case TaskPrepare, TaskProduce, TaskPerfect:
		return st
	default:
		return TaskPrepare
	}
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalInactive  GoalStatus = "INACTIVE"
	GoalOverdue   GoalStatus = "OVERDUE"
)

// ParseGoalStatus normalizes a goal status. Unknown input is ACTIVE.
func ParseGoalStatus(s string) GoalStatus {
	switch st := GoalStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case GoalActive, GoalCompleted, GoalInactive, GoalOverdue:
		return st
	default:
		return GoalActive
	}
}
