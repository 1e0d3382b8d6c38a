package scheduler

// MaxSkillLevel is the last level a skill can reach before prestige.
const MaxSkillLevel = 100

// SkillLevelCost is the XP needed to clear level at the given prestige.
func SkillLevelCost(level, prestige int) int {
	return skillBaseCost(level) + max(0, prestige)*2
}

func skillBaseCost(level int) int {
	switch {
	case level >= 1 && level <= 9:
		return 10
	case level >= 10 && level <= 19:
		return 14
	case level >= 20 && level <= 29:
		return 20
	case level >= 30 && level <= 39:
		return 24
	case level >= 40 && level <= 99:
		return 30
	case level == 100:
		return 50
	default:
		return 30
	}
}

type SkillLevel struct {
	Level     int     `json:"level"`
	IntoLevel int     `json:"intoLevel"`
	Cost      int     `json:"cost"`
	Percent   float64 `json:"percent"`
}

// SkillProgress spends totalXP level by level from 1 and reports how far the
// remainder reaches into the current level. Progress stops at MaxSkillLevel.
func SkillProgress(totalXP, prestige int) SkillLevel {
	xp := max(totalXP, 0)
	level := 1
	for level < MaxSkillLevel {
		cost := SkillLevelCost(level, prestige)
		if xp < cost {
			break
		}
		xp -= cost
		level++
	}
	cost := SkillLevelCost(level, prestige)
	into := min(xp, cost)
	return SkillLevel{
		Level:     level,
		IntoLevel: into,
		Cost:      cost,
		Percent:   float64(into) / float64(cost) * 100,
	}
}
