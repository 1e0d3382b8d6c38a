package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is the top-level structure of a snapshot import file. YAML and
// JSON are both accepted.
type Snapshot struct {
	Profile     *ProfileImport     `json:"profile,omitempty" yaml:"profile,omitempty"`
	Goals       []GoalImport       `json:"goals" yaml:"goals"`
	Habits      []HabitImport      `json:"habits,omitempty" yaml:"habits,omitempty"`
	DayTypes    []DayTypeImport    `json:"day_types,omitempty" yaml:"day_types,omitempty"`
	Assignments []AssignmentImport `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

type ProfileImport struct {
	Timezone       string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	DefaultDayType string `json:"default_day_type,omitempty" yaml:"default_day_type,omitempty"`
	SleepStart     string `json:"sleep_start,omitempty" yaml:"sleep_start,omitempty"`
}

type GoalImport struct {
	Name        string          `json:"name" yaml:"name"`
	Priority    string          `json:"priority,omitempty" yaml:"priority,omitempty"`
	DueDate     *string         `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	WeightBoost float64         `json:"weight_boost,omitempty" yaml:"weight_boost,omitempty"`
	Status      string          `json:"status,omitempty" yaml:"status,omitempty"`
	Projects    []ProjectImport `json:"projects,omitempty" yaml:"projects,omitempty"`
}

type ProjectImport struct {
	Name        string       `json:"name" yaml:"name"`
	Priority    string       `json:"priority,omitempty" yaml:"priority,omitempty"`
	Stage       string       `json:"stage,omitempty" yaml:"stage,omitempty"`
	DueDate     *string      `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	DurationMin *int         `json:"duration_min,omitempty" yaml:"duration_min,omitempty"`
	Progress    int          `json:"progress,omitempty" yaml:"progress,omitempty"`
	Energy      string       `json:"energy,omitempty" yaml:"energy,omitempty"`
	Location    string       `json:"location,omitempty" yaml:"location,omitempty"`
	Skills      []string     `json:"skills,omitempty" yaml:"skills,omitempty"`
	Tasks       []TaskImport `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

type TaskImport struct {
	Name        string  `json:"name" yaml:"name"`
	Stage       string  `json:"stage,omitempty" yaml:"stage,omitempty"`
	Priority    string  `json:"priority,omitempty" yaml:"priority,omitempty"`
	Skill       *string `json:"skill,omitempty" yaml:"skill,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty" yaml:"duration_min,omitempty"`
	Energy      string  `json:"energy,omitempty" yaml:"energy,omitempty"`
	Location    string  `json:"location,omitempty" yaml:"location,omitempty"`
	Completed   bool    `json:"completed,omitempty" yaml:"completed,omitempty"`
}

type HabitImport struct {
	Name        string `json:"name" yaml:"name"`
	Priority    string `json:"priority,omitempty" yaml:"priority,omitempty"`
	DurationMin int    `json:"duration_min" yaml:"duration_min"`
	Energy      string `json:"energy,omitempty" yaml:"energy,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Days        string `json:"days,omitempty" yaml:"days,omitempty"`
}

type DayTypeImport struct {
	Name   string        `json:"name" yaml:"name"`
	Blocks []BlockImport `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

type BlockImport struct {
	Label     string `json:"label" yaml:"label"`
	Start     string `json:"start" yaml:"start"`
	End       string `json:"end" yaml:"end"`
	BlockType string `json:"block_type,omitempty" yaml:"block_type,omitempty"`
	Energy    string `json:"energy,omitempty" yaml:"energy,omitempty"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	Days      string `json:"days,omitempty" yaml:"days,omitempty"`
}

type AssignmentImport struct {
	Date    string `json:"date" yaml:"date"`
	DayType string `json:"day_type" yaml:"day_type"`
}

// LoadSnapshot reads and parses a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// DecodeSnapshot parses YAML or JSON. Unknown keys are rejected so typos
// surface instead of silently dropping data.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		if err == io.EOF {
			return &snap, nil
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &snap, nil
}
