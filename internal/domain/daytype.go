package domain

import "time"

// MinutesPerDay is the length of the partition every day type must tile.
const MinutesPerDay = 1440

// TimeBlock is a raw, user-declared window in wall-clock form. End <= Start
// means the window wraps past midnight.
type TimeBlock struct {
	ID         string
	DayTypeID  string
	Label      string
	StartLocal string
	EndLocal   string
	BlockType  BlockType
	Energy     Energy
	Location   string
	Days       Weekdays
	CreatedAt  time.Time
}

// DayType is a named 24-hour template. Segments are derived from Blocks.
type DayType struct {
	ID        string
	Name      string
	Blocks    []TimeBlock
	Segments  []Segment
	CreatedAt time.Time
}

// Segment is one piece of a composed day, in minutes from local midnight.
type Segment struct {
	Label     string    `json:"label"`
	StartMin  int       `json:"startMin"`
	EndMin    int       `json:"endMin"`
	BlockType BlockType `json:"blockType"`
	Energy    Energy    `json:"energy"`
	Location  string    `json:"location,omitempty"`
	Filler    bool      `json:"filler"`
}

func (s Segment) Minutes() int {
	return s.EndMin - s.StartMin
}

// DayTypeAssignment binds a calendar date (YYYY-MM-DD) to a day type.
type DayTypeAssignment struct {
	Date        string
	DayTypeID   string
	DayTypeName string
}

const DateLayout = "2006-01-02"
