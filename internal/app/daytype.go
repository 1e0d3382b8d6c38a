package app

import (
	"github.com/alexanderramin/tempo/internal/domain"
)

type AddTimeBlockRequest struct {
	DayTypeName string `json:"dayTypeName"`
	Label       string `json:"label"`
	StartLocal  string `json:"startLocal"`
	EndLocal    string `json:"endLocal"`
	BlockType   string `json:"blockType"`
	Energy      string `json:"energy"`
	Location    string `json:"location,omitempty"`
	Days        string `json:"days,omitempty"`
}

type TimeBlockView struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	StartLocal string `json:"startLocal"`
	EndLocal   string `json:"endLocal"`
	BlockType  string `json:"blockType"`
	Energy     string `json:"energy"`
	Location   string `json:"location,omitempty"`
	Days       string `json:"days"`
}

func NewTimeBlockView(b domain.TimeBlock) TimeBlockView {
	return TimeBlockView{
		ID:         b.ID,
		Label:      b.Label,
		StartLocal: b.StartLocal,
		EndLocal:   b.EndLocal,
		BlockType:  string(b.BlockType),
		Energy:     string(b.Energy),
		Location:   b.Location,
		Days:       b.Days.String(),
	}
}

// DayTypeView is a day type with its raw blocks and composed segments.
type DayTypeView struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Blocks   []TimeBlockView  `json:"blocks"`
	Segments []domain.Segment `json:"segments"`
}

type ApplyOpsResult struct {
	Applied          int      `json:"applied"`
	DayTypesCreated  []string `json:"dayTypesCreated"`
	BlocksCreated    int      `json:"blocksCreated"`
	AssignmentsSet   int      `json:"assignmentsSet"`
	DayTypesAffected []string `json:"dayTypesAffected"`
}

type ImportResult struct {
	Goals       int `json:"goals"`
	Projects    int `json:"projects"`
	Tasks       int `json:"tasks"`
	Habits      int `json:"habits"`
	DayTypes    int `json:"dayTypes"`
	Blocks      int `json:"blocks"`
	Assignments int `json:"assignments"`
}
