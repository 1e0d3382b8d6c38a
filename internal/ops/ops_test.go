package ops

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlBatch = `
ops:
  - type: CREATE_DAY_TYPE
    name: Workday
  - type: create_day_type_time_block
    day_type_name: Workday
    label: Deep work
    start_local: "09:00"
    end_local: "12:00"
    block_type: FOCUS
    energy: HIGH
  - type: SET_DAY_TYPE_ASSIGNMENT
    day_type_name: Workday
    date: "2026-03-02"
`

func TestDecode_YAMLBatch(t *testing.T) {
	list, err := Decode(strings.NewReader(yamlBatch))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, OpCreateDayType, list[0].Type)
	assert.Equal(t, OpCreateTimeBlock, list[1].Type, "type is upper-cased")
	assert.Equal(t, "09:00", list[1].StartLocal)
	assert.Equal(t, "2026-03-02", list[2].Date)
	assert.Empty(t, Validate(list))
}

func TestDecode_JSONList(t *testing.T) {
	doc := `[{"type":"CREATE_DAY_TYPE","name":"Rest"},
	         {"type":"SET_DAY_TYPE_ASSIGNMENT","day_type_name":"Rest","date":"2026-03-07"}]`
	list, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Rest", list[1].TargetDayType())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "  \n"},
		{"scalar", "hello"},
		{"bad yaml", "ops: [\n"},
		{"wrong field type", "ops: {a: 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	list := []Op{
		{Type: OpCreateDayType},
		{Type: OpCreateDayType, Name: "Workday"},
		{Type: OpCreateDayType, Name: "workday"},
		{Type: OpCreateTimeBlock, StartLocal: "25:00", EndLocal: "9am", BlockType: "NAP", Energy: "SLEEPY", Days: "someday"},
		{Type: OpCreateTimeBlock, DayTypeName: "Workday", Label: "x", StartLocal: "09:00", EndLocal: "09:00"},
		{Type: OpSetDayTypeAssignment, Date: "03/02/2026"},
		{Type: "DELETE_EVERYTHING"},
		{},
	}
	errs := Validate(list)

	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	joined := strings.Join(msgs, "\n")

	for _, want := range []string{
		"ops[0].name is required",
		"ops[2]: day type \"workday\" already created by ops[1]",
		"ops[3].day_type_name is required",
		"ops[3].label is required",
		"ops[3].start_local",
		"ops[3].end_local",
		"ops[3].block_type",
		"ops[3].energy",
		"ops[3].days",
		"ops[4]: start_local and end_local must differ",
		"ops[5].day_type_name is required",
		"ops[5].date",
		"ops[6].type: unknown op",
		"ops[7].type is required",
	} {
		assert.Contains(t, joined, want)
	}
	assert.Len(t, errs, 14)
}

func TestValidate_EmptyBatch(t *testing.T) {
	assert.Len(t, Validate(nil), 1)
}

func TestExport_RoundTripsThroughEncode(t *testing.T) {
	dt := domain.DayType{
		ID:   "d1",
		Name: "Workday",
		Blocks: []domain.TimeBlock{
			{Label: "SLEEP", StartLocal: "23:00", EndLocal: "06:30", BlockType: domain.BlockBreak, Energy: domain.EnergyNo},
			{Label: "Focus", StartLocal: "09:00", EndLocal: "12:00", BlockType: domain.BlockFocus, Energy: domain.EnergyHigh, Days: 0x3e},
		},
	}
	assignments := []domain.DayTypeAssignment{
		{Date: "2026-03-02", DayTypeID: "d1"},
		{Date: "2026-03-07", DayTypeID: "other"},
	}

	list := Export(dt, assignments)
	require.Len(t, list, 4)
	assert.Equal(t, OpCreateDayType, list[0].Type)
	assert.Equal(t, "mon,tue,wed,thu,fri", list[2].Days)
	assert.Equal(t, OpSetDayTypeAssignment, list[3].Type)
	assert.Empty(t, Validate(list))

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, list, format))
			back, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, list, back)
		})
	}
}
