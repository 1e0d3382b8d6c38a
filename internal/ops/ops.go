// Package ops is the serialized vocabulary for editing day types: creating
// them, adding their raw time blocks and binding calendar dates to them.
package ops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/tempo/internal/domain"
)

type OpType string

const (
	OpCreateDayType        OpType = "CREATE_DAY_TYPE"
	OpCreateTimeBlock      OpType = "CREATE_DAY_TYPE_TIME_BLOCK"
	OpSetDayTypeAssignment OpType = "SET_DAY_TYPE_ASSIGNMENT"
)

// Op is one edit. Only the fields its Type names are meaningful.
type Op struct {
	Type        OpType `json:"type" yaml:"type"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	DayTypeName string `json:"day_type_name,omitempty" yaml:"day_type_name,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	StartLocal  string `json:"start_local,omitempty" yaml:"start_local,omitempty"`
	EndLocal    string `json:"end_local,omitempty" yaml:"end_local,omitempty"`
	BlockType   string `json:"block_type,omitempty" yaml:"block_type,omitempty"`
	Energy      string `json:"energy,omitempty" yaml:"energy,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Days        string `json:"days,omitempty" yaml:"days,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Batch is the wrapped document form.
type Batch struct {
	Ops []Op `json:"ops" yaml:"ops"`
}

// TargetDayType names the day type an op creates or edits.
func (o Op) TargetDayType() string {
	if o.Type == OpCreateDayType {
		return strings.TrimSpace(o.Name)
	}
	return strings.TrimSpace(o.DayTypeName)
}

// Decode reads a batch from YAML or JSON. Both a bare list and a document
// with an "ops" key are accepted.
func Decode(r io.Reader) ([]Op, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ops: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty ops document", domain.ErrInvalidInput)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing ops: %v", domain.ErrInvalidInput, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var list []Op
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("%w: decoding ops list: %v", domain.ErrInvalidInput, err)
		}
		return normalize(list), nil
	case yaml.MappingNode:
		var batch Batch
		if err := root.Decode(&batch); err != nil {
			return nil, fmt.Errorf("%w: decoding ops batch: %v", domain.ErrInvalidInput, err)
		}
		return normalize(batch.Ops), nil
	default:
		return nil, fmt.Errorf("%w: ops document must be a list or an object with \"ops\"", domain.ErrInvalidInput)
	}
}

func normalize(list []Op) []Op {
	for i := range list {
		list[i].Type = OpType(strings.ToUpper(strings.TrimSpace(string(list[i].Type))))
	}
	return list
}

// Encode writes ops as YAML, or JSON when format is "json".
func Encode(w io.Writer, list []Op, format string) error {
	batch := Batch{Ops: list}
	if batch.Ops == nil {
		batch.Ops = []Op{}
	}
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(batch); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("unknown ops format " + format)
	}
}
