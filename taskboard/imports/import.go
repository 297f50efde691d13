// Package imports validates pasted bulk task input.
//
// The input is a JSON array of objects with string fields title, description,
// status and assignee. Validation runs as a fixed sequence of states:
//
//	parsing -> array-check -> field-validation -> status-check -> assignee-merge
//
// Any state may reject the whole batch; nothing is committed for a rejected
// batch. A successful Parse returns a Batch that the store commits in one step.
package imports

import (
	"encoding/json"
	"strings"

	"github.com/arthur-debert/taskboard/internal/validation"
	"github.com/arthur-debert/taskboard/types"
)

// RequiredFields every element must carry, in checking order
var RequiredFields = []string{"title", "description", "status", "assignee"}

// parser carries the data flowing between states
type parser struct {
	raw      string
	known    func(string) bool
	parsed   interface{}
	elements []map[string]interface{}
	batch    *Batch
}

// Parse runs raw through the validation states. known reports whether an
// assignee name is already registered; nil means none are.
func Parse(raw string, known func(string) bool) (*Batch, error) {
	if known == nil {
		known = func(string) bool { return false }
	}
	p := &parser{raw: raw, known: known, batch: &Batch{}}

	steps := []func() error{
		p.parse,
		p.checkArray,
		p.validateFields,
		p.checkStatuses,
		p.mergeAssignees,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return p.batch, nil
}

func (p *parser) parse() error {
	if strings.TrimSpace(p.raw) == "" {
		return &Error{Reason: ReasonMalformedInput, State: StateParsing, Index: -1, Err: errEmptyInput}
	}
	if err := json.Unmarshal([]byte(p.raw), &p.parsed); err != nil {
		return &Error{Reason: ReasonMalformedInput, State: StateParsing, Index: -1, Err: err}
	}
	return nil
}

func (p *parser) checkArray() error {
	list, ok := p.parsed.([]interface{})
	if !ok {
		return &Error{Reason: ReasonNotAnArray, State: StateArrayCheck, Index: -1}
	}
	p.elements = make([]map[string]interface{}, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			// A non-object element carries none of the required fields
			return &Error{Reason: ReasonMissingFields, State: StateFieldValidation, Index: i, Err: errNotAnObject}
		}
		p.elements[i] = obj
	}
	return nil
}

func (p *parser) validateFields() error {
	p.batch.Records = make([]Record, len(p.elements))
	for i, obj := range p.elements {
		values, err := validation.RequireFields(obj, RequiredFields...)
		if err != nil {
			return &Error{Reason: ReasonMissingFields, State: StateFieldValidation, Index: i, Err: err}
		}
		p.batch.Records[i] = Record{
			Title:       values["title"],
			Description: values["description"],
			Status:      types.Status(values["status"]),
			Assignee:    values["assignee"],
		}
	}
	return nil
}

func (p *parser) checkStatuses() error {
	for i := range p.batch.Records {
		status, err := types.ParseStatus(string(p.batch.Records[i].Status))
		if err != nil {
			return &Error{Reason: ReasonInvalidStatus, State: StateStatusCheck, Index: i, Err: err}
		}
		p.batch.Records[i].Status = status
	}
	return nil
}

func (p *parser) mergeAssignees() error {
	seen := make(map[string]bool)
	for _, rec := range p.batch.Records {
		name := rec.Assignee
		if seen[name] || p.known(name) {
			continue
		}
		seen[name] = true
		p.batch.NewAssignees = append(p.batch.NewAssignees, name)
	}
	return nil
}
