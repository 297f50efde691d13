// Package search finds tasks whose text fields contain a query, ranked by
// where and how well the query matched.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/taskboard/types"
)

// Searchable field names
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAssignee    = "assignee"
)

// DefaultFields are searched when Options.Fields is empty
var DefaultFields = []string{FieldTitle, FieldDescription, FieldAssignee}

// Options configures a search
type Options struct {
	// Query is the text to look for
	Query string

	// Fields limits the search to these fields. Empty means DefaultFields.
	Fields []string

	CaseSensitive bool

	// ExactMatch requires the whole field to equal the query
	ExactMatch bool

	// Highlight wraps each match in Marker in Result.Highlights
	Highlight bool
	Marker    string

	// MaxResults caps the result count when positive
	MaxResults int
}

// Result is one matching task
type Result struct {
	Task types.Task

	// Score is in (0, 1], higher is better
	Score float64

	// MatchedFields lists the fields that matched, in search order
	MatchedFields []string

	// Highlights maps field name to its text with matches marked
	Highlights map[string]string
}

// Search ranks the tasks matching opts. Ties keep board order.
func Search(tasks []types.Task, opts Options) ([]Result, error) {
	if opts.Query == "" {
		return []Result{}, nil
	}
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, field := range fields {
		if !isField(field) {
			return nil, fmt.Errorf("unknown search field %q (expected one of %v)", field, DefaultFields)
		}
	}
	marker := opts.Marker
	if marker == "" {
		marker = "**"
	}

	results := []Result{}
	for _, task := range tasks {
		if r, ok := searchTask(task, fields, opts, marker); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results, nil
}

func isField(name string) bool {
	for _, f := range DefaultFields {
		if f == name {
			return true
		}
	}
	return false
}

func fieldValue(task types.Task, field string) string {
	switch field {
	case FieldTitle:
		return task.Title
	case FieldDescription:
		return task.Description
	case FieldAssignee:
		return task.Assignee
	}
	return ""
}

func searchTask(task types.Task, fields []string, opts Options, marker string) (Result, bool) {
	result := Result{Task: task}
	for _, field := range fields {
		text := fieldValue(task, field)
		positions := findMatches(text, opts.Query, opts)
		if len(positions) == 0 {
			continue
		}
		if score := scoreMatch(text, opts.Query, field, opts); score > result.Score {
			result.Score = score
		}
		result.MatchedFields = append(result.MatchedFields, field)
		if opts.Highlight {
			if result.Highlights == nil {
				result.Highlights = make(map[string]string)
			}
			if opts.ExactMatch {
				result.Highlights[field] = marker + text + marker
			} else {
				result.Highlights[field] = highlight(text, positions, len(opts.Query), marker)
			}
		}
	}
	return result, len(result.MatchedFields) > 0
}

// findMatches returns the byte offsets of non-overlapping matches
func findMatches(text, query string, opts Options) []int {
	searchText, searchQuery := text, query
	if !opts.CaseSensitive {
		searchText = strings.ToLower(text)
		searchQuery = strings.ToLower(query)
	}

	if opts.ExactMatch {
		if searchText == searchQuery {
			return []int{0}
		}
		return nil
	}

	// Lowercasing can change byte lengths; fall back to no positions then.
	if len(searchText) != len(text) || len(searchQuery) != len(query) {
		if strings.Contains(searchText, searchQuery) {
			return []int{-1}
		}
		return nil
	}

	var positions []int
	for i := 0; i <= len(searchText)-len(searchQuery); {
		idx := strings.Index(searchText[i:], searchQuery)
		if idx < 0 {
			break
		}
		positions = append(positions, i+idx)
		i += idx + len(searchQuery)
	}
	return positions
}

// scoreMatch favours title hits, prefix hits and queries covering most of the field
func scoreMatch(text, query, field string, opts Options) float64 {
	if opts.ExactMatch {
		return 1.0
	}
	if !opts.CaseSensitive {
		text = strings.ToLower(text)
		query = strings.ToLower(query)
	}

	score := 0.5
	if field == FieldTitle {
		score = 0.8
	}
	if strings.HasPrefix(text, query) {
		score += 0.2
	}
	if float64(len(query))/float64(len(text)) > 0.5 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func highlight(text string, positions []int, queryLen int, marker string) string {
	if len(positions) == 1 && positions[0] == -1 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, start := range positions {
		end := start + queryLen
		b.WriteString(text[last:start])
		b.WriteString(marker)
		b.WriteString(text[start:end])
		b.WriteString(marker)
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
