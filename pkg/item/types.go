// Package item defines the core work item data model for priomage.
// These types are the shared vocabulary across all modules.
package item

import (
	"strconv"
	"strings"
)

// Content types for project items. Anything else on the board (draft
// issues, archived cards) is discarded during fetch.
const (
	ContentIssue       = "Issue"
	ContentPullRequest = "PullRequest"
)

// Kind tags a FieldValue with the project field type it came from.
type Kind string

const (
	KindNumber       Kind = "number"
	KindText         Kind = "text"
	KindSingleSelect Kind = "single_select"
	KindDate         Kind = "date"
)

// Label is a repository label attached to an issue or pull request.
// Read-only snapshot; never mutated locally.
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// FieldValue is a single custom field value on a project item.
// Number is populated only for KindNumber; Text carries the string form
// for all other kinds (select option name, text content, ISO date).
// FieldID addresses the project field for mutations.
type FieldValue struct {
	Kind    Kind     `json:"kind"`
	Number  *float64 `json:"number,omitempty"`
	Text    string   `json:"text,omitempty"`
	FieldID string   `json:"field_id"`
}

// NumberValue constructs a numeric field value.
func NumberValue(fieldID string, n *float64) FieldValue {
	return FieldValue{Kind: KindNumber, Number: n, FieldID: fieldID}
}

// TextValue constructs a text field value.
func TextValue(fieldID, text string) FieldValue {
	return FieldValue{Kind: KindText, Text: text, FieldID: fieldID}
}

// SelectValue constructs a single-select field value holding the option name.
func SelectValue(fieldID, option string) FieldValue {
	return FieldValue{Kind: KindSingleSelect, Text: option, FieldID: fieldID}
}

// DateValue constructs a date field value holding the raw ISO date string.
func DateValue(fieldID, date string) FieldValue {
	return FieldValue{Kind: KindDate, Text: date, FieldID: fieldID}
}

// String returns the display form of the value.
func (v FieldValue) String() string {
	if v.Kind == KindNumber {
		if v.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	}
	return v.Text
}

// WorkItem is an issue or pull request tracked on a project board.
// ProjectItemID addresses the board membership (mutation target);
// ContentID addresses the underlying issue or PR.
type WorkItem struct {
	ProjectItemID string                `json:"project_item_id"`
	ContentType   string                `json:"content_type"`
	ContentID     string                `json:"id"`
	Number        int                   `json:"number"`
	Title         string                `json:"title"`
	Body          string                `json:"body,omitempty"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
	Author        string                `json:"author,omitempty"`
	Repository    string                `json:"repository"` // "owner/name"
	Labels        []Label               `json:"labels,omitempty"`
	Assignees     []string              `json:"assignees,omitempty"`
	CommentCount  int                   `json:"comment_count"`
	ReactionCount int                   `json:"reaction_count"`
	Fields        map[string]FieldValue `json:"fields,omitempty"` // keyed by display name as received
}

// IsIssue reports whether the item is an issue (not a pull request).
func (w *WorkItem) IsIssue() bool {
	return w.ContentType == ContentIssue
}

// Field looks up a custom field by name, case-insensitively.
// Prefers an exact-case match when both exist.
func (w *WorkItem) Field(name string) (FieldValue, bool) {
	if v, ok := w.Fields[name]; ok {
		return v, true
	}
	lower := strings.ToLower(name)
	for k, v := range w.Fields {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return FieldValue{}, false
}

// HasScoringFields reports whether the item carries the two fields the
// scoring pipeline requires: a numeric "impact" with a value and a
// non-empty single-select "effort". A "due" field is optional.
func (w *WorkItem) HasScoringFields() bool {
	impact, ok := w.Field("impact")
	if !ok || impact.Kind != KindNumber || impact.Number == nil {
		return false
	}
	effort, ok := w.Field("effort")
	if !ok || effort.Kind != KindSingleSelect || effort.Text == "" {
		return false
	}
	return true
}
