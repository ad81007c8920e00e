package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/priomage/priomage/pkg/item"
)

const updateFieldMutation = `
mutation UpdateProjectV2ItemFieldValue($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValue!) {
    updateProjectV2ItemFieldValue(input: {
        projectId: $projectId,
        itemId: $itemId,
        fieldId: $fieldId,
        value: $value
    }) {
        projectV2Item {
            id
        }
    }
}`

// Names the priority field may go by on the board.
var priorityFieldNames = []string{"priority", "prio"}

// Score thresholds mapped to option-name keywords, checked high to low.
// The first option whose name contains one of the keywords wins.
var scoreBuckets = []struct {
	min      float64
	keywords []string
}{
	{150, []string{"critical", "highest", "p0"}},
	{120, []string{"high", "p1"}},
	{80, []string{"medium", "normal", "p2"}},
	{40, []string{"low", "p3"}},
	{0, []string{"backlog", "lowest", "p4"}},
}

// UpdatePriority writes score into the board's priority field for one
// item. The field schema is re-fetched on every call so renames and
// option edits between batches are picked up. Failures are logged and
// reported as false; they never abort the caller's batch.
func (c *Client) UpdatePriority(ctx context.Context, itemID string, score float64) bool {
	info, err := c.FetchProjectInfo(ctx)
	if err != nil {
		c.logger().Error("update priority: fetch schema", "item_id", itemID, "error", err)
		return false
	}

	field, ok := info.FieldNamed(priorityFieldNames...)
	if !ok {
		c.logger().Error("update priority: no priority field on board", "item_id", itemID)
		return false
	}

	value, err := priorityValue(field, score)
	if err != nil {
		c.logger().Error("update priority: unusable priority field", "item_id", itemID, "error", err)
		return false
	}

	variables := map[string]any{
		"projectId": info.ID,
		"itemId":    itemID,
		"fieldId":   field.ID,
		"value":     value,
	}
	if err := c.execute(ctx, updateFieldMutation, variables, nil); err != nil {
		c.logger().Error("update priority: mutation failed", "item_id", itemID, "error", err)
		return false
	}
	return true
}

// priorityValue builds the mutation value payload for the field's type.
func priorityValue(field item.FieldSchema, score float64) (map[string]any, error) {
	switch {
	case field.Kind == item.SchemaSingleSelect:
		option, err := mapScoreToOption(score, field.Options)
		if err != nil {
			return nil, err
		}
		return map[string]any{"singleSelectOptionId": option.ID}, nil
	case field.DataType == item.DataTypeNumber:
		return map[string]any{"number": score}, nil
	case field.DataType == item.DataTypeText:
		return map[string]any{"text": fmt.Sprintf("%.2f", score)}, nil
	default:
		return nil, fmt.Errorf("unsupported priority field type %q", field.DataType)
	}
}

// mapScoreToOption picks the select option for a score. Buckets are
// checked highest threshold first; when no option name matches the
// bucket's keywords the first option is used.
func mapScoreToOption(score float64, options []item.SelectOption) (item.SelectOption, error) {
	if len(options) == 0 {
		return item.SelectOption{}, fmt.Errorf("priority field has no options")
	}

	for _, bucket := range scoreBuckets {
		if score < bucket.min {
			continue
		}
		for _, opt := range options {
			name := strings.ToLower(opt.Name)
			for _, kw := range bucket.keywords {
				if strings.Contains(name, kw) {
					return opt, nil
				}
			}
		}
		break
	}
	return options[0], nil
}
