package github

import (
	"context"
	"fmt"

	"github.com/priomage/priomage/pkg/item"
)

const fieldsQuery = `
query GetProjectFields($org: String!, $projectNumber: Int!) {
    organization(login: $org) {
        projectV2(number: $projectNumber) {
            id
            title
            fields(first: 50) {
                nodes {
                    __typename
                    ... on ProjectV2Field {
                        id
                        name
                        dataType
                    }
                    ... on ProjectV2SingleSelectField {
                        id
                        name
                        dataType
                        options {
                            id
                            name
                            color
                        }
                    }
                }
            }
        }
    }
}`

type fieldNode struct {
	Typename string              `json:"__typename"`
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	DataType string              `json:"dataType"`
	Options  []item.SelectOption `json:"options"`
}

type fieldsResponse struct {
	Organization struct {
		ProjectV2 struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Fields struct {
				Nodes []fieldNode `json:"nodes"`
			} `json:"fields"`
		} `json:"projectV2"`
	} `json:"organization"`
}

// FetchProjectInfo returns the project id, title and field schema.
func (c *Client) FetchProjectInfo(ctx context.Context) (*item.ProjectInfo, error) {
	variables := map[string]any{
		"org":           c.Organization,
		"projectNumber": c.ProjectNumber,
	}

	var resp fieldsResponse
	if err := c.execute(ctx, fieldsQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("fetching project fields: %w", err)
	}

	project := resp.Organization.ProjectV2
	info := &item.ProjectInfo{
		ID:    project.ID,
		Title: project.Title,
	}
	for _, node := range project.Fields.Nodes {
		if node.ID == "" {
			// Unhandled field kinds come back as bare typename nodes.
			continue
		}
		info.Fields = append(info.Fields, item.FieldSchema{
			ID:       node.ID,
			Name:     node.Name,
			DataType: node.DataType,
			Kind:     node.Typename,
			Options:  node.Options,
		})
	}
	return info, nil
}
