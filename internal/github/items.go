package github

import (
	"context"
	"fmt"

	"github.com/priomage/priomage/pkg/item"
)

const itemsQuery = `
query GetProjectItems($org: String!, $projectNumber: Int!, $cursor: String) {
    organization(login: $org) {
        projectV2(number: $projectNumber) {
            id
            title
            items(first: 100, after: $cursor) {
                pageInfo {
                    hasNextPage
                    endCursor
                }
                nodes {
                    id
                    content {
                        __typename
                        ... on Issue {
                            id
                            title
                            number
                            body
                            createdAt
                            updatedAt
                            author { login }
                            labels(first: 50) {
                                nodes { id name color description }
                            }
                            assignees(first: 10) {
                                nodes { login }
                            }
                            comments { totalCount }
                            reactions { totalCount }
                            repository {
                                name
                                owner { login }
                            }
                        }
                        ... on PullRequest {
                            id
                            title
                            number
                            body
                            createdAt
                            updatedAt
                            author { login }
                            labels(first: 50) {
                                nodes { id name color description }
                            }
                            assignees(first: 10) {
                                nodes { login }
                            }
                            comments { totalCount }
                            reactions { totalCount }
                            repository {
                                name
                                owner { login }
                            }
                        }
                    }
                    fieldValues(first: 20) {
                        nodes {
                            __typename
                            ... on ProjectV2ItemFieldDateValue {
                                field { ... on ProjectV2Field { id name } }
                                date
                            }
                            ... on ProjectV2ItemFieldSingleSelectValue {
                                field { ... on ProjectV2SingleSelectField { id name } }
                                name
                            }
                            ... on ProjectV2ItemFieldNumberValue {
                                field { ... on ProjectV2Field { id name } }
                                number
                            }
                            ... on ProjectV2ItemFieldTextValue {
                                field { ... on ProjectV2Field { id name } }
                                text
                            }
                        }
                    }
                }
            }
        }
    }
}`

type fieldValueNode struct {
	Typename string `json:"__typename"`
	Field    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"field"`
	Date   string   `json:"date"`
	Name   string   `json:"name"`
	Number *float64 `json:"number"`
	Text   string   `json:"text"`
}

type itemNode struct {
	ID      string `json:"id"`
	Content struct {
		Typename  string `json:"__typename"`
		ID        string `json:"id"`
		Title     string `json:"title"`
		Number    int    `json:"number"`
		Body      string `json:"body"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
		Author    struct {
			Login string `json:"login"`
		} `json:"author"`
		Labels struct {
			Nodes []item.Label `json:"nodes"`
		} `json:"labels"`
		Assignees struct {
			Nodes []struct {
				Login string `json:"login"`
			} `json:"nodes"`
		} `json:"assignees"`
		Comments struct {
			TotalCount int `json:"totalCount"`
		} `json:"comments"`
		Reactions struct {
			TotalCount int `json:"totalCount"`
		} `json:"reactions"`
		Repository struct {
			Name  string `json:"name"`
			Owner struct {
				Login string `json:"login"`
			} `json:"owner"`
		} `json:"repository"`
	} `json:"content"`
	FieldValues struct {
		Nodes []fieldValueNode `json:"nodes"`
	} `json:"fieldValues"`
}

type itemsResponse struct {
	Organization struct {
		ProjectV2 struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Items struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []itemNode `json:"nodes"`
			} `json:"items"`
		} `json:"projectV2"`
	} `json:"organization"`
}

// FetchItems pages through the project and returns all issues and pull
// requests that carry the mandatory impact and effort fields. The
// sequence is fully materialized before return; any page failure aborts
// the whole fetch.
func (c *Client) FetchItems(ctx context.Context) ([]item.WorkItem, error) {
	var all []item.WorkItem
	var cursor *string

	for {
		variables := map[string]any{
			"org":           c.Organization,
			"projectNumber": c.ProjectNumber,
			"cursor":        cursor,
		}

		var resp itemsResponse
		if err := c.execute(ctx, itemsQuery, variables, &resp); err != nil {
			return nil, fmt.Errorf("fetching project items: %w", err)
		}

		items := resp.Organization.ProjectV2.Items
		for _, node := range items.Nodes {
			w, ok := flattenItem(node)
			if !ok {
				continue
			}
			if !w.HasScoringFields() {
				continue
			}
			all = append(all, w)
		}

		c.logger().Debug("fetched project items page",
			"nodes", len(items.Nodes), "kept", len(all), "has_next", items.PageInfo.HasNextPage)

		if !items.PageInfo.HasNextPage {
			break
		}
		end := items.PageInfo.EndCursor
		cursor = &end
	}

	return all, nil
}

// flattenItem converts one API node into a WorkItem. Nodes whose
// content is not an issue or pull request are dropped.
func flattenItem(node itemNode) (item.WorkItem, bool) {
	content := node.Content
	if content.Typename != item.ContentIssue && content.Typename != item.ContentPullRequest {
		return item.WorkItem{}, false
	}

	w := item.WorkItem{
		ProjectItemID: node.ID,
		ContentType:   content.Typename,
		ContentID:     content.ID,
		Number:        content.Number,
		Title:         content.Title,
		Body:          content.Body,
		CreatedAt:     content.CreatedAt,
		UpdatedAt:     content.UpdatedAt,
		Author:        content.Author.Login,
		Repository:    content.Repository.Owner.Login + "/" + content.Repository.Name,
		Labels:        content.Labels.Nodes,
		CommentCount:  content.Comments.TotalCount,
		ReactionCount: content.Reactions.TotalCount,
		Fields:        make(map[string]item.FieldValue, len(node.FieldValues.Nodes)),
	}
	for _, a := range content.Assignees.Nodes {
		w.Assignees = append(w.Assignees, a.Login)
	}

	// Classify field values by their reported sub-type; duplicate field
	// names are last-write-wins.
	for _, fv := range node.FieldValues.Nodes {
		switch fv.Typename {
		case "ProjectV2ItemFieldSingleSelectValue":
			w.Fields[fv.Field.Name] = item.SelectValue(fv.Field.ID, fv.Name)
		case "ProjectV2ItemFieldTextValue":
			w.Fields[fv.Field.Name] = item.TextValue(fv.Field.ID, fv.Text)
		case "ProjectV2ItemFieldNumberValue":
			w.Fields[fv.Field.Name] = item.NumberValue(fv.Field.ID, fv.Number)
		case "ProjectV2ItemFieldDateValue":
			w.Fields[fv.Field.Name] = item.DateValue(fv.Field.ID, fv.Date)
		}
	}

	return w, true
}
