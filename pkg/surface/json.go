package surface

import (
	"encoding/json"
	"io"

	"github.com/priomage/priomage/pkg/item"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) RenderList(w io.Writer, reports []ItemReport) error {
	return encode(w, reports)
}

func (r *JSONRenderer) RenderExplanation(w io.Writer, rep ExplainReport) error {
	return encode(w, rep)
}

func (r *JSONRenderer) RenderProject(w io.Writer, info *item.ProjectInfo, url string) error {
	return encode(w, struct {
		*item.ProjectInfo
		URL string `json:"url,omitempty"`
	}{info, url})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
