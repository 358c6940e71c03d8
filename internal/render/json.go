package render

import (
	"encoding/json"

	"github.com/dshills/labelcritic/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(s *schema.Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
