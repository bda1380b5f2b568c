package postcss

import (
	"encoding/json"
	"strings"
)

// GeneratedColumns decodes the absolute generated column of every segment,
// line by line.
func GeneratedColumns(raw []byte) ([][]int, error) {
	var sm struct {
		Mappings string `json:"mappings"`
	}
	if err := json.Unmarshal(raw, &sm); err != nil {
		return nil, err
	}
	var out [][]int
	for _, line := range strings.Split(sm.Mappings, ";") {
		cols := []int{}
		col := 0
		if line != "" {
			for _, seg := range strings.Split(line, ",") {
				d, _, _ := decodeVLQ(seg)
				col += d
				cols = append(cols, col)
			}
		}
		out = append(out, cols)
	}
	return out, nil
}
