// Package locations загружает административную иерархию штат -> район -> блоки.
package locations

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Hierarchy - иерархия штат -> район -> список блоков
type Hierarchy map[string]map[string][]string

// Load читает иерархию из YAML или JSON файла.
// Пустой путь дает пустую иерархию.
func Load(path string) (Hierarchy, error) {
	if path == "" {
		return Hierarchy{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает иерархию. JSON является подмножеством YAML, поэтому подходят оба формата.
func Parse(data []byte) (Hierarchy, error) {
	h := Hierarchy{}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse locations: %w", err)
	}
	return h, nil
}

// Blocks возвращает известные блоки района.
// Если район с таким именем есть в нескольких штатах, берется первый штат по алфавиту.
func (h Hierarchy) Blocks(district string) ([]string, bool) {
	for _, state := range slices.Sorted(maps.Keys(h)) {
		if blocks, ok := h[state][district]; ok {
			return blocks, true
		}
	}
	return nil, false
}

// DistrictCount возвращает общее число районов
func (h Hierarchy) DistrictCount() int {
	count := 0
	for _, districts := range h {
		count += len(districts)
	}
	return count
}
