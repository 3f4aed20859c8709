package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// FindEncoding looks up a charmap by its name, e.g. "Windows 1252".
// An empty name selects no encoding.
func FindEncoding(name string) (*charmap.Charmap, error) {
	if name == "" {
		return nil, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}
