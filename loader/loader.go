// Package loader reads FHIR resource files from disk into the upload
// contract of the client.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buger/jsonparser"

	fhirclient "github.com/gofhir/client"
)

// Load reads a single JSON resource file into a ResourceItem. The
// resource type is taken from the resourceType element when present.
func Load(path string) (fhirclient.ResourceItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fhirclient.ResourceItem{}, fmt.Errorf("read resource file: %w", err)
	}

	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return fhirclient.ResourceItem{}, fmt.Errorf("parse %s: %w", path, err)
	}

	resourceType, _ := jsonparser.GetString(data, "resourceType")

	return fhirclient.ResourceItem{
		Content:  content,
		Type:     resourceType,
		Filename: filepath.Base(path),
		Filepath: path,
	}, nil
}

// LoadDir loads every .json file directly under dir, sorted by name so
// batches run in a stable order.
func LoadDir(dir string) ([]fhirclient.ResourceItem, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read resource directory: %w", err)
	}

	var items []fhirclient.ResourceItem
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		item, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Filepath < items[j].Filepath })
	return items, nil
}

// LoadAll loads each named path, descending one level into directories.
func LoadAll(paths []string) ([]fhirclient.ResourceItem, error) {
	var items []fhirclient.ResourceItem
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			loaded, err := LoadDir(path)
			if err != nil {
				return nil, err
			}
			items = append(items, loaded...)
			continue
		}
		item, err := Load(path)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
