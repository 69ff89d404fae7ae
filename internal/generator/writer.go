package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	usersFile       = "users.json"
	connectionsFile = "connections.json"
)

// WriteDataset serializes the dataset into users.json and connections.json under the provided directory.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, usersFile), dataset.Users); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, connectionsFile), dataset.Connections); err != nil {
		return err
	}
	return nil
}

// ReadDataset loads a dataset previously written by WriteDataset. A missing
// connections.json yields a dataset with users only.
func ReadDataset(dir string) (Dataset, error) {
	var dataset Dataset
	if err := readJSON(filepath.Join(dir, usersFile), &dataset.Users); err != nil {
		return Dataset{}, err
	}
	err := readJSON(filepath.Join(dir, connectionsFile), &dataset.Connections)
	if err != nil && !os.IsNotExist(err) {
		return Dataset{}, err
	}
	return dataset, nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("decode json for %s: %w", path, err)
	}
	return nil
}
