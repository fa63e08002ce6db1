package gamedata

import (
	"fmt"
	"os"
)

// LevelDef defines a hand-built board loaded from JSON.
//
// Each row is a string of digits, one per cell, naming a tile id.
type LevelDef struct {
	Name    string   `json:"name"`
	Rows    []string `json:"rows"`
	PlayerX int      `json:"playerX"`
	PlayerY int      `json:"playerY"`
}

// LevelsFile represents the structure of levels.json.
type LevelsFile struct {
	Levels []LevelDef `json:"levels"`
}

// LoadLevels loads level definitions from the embedded levels.json file.
func LoadLevels() ([]LevelDef, error) {
	file, err := Load[LevelsFile]("levels.json")
	if err != nil {
		return nil, err
	}
	return file.Levels, nil
}

// LoadLevelsFile loads level definitions from a JSON file on disk.
func LoadLevelsFile(path string) ([]LevelDef, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels file %s: %w", path, err)
	}
	var file LevelsFile
	if err := Decode(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
	}
	return file.Levels, nil
}

// MustLoadLevels loads level definitions, panicking on error.
func MustLoadLevels() []LevelDef {
	levels, err := LoadLevels()
	if err != nil {
		panic(err)
	}
	return levels
}
