package tilejson

import (
	"encoding/json"
	"os"
	"path"
)

// TileJSON represents a tile.json of a raster tile set
type TileJSON struct {
	TileJSON    string   `json:"tilejson"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Attribution string   `json:"attribution,omitempty"`
	Scheme      string   `json:"scheme"`
	Tiles       []string `json:"tiles"`
	Minzoom     uint8    `json:"minzoom"`
	Maxzoom     uint8    `json:"maxzoom"`
	TileSize    uint     `json:"tileSize"`
}

// attribution required when publishing RRIM imagery
const attribution = "Red Relief Image Map after Chiba, Kaneta & Suzuki (2007)"

// New describes an xyz tile set of PNG tiles stored as {z}/{x}/{y}.png
func New(name, description string, maxLod uint8, tileSize uint) TileJSON {
	return TileJSON{
		TileJSON:    "2.2.0",
		Name:        name,
		Description: description,
		Attribution: attribution,
		Scheme:      "xyz",
		Tiles:       []string{"{z}/{x}/{y}.png"},
		Minzoom:     0,
		Maxzoom:     maxLod,
		TileSize:    tileSize,
	}
}

// Write a tile.json into outputDirectory
func Write(outputDirectory string, obj TileJSON) error {
	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(outputDirectory, "tile.json"), bytes, 0644)
}

// Read a tile.json from inputDirectory
func Read(inputDirectory string) (TileJSON, error) {
	var obj TileJSON

	bytes, err := os.ReadFile(path.Join(inputDirectory, "tile.json"))
	if err != nil {
		return obj, err
	}

	err = json.Unmarshal(bytes, &obj)
	return obj, err
}
