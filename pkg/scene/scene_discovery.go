package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to description file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroupName = "Built-in Scenes"

type builtInScene struct {
	info  SceneInfo
	build func(cameraOverrides ...renderer.CameraConfig) *Scene
}

var builtInScenes = []builtInScene{
	{
		info:  SceneInfo{ID: "default", Name: "Default Scene", Description: "Grey sphere resting on a green ground sphere"},
		build: NewDefaultScene,
	},
	{
		info:  SceneInfo{ID: "single-sphere", Name: "Single Sphere", Description: "One diffuse sphere in front of the camera"},
		build: NewSingleSphereScene,
	},
	{
		info:  SceneInfo{ID: "metals", Name: "Metals", Description: "Diffuse sphere between polished and brushed metal"},
		build: NewMetalsScene,
	},
	{
		info:  SceneInfo{ID: "mirror-box", Name: "Mirror Box", Description: "Camera inside a mirrored shell, bounded only by max depth"},
		build: NewMirrorBoxScene,
	},
	{
		info: SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "10x10 grid of rainbow-colored metallic spheres"},
		build: func(cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewSphereGridScene(10, cameraOverrides...)
		},
	},
}

// NewScene resolves a scene ID like NewSceneByID, and also accepts a path
// to a .json description. Only trusted callers such as the CLI should use it.
func NewScene(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return loadDescriptionScene(name, cameraOverrides...)
	}
	return NewSceneByID(name, cameraOverrides...)
}

// NewSceneByID resolves a built-in scene ID or a "json:<name>" ID discovered
// in the scenes directory. File paths are rejected.
func NewSceneByID(id string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, builtIn := range builtInScenes {
		if builtIn.info.ID == id {
			return builtIn.build(cameraOverrides...), nil
		}
	}

	if strings.HasPrefix(id, "json:") {
		scenes, err := ListJSONScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range scenes {
			if info.ID == id {
				return loadDescriptionScene(info.FilePath, cameraOverrides...)
			}
		}
	}

	return nil, fmt.Errorf("scene: unknown scene %q", id)
}

func loadDescriptionScene(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	s, err := LoadDescription(path)
	if err != nil {
		return nil, err
	}
	if len(cameraOverrides) > 0 {
		s.CameraConfig = renderer.MergeCameraConfig(s.CameraConfig, cameraOverrides[0])
		s.Camera = renderer.NewCamera(s.CameraConfig)
	}
	return s, nil
}

// ListBuiltInScenes returns metadata for every built-in scene
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, builtIn := range builtInScenes {
		info := builtIn.info
		info.DisplayName = info.Name
		info.Group = builtInGroupName
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// ListJSONScenes scans the scenes directory and returns discovered JSON descriptions
func ListJSONScenes() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes"}
	var scenesDir string

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scene: failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseDescriptionMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseDescriptionMetadata reads the name, description and group of a JSON scene
// description, falling back to values derived from the file name
func ParseDescriptionMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "JSON Scenes",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("scene: failed to read %s: %w", filePath, err)
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, fmt.Errorf("scene: failed to parse %s: %w", filePath, err)
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
		sceneInfo.DisplayName = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Description = meta.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return response, fmt.Errorf("scene: failed to list JSON scenes: %w", err)
	}

	allScenes := append(ListBuiltInScenes(), jsonScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroupName {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtInGroupName]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroupName,
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
