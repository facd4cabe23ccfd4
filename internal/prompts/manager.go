package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	textTemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultPrompts embed.FS

// Prompt keys used by the agents
const (
	FunctionCallingSystem = "function_calling_system"
	FunctionCallingNudge  = "function_calling_nudge"
	FunctionCallingFinal  = "function_calling_final"
	ItemSearchSystem      = "item_search_system"
	ItemSearchUser        = "item_search_user"
)

// RequiredPrompts lists the keys every prompt set must define
var RequiredPrompts = []string{
	FunctionCallingSystem,
	FunctionCallingNudge,
	FunctionCallingFinal,
	ItemSearchSystem,
	ItemSearchUser,
}

var templateFuncs = textTemplate.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Manager handles loading and rendering prompt templates
type Manager struct {
	prompts map[string]string
	sources map[string]string // Track which file provided each prompt (for debugging)
}

// NewManager loads the embedded default prompts, then any YAML files in
// overrideDir. A missing overrideDir is not an error.
func NewManager(overrideDir string) (*Manager, error) {
	pm := &Manager{
		prompts: make(map[string]string),
		sources: make(map[string]string),
	}

	// 1. Embedded defaults first (baseline)
	if err := pm.loadFS(defaultPrompts, "defaults", "system"); err != nil {
		return nil, fmt.Errorf("failed to load default prompts: %w", err)
	}

	// 2. Project prompts (overrides) if directory exists
	if overrideDir != "" {
		if info, err := os.Stat(overrideDir); err == nil && info.IsDir() {
			if err := pm.loadFS(os.DirFS(overrideDir), ".", "project"); err != nil {
				return nil, fmt.Errorf("failed to load project prompts: %w", err)
			}
		}
	}

	// 3. Validate required prompts exist
	if err := pm.Validate(); err != nil {
		return nil, err
	}

	return pm, nil
}

// loadFS loads all YAML files from dir inside fsys
func (pm *Manager) loadFS(fsys fs.FS, dir, source string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := path.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		filePath := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		var prompts map[string]string
		if err := yaml.Unmarshal(data, &prompts); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		// Merge into main map (later loads override earlier)
		for key, value := range prompts {
			pm.prompts[key] = value
			pm.sources[key] = fmt.Sprintf("%s:%s", source, entry.Name())
		}
	}

	return nil
}

// Validate ensures every required prompt exists
func (pm *Manager) Validate() error {
	var missing []string
	for _, key := range RequiredPrompts {
		if _, ok := pm.prompts[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required prompts: %v", missing)
	}

	return nil
}

// NewManagerFromMap creates a prompt manager from a map (useful for testing)
func NewManagerFromMap(prompts map[string]string) *Manager {
	sources := make(map[string]string)
	for key := range prompts {
		sources[key] = "test:map"
	}
	return &Manager{
		prompts: prompts,
		sources: sources,
	}
}

// Get returns a raw prompt by name
func (pm *Manager) Get(name string) (string, error) {
	prompt, ok := pm.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt '%s' not found (available: %v)", name, pm.getAvailableNames())
	}
	return prompt, nil
}

// Render renders a prompt template with the given variables
func (pm *Manager) Render(name string, vars map[string]interface{}) (string, error) {
	promptTemplate, err := pm.Get(name)
	if err != nil {
		return "", err
	}

	tmpl, err := textTemplate.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(promptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// getAvailableNames returns a sorted list of available prompt names
func (pm *Manager) getAvailableNames() []string {
	names := make([]string, 0, len(pm.prompts))
	for name := range pm.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPrompt checks if a prompt exists
func (pm *Manager) HasPrompt(name string) bool {
	_, ok := pm.prompts[name]
	return ok
}

// GetSource returns which file provided a prompt (for debugging)
func (pm *Manager) GetSource(name string) string {
	if source, ok := pm.sources[name]; ok {
		return source
	}
	return "unknown"
}

// ListOverrides returns all prompts that were overridden from the project directory
func (pm *Manager) ListOverrides() []string {
	var overrides []string
	for key, source := range pm.sources {
		if strings.HasPrefix(source, "project:") {
			overrides = append(overrides, key)
		}
	}
	sort.Strings(overrides)
	return overrides
}

// CountPrompts returns the total number of loaded prompts
func (pm *Manager) CountPrompts() int {
	return len(pm.prompts)
}
