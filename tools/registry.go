package tools

import (
	"fmt"

	"markitdownmcp/converter"
)

// Registry is the fixed, ordered tool catalog. It is built once and never mutated.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates the catalog backed by the given converter provider.
func NewRegistry(provider converter.Provider) (*Registry, error) {
	return newRegistry(
		NewConvertFile(provider),
		NewConvertURL(provider),
		NewSupportedFormats(),
	)
}

func newRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools:  make([]Tool, 0, len(tools)),
		byName: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		if _, dup := r.byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r, nil
}

// GetTools returns the tools in catalog order. The slice is a copy.
func (r *Registry) GetTools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// GetTool retrieves a tool by name from the registry
func (r *Registry) GetTool(name string) (Tool, error) {
	tool, exists := r.byName[name]
	if !exists {
		return nil, &UnknownToolError{Name: name}
	}
	return tool, nil
}
