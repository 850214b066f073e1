package engine

// Renderer turns a traced frame into some visible or persisted form
type Renderer interface {
	// Name identifies the renderer in logs
	Name() string

	// Render outputs one traced frame
	Render(scene *SceneData) error

	// Close releases resources
	Close() error
}
