package types

// ModRecord describes one mod folder found in the repository root.
// Records are rebuilt on every scan and should be compared by ID.
type ModRecord struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	ImagePath   string            `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	Keybinds    map[string]string `json:"keybinds" yaml:"keybinds"`
	// IsActive reflects the active-links root at scan time only.
	IsActive   bool   `json:"is_active" yaml:"is_active"`
	SourcePath string `json:"folder_path" yaml:"folder_path"`
}

// ModStats is the best-effort size summary returned by GetModInfo.
type ModStats struct {
	Name          string `json:"name" yaml:"name"`
	Exists        bool   `json:"exists" yaml:"exists"`
	Size          int64  `json:"size" yaml:"size"`
	SizeFormatted string `json:"size_formatted" yaml:"size_formatted"`
	FilesCount    int    `json:"files_count" yaml:"files_count"`
	IsActive      bool   `json:"is_active" yaml:"is_active"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}
