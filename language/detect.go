package language

import (
	"path/filepath"
	"strings"
)

// ExtensionToLanguage maps file extensions (with the leading dot) to language names.
var ExtensionToLanguage = map[string]string{
	".java": "Java", ".properties": "Properties", ".jsp": "JSP", ".cresql": "SQL",
	".xml": "XML",
	".c":   "C", ".h": "C",
	".cpp": "C++", ".cc": "C++", ".cxx": "C++", ".hpp": "C++", ".hxx": "C++",
	".py": "Python", ".pyi": "Python",
	".php": "PHP",
	".html": "HTML", ".htm": "HTML", ".css": "CSS",
	".js": "JavaScript", ".mjs": "JavaScript", ".ts": "TypeScript",
	".sh": "Shell", ".bash": "Shell", ".zsh": "Shell",
	".go":  "Go",
	".rs":  "Rust",
	".lua": "Lua",
	".sql": "SQL",
	".md":  "Markdown", ".txt": "Text",
	".yaml": "YAML", ".yml": "YAML", ".json": "JSON", ".toml": "TOML",
}

// DetectLanguage returns the language for a file path based on its extension.
// Returns "Unknown" if the extension is not recognized.
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		switch strings.ToLower(filepath.Base(filePath)) {
		case "makefile", "gnumakefile":
			return "Makefile"
		case "dockerfile":
			return "Dockerfile"
		}
		return "Unknown"
	}
	if lang, ok := ExtensionToLanguage[ext]; ok {
		return lang
	}
	return "Unknown"
}
