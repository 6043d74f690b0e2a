package language

// GroupOrder lists the built-in group names in the order they are documented.
var GroupOrder = []string{"java", "c", "cpp", "python", "php", "html", "sh", "shell", "bash"}

// Groups maps a group name to the extensions it expands to.
// Extension order within a group is significant: filters expand groups in this order.
var Groups = map[string][]string{
	"java":   {".java", ".properties", ".xml", ".jsp", ".cresql"},
	"c":      {".h", ".c"},
	"cpp":    {".h", ".cpp", ".cxx", ".hpp"},
	"python": {".py"},
	"php":    {".php"},
	"html":   {".html", ".htm", ".js", ".css"},
	"sh":     {".sh"},
	"shell":  {".sh"},
	"bash":   {".sh"},
}

// MergeGroups returns the built-in groups overlaid with extra.
// A name present in extra replaces the built-in group of the same name.
func MergeGroups(extra map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(Groups)+len(extra))
	for name, exts := range Groups {
		merged[name] = exts
	}
	for name, exts := range extra {
		merged[name] = exts
	}
	return merged
}
