package ignore

// DefaultIgnoredDirs are directory base names that are never descended into.
var DefaultIgnoredDirs = []string{
	".git",
	"prepare",
}

// DefaultIgnoredFiles are file base names that are never revised.
var DefaultIgnoredFiles = []string{
	".gitignore",
}
