package scanner

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoredDirs are directories to skip during scanning
var IgnoredDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"vendor":        true,
	"Pods":          true,
	"build":         true,
	"DerivedData":   true,
	".idea":         true,
	".vscode":       true,
	"__pycache__":   true,
	".DS_Store":     true,
	"venv":          true,
	".venv":         true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	".tox":          true,
	"dist":          true,
	".next":         true,
	".nuxt":         true,
	"target":        true,
	".gradle":       true,
	"bin":           true,
	"obj":           true,
	".scannerwork":  true,
}

// LoadGitignore compiles the .gitignore at root, if any, together with extra
// gitignore-style patterns. It returns nil when there is nothing to ignore.
func LoadGitignore(root string, extra ...string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")

	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFileAndLines(gitignorePath, extra...); err == nil {
			return gitignore
		}
	}

	if len(extra) > 0 {
		return ignore.CompileIgnoreLines(extra...)
	}
	return nil
}

// ScanFiles walks the directory tree and returns every file in a supported language
func ScanFiles(root string, gitignore *ignore.GitIgnore) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Skip if matched by common ignore patterns
		if info.IsDir() {
			if IgnoredDirs[info.Name()] && relPath != "." {
				return filepath.SkipDir
			}
		} else if IgnoredDirs[info.Name()] {
			return nil
		}

		// Skip if matched by .gitignore
		if gitignore != nil && relPath != "." && gitignore.MatchesPath(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		lang := DetectLanguage(path)
		if lang == "" {
			return nil
		}

		files = append(files, FileInfo{
			Path:     relPath,
			Size:     info.Size(),
			Ext:      filepath.Ext(path),
			Language: lang,
		})

		return nil
	})

	return files, err
}

// FilterLanguages keeps only files whose language is in langs. An empty
// langs keeps everything.
func FilterLanguages(files []FileInfo, langs []string) []FileInfo {
	if len(langs) == 0 {
		return files
	}
	allowed := make(map[string]bool, len(langs))
	for _, l := range langs {
		allowed[l] = true
	}
	var result []FileInfo
	for _, f := range files {
		if allowed[f.Language] {
			result = append(result, f)
		}
	}
	return result
}
