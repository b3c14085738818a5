package scanner

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(files []FileInfo) []string {
	var paths []string
	for _, f := range files {
		paths = append(paths, filepath.ToSlash(f.Path))
	}
	sort.Strings(paths)
	return paths
}

func TestScanFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".gitignore":                "generated/\n*.min.js\n",
		"src/App.java":              "class App {}",
		"src/app.ts":                "export {}",
		"src/app.min.js":            "x",
		"src/notes.txt":             "not code",
		"generated/Gen.java":        "class Gen {}",
		"node_modules/lib/index.js": "module.exports = {}",
		"styles/site.CSS":           "body {}",
	})

	files, err := ScanFiles(root, LoadGitignore(root))
	require.NoError(t, err)

	assert.Equal(t, []string{"src/App.java", "src/app.ts", "styles/site.CSS"}, relPaths(files))
	for _, f := range files {
		assert.NotEmpty(t, f.Language, f.Path)
		assert.Positive(t, f.Size, f.Path)
	}
}

func TestScanFilesWithoutGitignore(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.py":          "x = 1",
		"vendor/b.go":   "package b",
		"pkg/c.go":      "package c",
		"pkg/d.unknown": "?",
	})

	assert.Nil(t, LoadGitignore(root))

	files, err := ScanFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "pkg/c.go"}, relPaths(files))
}

func TestLoadGitignoreExtraPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"keep/A.java":   "class A {}",
		"legacy/B.java": "class B {}",
		"test/CTest.kt": "class CTest",
	})

	gitignore := LoadGitignore(root, "legacy/", "*Test.kt")
	require.NotNil(t, gitignore)

	files, err := ScanFiles(root, gitignore)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep/A.java"}, relPaths(files))
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"Main.java":          "java",
		"Program.cs":         "cs",
		"Module.vb":          "vbnet",
		"script.py":          "py",
		"index.MJS":          "js",
		"component.tsx":      "ts",
		"build.gradle.kts":   "kotlin",
		"main.go":            "go",
		"index.php":          "php",
		"app.rb":             "ruby",
		"App.scala":          "scala",
		"pom.xml":            "xml",
		"site.scss":          "css",
		"Views/Index.cshtml": "web",
		"util.h":             "c",
		"engine.hpp":         "cpp",
		"README.md":          "",
		"Makefile":           "",
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectLanguage(path), path)
	}
}

func TestDetectLanguageCoversSupportedLanguages(t *testing.T) {
	covered := make(map[string]bool)
	for _, lang := range extToLang {
		covered[lang] = true
		assert.True(t, IsSupported(lang), lang)
	}
	for _, lang := range SupportedLanguages {
		assert.True(t, covered[lang], "no extension maps to %s", lang)
		assert.NotEmpty(t, LangDisplay[lang], lang)
	}
}

func TestFilterLanguages(t *testing.T) {
	files := []FileInfo{
		{Path: "a.java", Language: "java"},
		{Path: "b.cs", Language: "cs"},
		{Path: "c.py", Language: "py"},
	}

	assert.Equal(t, files, FilterLanguages(files, nil))
	assert.Equal(t, []string{"a.java", "c.py"}, relPaths(FilterLanguages(files, []string{"py", "java"})))
	assert.Empty(t, FilterLanguages(files, []string{"go"}))
}
