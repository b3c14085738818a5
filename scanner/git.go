package scanner

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// DiffInfo holds all diff-related data for changed files
type DiffInfo struct {
	Changed   map[string]bool     // all changed files (modified + untracked)
	Untracked map[string]bool     // new/untracked files only
	Stats     map[string]DiffStat // +/- line counts
}

// DiffStat is the +/- line count of one changed file
type DiffStat struct {
	Added   int
	Removed int
}

// GitDiffInfo returns the files under root changed vs ref, plus untracked
// files. Paths are relative to root.
func GitDiffInfo(ctx context.Context, root, ref string) (*DiffInfo, error) {
	info := &DiffInfo{
		Changed:   make(map[string]bool),
		Untracked: make(map[string]bool),
		Stats:     make(map[string]DiffStat),
	}

	cmd := exec.CommandContext(ctx, "git", "diff", "--numstat", "--relative", ref)
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff %s: %w", ref, err)
	}

	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		filename, stat, ok := parseNumstat(line)
		if !ok {
			continue
		}
		info.Changed[filename] = true
		info.Stats[filename] = stat
	}

	// Untracked files count as changed
	cmd2 := exec.CommandContext(ctx, "git", "ls-files", "--others", "--exclude-standard")
	cmd2.Dir = root
	output2, err := cmd2.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(output2)), "\n") {
		if line != "" {
			info.Changed[line] = true
			info.Untracked[line] = true
		}
	}

	return info, nil
}

// parseNumstat parses one "added<TAB>removed<TAB>path" line. Binary files
// report "-" for both counts.
func parseNumstat(line string) (string, DiffStat, bool) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", DiffStat{}, false
	}
	var stat DiffStat
	if parts[0] != "-" {
		fmt.Sscanf(parts[0], "%d", &stat.Added)
	}
	if parts[1] != "-" {
		fmt.Sscanf(parts[1], "%d", &stat.Removed)
	}
	// the filename could have spaces - rejoin
	return strings.Join(parts[2:], " "), stat, true
}

// FilterToChangedWithInfo filters and annotates files with diff info
func FilterToChangedWithInfo(files []FileInfo, info *DiffInfo) []FileInfo {
	var result []FileInfo
	for _, f := range files {
		path := f.Path
		slashPath := filepath.ToSlash(f.Path)
		if info.Changed[path] || info.Changed[slashPath] {
			f.IsNew = info.Untracked[path] || info.Untracked[slashPath]
			if stat, ok := info.Stats[path]; ok {
				f.Added = stat.Added
				f.Removed = stat.Removed
			} else if stat, ok := info.Stats[slashPath]; ok {
				f.Added = stat.Added
				f.Removed = stat.Removed
			}
			result = append(result, f)
		}
	}
	return result
}
