package render

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"suppressaudit/scanner"
	"suppressaudit/suppress"
)

// treeNode represents a node in the file tree
type treeNode struct {
	name     string
	isFile   bool
	issues   []scanner.Issue
	children map[string]*treeNode
}

// getDirStats recursively counts files and issues under node
func getDirStats(node *treeNode) (int, int) {
	if node.isFile {
		return 1, len(node.issues)
	}
	files, issues := 0, 0
	for _, child := range node.children {
		f, i := getDirStats(child)
		files += f
		issues += i
	}
	return files, issues
}

// buildTreeStructure builds a nested tree of the files that carry issues
func buildTreeStructure(issues []scanner.Issue) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for _, is := range issues {
		parts := strings.Split(filepath.ToSlash(is.Path), "/")
		current := root
		for i, part := range parts {
			if i == len(parts)-1 {
				leaf := current.children[part]
				if leaf == nil {
					leaf = &treeNode{name: part, isFile: true}
					current.children[part] = leaf
				}
				leaf.issues = append(leaf.issues, is)
			} else {
				if current.children[part] == nil {
					current.children[part] = &treeNode{
						name:     part,
						children: make(map[string]*treeNode),
					}
				}
				current = current.children[part]
			}
		}
	}
	return root
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Text renders the report as a tree of files and their findings
func Text(w io.Writer, report *scanner.Report, opts Options) {
	p := newPalette(w, opts)
	projectName := filepath.Base(report.Root)

	// Stats lines
	var statsLine string
	if report.DiffRef != "" {
		statsLine = fmt.Sprintf("Changed files: %d vs %s | Findings: %d in %s",
			report.FilesScanned, report.DiffRef, len(report.Issues), plural(report.FilesWithIssues(), "file"))
	} else {
		statsLine = fmt.Sprintf("Files: %d | Findings: %d in %s",
			report.FilesScanned, len(report.Issues), plural(report.FilesWithIssues(), "file"))
	}

	var familyLine string
	counts := report.CountByCategory()
	var familyParts []string
	for _, c := range suppress.Categories {
		if counts[c] > 0 {
			familyParts = append(familyParts, fmt.Sprintf("%s (%d)", c, counts[c]))
		}
	}
	if len(familyParts) > 0 {
		familyLine = strings.Join(familyParts, ", ")
	}

	innerWidth := 64
	for _, l := range []string{statsLine, familyLine} {
		if lipgloss.Width(l)+4 > innerWidth {
			innerWidth = lipgloss.Width(l) + 4
		}
	}

	// Title in top border line
	titleLine := fmt.Sprintf(" %s ", projectName)
	padding := innerWidth - lipgloss.Width(titleLine)
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad
	fmt.Fprintf(w, "╭%s%s%s╮\n", strings.Repeat("─", leftPad), p.title.Render(titleLine), strings.Repeat("─", rightPad))
	fmt.Fprintf(w, "│ %-*s │\n", innerWidth-2, statsLine)
	if familyLine != "" {
		fmt.Fprintf(w, "│ %-*s │\n", innerWidth-2, familyLine)
	}
	fmt.Fprintf(w, "╰%s╯\n", strings.Repeat("─", innerWidth))

	if len(report.Issues) == 0 {
		fmt.Fprintln(w, p.ok.Render("✓ No inline suppressions found"))
	} else {
		root := buildTreeStructure(report.Issues)
		fmt.Fprintln(w, p.title.Render(projectName))
		printTreeNode(w, p, root, "")
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.warn.Render(fmt.Sprintf("⚠ %s could not be read:", plural(len(report.Skipped), "file"))))
		for _, path := range report.Skipped {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
}

// printTreeNode recursively prints tree nodes
func printTreeNode(w io.Writer, p palette, node *treeNode, prefix string) {
	children := make([]*treeNode, 0, len(node.children))
	for _, child := range node.children {
		children = append(children, child)
	}
	// Directories first, then files, each alphabetical
	sort.Slice(children, func(i, j int) bool {
		if children[i].isFile != children[j].isFile {
			return !children[i].isFile
		}
		return children[i].name < children[j].name
	})

	for i, child := range children {
		isLast := i == len(children)-1
		connector := "├── "
		newPrefix := prefix + "│   "
		if isLast {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		if !child.isFile {
			// Flatten single-child directories
			mergedName := child.name
			current := child
			for len(current.children) == 1 {
				var onlyChild *treeNode
				for _, c := range current.children {
					onlyChild = c
				}
				if onlyChild.isFile {
					break
				}
				mergedName = mergedName + "/" + onlyChild.name
				current = onlyChild
			}

			fileCount, issueCount := getDirStats(current)
			fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector,
				p.dir.Render(mergedName+"/"),
				p.dim.Render("("+plural(fileCount, "file")+", "+plural(issueCount, "finding")+")"))
			printTreeNode(w, p, current, newPrefix)
			continue
		}

		fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector,
			p.file.Render(child.name), p.dim.Render("("+scanner.RepositoryKey(child.issues[0].Language)+")"))
		for _, is := range child.issues {
			fmt.Fprintf(w, "%s  %s %s %s%s\n", newPrefix,
				p.line.Render(fmt.Sprintf("L%d", is.EvidenceLine)),
				p.categoryStyle(is.Category).Render(string(is.Category)),
				is.Message,
				reportedOn(p, is))
		}
	}
}

func reportedOn(p palette, is scanner.Issue) string {
	if is.Line == is.EvidenceLine {
		return ""
	}
	return " " + p.dim.Render(fmt.Sprintf("(reported on L%d)", is.Line))
}
