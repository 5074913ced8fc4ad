package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	models "lmscontent/internal/domain/models/content"
	contentSvc "lmscontent/internal/domain/services/content"
	"lmscontent/internal/service/navigation"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	ctx     context.Context
	query   contentSvc.QueryService
	browser *navigation.Browser
	scanner *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
}

func (cli *CLI) run() {
	fmt.Fprintf(cli.out, "%sLMS content browser%s (type %shelp%s for commands)\n", colorCyan, colorReset, colorGreen, colorReset)
	cli.refresh()

	for {
		fmt.Fprintf(cli.out, "\n%s%s%s> ", colorBlue, cli.prompt(), colorReset)
		if !cli.scanner.Scan() {
			return
		}
		if !cli.exec(cli.scanner.Text()) {
			fmt.Fprintf(cli.out, "%s✓ Goodbye!%s\n", colorGreen, colorReset)
			return
		}
	}
}

func (cli *CLI) prompt() string {
	coord := cli.browser.State().Coordinate()
	names := make([]string, 0)
	for _, c := range cli.browser.State().Path() {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("course %s batch %s /%s", orDash(coord.CourseID), orDash(coord.BatchID), strings.Join(names[1:], "/"))
}

// exec runs one command line. It returns false when the session should end.
func (cli *CLI) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, arg := fields[0], strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	cli.logger.Debug("command", "cmd", cmd, "arg", arg)

	state := cli.browser.State()
	switch cmd {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		cli.help()
	case "ls":
		cli.refresh()
	case "cd":
		if arg == ".." {
			path := state.Path()
			if len(path) > 1 {
				_ = state.ClickBreadcrumb(len(path) - 2)
			}
			cli.refresh()
			return true
		}
		node, ok := cli.pickFolder(arg)
		if !ok {
			cli.warn("no folder %q here", arg)
			return true
		}
		state.EnterFolder(node.Folder)
		cli.refresh()
	case "crumb":
		i, err := strconv.Atoi(arg)
		if err == nil {
			err = state.ClickBreadcrumb(i)
		}
		if err != nil {
			cli.warn("usage: crumb <index> (%v)", err)
			return true
		}
		cli.refresh()
	case "course":
		state.SwitchCourse(arg)
		cli.info("course switched, choose a batch with: batch <id>")
	case "batch":
		state.SwitchBatch(arg)
		cli.refresh()
	case "tree":
		cli.tree()
	default:
		cli.warn("unknown command %q", cmd)
	}
	return true
}

func (cli *CLI) help() {
	fmt.Fprintln(cli.out, "  ls              refresh the current folder")
	fmt.Fprintln(cli.out, "  cd <n|name|..>  enter a subfolder or go up one level")
	fmt.Fprintln(cli.out, "  crumb <i>       jump to breadcrumb i (0 is root)")
	fmt.Fprintln(cli.out, "  course <id>     switch course (clears the batch)")
	fmt.Fprintln(cli.out, "  batch <id>      switch batch")
	fmt.Fprintln(cli.out, "  tree            print the whole batch tree")
	fmt.Fprintln(cli.out, "  quit")
}

// pickFolder resolves a 1-based index or a case-insensitive name among the
// visible subfolders.
func (cli *CLI) pickFolder(arg string) (*models.TreeNode, bool) {
	folders := cli.browser.View().Folders
	if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= len(folders) {
		return folders[i-1], true
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, arg) {
			return f, true
		}
	}
	return nil, false
}

func (cli *CLI) refresh() {
	coord := cli.browser.State().Coordinate()
	if coord.CourseID == "" || coord.BatchID == "" {
		cli.info("no course or batch selected")
		return
	}

	view, err := cli.browser.Refresh(cli.ctx)
	if errors.Is(err, navigation.ErrStaleResult) {
		return
	}
	if err != nil {
		fmt.Fprintf(cli.out, "%s❌ %v%s\n", colorRed, err, colorReset)
	}

	path := make([]string, 0, len(view.Path))
	for i, c := range view.Path {
		path = append(path, fmt.Sprintf("[%d] %s", i, c.Name))
	}
	fmt.Fprintf(cli.out, "%s%s%s\n", colorCyan, strings.Join(path, " › "), colorReset)

	for i, f := range view.Folders {
		fmt.Fprintf(cli.out, "  %2d. 📁 %s\n", i+1, f.Name)
	}
	if view.FellBack {
		cli.warn("nothing filed here, showing every file in the batch")
	}
	for _, f := range view.Files {
		fmt.Fprintf(cli.out, "      %s %s\n", mediaIcon(f.MediaType), f.DisplayName)
	}
	if len(view.Folders) == 0 && len(view.Files) == 0 {
		cli.info("(empty)")
	}
}

func (cli *CLI) tree() {
	coord := cli.browser.State().Coordinate()
	tree, err := cli.query.GetTree(cli.ctx, coord.CourseID, coord.BatchID)
	if err != nil {
		fmt.Fprintf(cli.out, "%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}

	var walk func(nodes []*models.TreeNode, depth int)
	walk = func(nodes []*models.TreeNode, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, n := range nodes {
			fmt.Fprintf(cli.out, "%s📁 %s\n", indent, n.Name)
			for _, f := range n.Files {
				fmt.Fprintf(cli.out, "%s  %s %s\n", indent, mediaIcon(f.MediaType), f.DisplayName)
			}
			walk(n.Children, depth+1)
		}
	}
	walk(tree.Folders, 0)
	for _, f := range tree.RootFiles {
		fmt.Fprintf(cli.out, "%s %s\n", mediaIcon(f.MediaType), f.DisplayName)
	}
	if len(tree.Unplaced) > 0 {
		cli.warn("%d file(s) point at folders that no longer exist:", len(tree.Unplaced))
		for _, f := range tree.Unplaced {
			fmt.Fprintf(cli.out, "  %s %s (folder %s)\n", mediaIcon(f.MediaType), f.DisplayName, f.FolderID)
		}
	}
}

func (cli *CLI) warn(format string, args ...any) {
	fmt.Fprintf(cli.out, "%s⚠ %s%s\n", colorYellow, fmt.Sprintf(format, args...), colorReset)
}

func (cli *CLI) info(format string, args ...any) {
	fmt.Fprintf(cli.out, "%s%s%s\n", colorBlue, fmt.Sprintf(format, args...), colorReset)
}

func mediaIcon(t models.MediaType) string {
	switch t {
	case models.MediaVideo:
		return "🎬"
	case models.MediaPDF:
		return "📄"
	case models.MediaImage:
		return "🖼"
	default:
		return "📎"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
