package tui

import (
	"context"

	"github.com/JonMunkholm/crewboard/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(opts Options) *Menu {
	root := &Menu{Title: "Crewboard"}

	for _, group := range core.Groups() {
		root.Items = append(root.Items, MenuItem{
			Label:   group + " ->",
			Submenu: loadScreenMenu(group),
		})
	}

	if opts.Reset != nil {
		root.Items = append(root.Items, MenuItem{Label: "Admin ->", Submenu: loadAdminMenu(opts.Reset)})
	}

	root.Items = append(root.Items, MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }})

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadScreenMenu(group string) *Menu {
	menu := &Menu{Title: group}
	for _, def := range core.ByGroup(group) {
		key := def.Info.Key
		menu.Items = append(menu.Items, MenuItem{
			Label: def.Info.Label,
			Action: func() tea.Cmd {
				return func() tea.Msg { return openScreenMsg{key: key} }
			},
		})
	}
	menu.Items = append(menu.Items, MenuItem{Label: "Back"})
	return menu
}

func loadAdminMenu(reset func(context.Context) error) *Menu {
	return &Menu{
		Title: "Admin",
		Items: []MenuItem{
			{Label: "Reset demo data", Action: func() tea.Cmd {
				return tea.Sequence(
					func() tea.Msg { return statusMsg("Resetting demo data...") },
					resetCmd(reset),
				)
			}},
			{Label: "Back"},
		},
	}
}

func resetCmd(reset func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := reset(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return doneMsg("Demo data reset")
	}
}
