package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printHeader(title string, count int) {
	fmt.Println(headerStyle.Render(title) + " " + dimStyle.Render(fmt.Sprintf("(%d)", count)))
}

func printRow(id, name, extra string) {
	line := idStyle.Render(id) + " " + name
	if extra != "" {
		line += " " + dimStyle.Render(extra)
	}
	fmt.Println(line)
}
