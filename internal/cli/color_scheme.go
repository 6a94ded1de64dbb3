package cli

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/exp/charmtone"
)

// ColorScheme is the fang color scheme for kbatch help and error output.
func ColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	cs := fang.DefaultColorScheme(c)
	cs.Title = charmtone.Malibu
	cs.Program = c(charmtone.Charple, charmtone.Malibu)
	cs.Command = c(charmtone.Cherry, charmtone.Coral)
	cs.QuotedString = c(charmtone.Squid, charmtone.Butter)

	return cs
}
