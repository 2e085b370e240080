package tasks

import "github.com/philjestin/buildsass/internal/config"

type style string

const (
	styleDefault    style = ""
	styleCompact    style = "compact"
	styleCompressed style = "compressed"
	styleExpanded   style = "expanded"
)

// output is the target file for a style; compressed builds get a .min suffix.
func (st style) output() string {
	if st == styleCompressed {
		return FileActiveNameBase + ".min.css"
	}
	return FileActiveNameBase + ".css"
}

type syntax struct {
	label      string
	command    string
	flags      []string
	customArgs func(config.Settings) string
}

var (
	scss = syntax{
		label:      "SCSS",
		command:    "SCSS",
		flags:      []string{"--scss"},
		customArgs: func(s config.Settings) string { return s.CustomScssArguments },
	}
	sass = syntax{
		label:      "Sass",
		command:    "sass",
		customArgs: func(s config.Settings) string { return s.CustomSassArguments },
	}
)

type variant struct {
	label   string
	command string
	style   style
	watch   bool
	user    bool
}

// variants lists the menu per syntax, in display order.
var variants = []variant{
	{label: "", command: "compile"},
	{label: " (compact)", command: "compile-compact", style: styleCompact},
	{label: " (compressed)", command: "compile-compressed", style: styleCompressed},
	{label: " (expanded)", command: "compile-expanded", style: styleExpanded},
	{label: " (user)", command: "compile-with-user-settings", user: true},
	{label: "", command: "watch-and-compile", watch: true},
	{label: " (compact)", command: "watch-and-compile-compact", style: styleCompact, watch: true},
	{label: " (compressed)", command: "watch-and-compile-compressed", style: styleCompressed, watch: true},
	{label: " (expanded)", command: "watch-and-compile-expanded", style: styleExpanded, watch: true},
}

func (v variant) args(flags []string) []string {
	args := append([]string{}, flags...)
	if v.style != styleDefault {
		args = append(args, "--style", string(v.style))
	}
	if v.watch {
		return append(args, "--watch", FileActive+":"+v.style.output())
	}
	return append(args, FileActive, v.style.output())
}
