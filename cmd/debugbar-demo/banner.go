package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	bannerTitle = color.New(color.FgCyan, color.Bold)
	bannerKey   = color.New(color.FgYellow)
	bannerURL   = color.New(color.FgGreen, color.Underline)
)

func printBanner(w io.Writer, cfg Config, noColor bool) {
	if noColor {
		for _, c := range []*color.Color{bannerTitle, bannerKey, bannerURL} {
			c.DisableColor()
		}
	}
	base := "http://" + cfg.Listen
	bannerTitle.Fprintln(w, "debug bar demo")
	bannerKey.Fprint(w, "  site      ")
	bannerURL.Fprintln(w, base+"/")
	bannerKey.Fprint(w, "  bar pages ")
	bannerURL.Fprintln(w, base+strings.TrimRight(cfg.Prefix, "/")+"/")
	for _, u := range cfg.Users {
		bannerKey.Fprint(w, "  account   ")
		io.WriteString(w, u.Name+" ("+u.Role+")\n")
	}
}
