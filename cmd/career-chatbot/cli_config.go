package main

import (
	"flag"
	"io"
	"strings"

	"github.com/ryan-griego/career-chatbot-go/pkg/config"
)

// cliFlags holds command-line overrides. Empty or false values leave the
// environment-derived settings unchanged.
type cliFlags struct {
	iface    string
	addr     string
	profile  string
	maxTurns int
	verbose  bool

	listLeads bool
	leadLimit int
}

// parseFlags parses args, writing usage and parse errors to output. -h and
// -help return flag.ErrHelp after printing usage.
func parseFlags(args []string, output io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("career-chatbot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.iface, "interface", "", "User interface: web or terminal (overrides CHATBOT_INTERFACE)")
	fs.StringVar(&f.addr, "addr", "", "Web listen address (overrides CHATBOT_LISTEN_ADDR)")
	fs.StringVar(&f.profile, "profile", "", "Profile YAML path (overrides CHATBOT_PROFILE_PATH)")
	fs.IntVar(&f.maxTurns, "max_turns", 0, "Max tool-call turns per reply (overrides CHATBOT_MAX_TURNS)")
	fs.BoolVar(&f.verbose, "verbose", false, "Verbose debug logging")
	fs.BoolVar(&f.listLeads, "list_leads", false, "Print captured contacts and unknown questions as JSON and exit")
	fs.IntVar(&f.leadLimit, "lead_limit", 50, "Max records per list for -list_leads (0 for all)")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	return f, nil
}

func (f cliFlags) apply(s config.Settings) config.Settings {
	if v := strings.TrimSpace(f.iface); v != "" {
		s.Interface = v
	}
	if v := strings.TrimSpace(f.addr); v != "" {
		s.ListenAddr = v
	}
	if v := strings.TrimSpace(f.profile); v != "" {
		s.ProfilePath = v
	}
	if f.maxTurns > 0 {
		s.MaxTurns = f.maxTurns
	}
	if f.verbose {
		s.Verbose = true
	}
	return config.Normalize(s)
}
