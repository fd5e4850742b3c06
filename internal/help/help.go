// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"namecat/internal/formatters"
	"namecat/internal/phonetic"

	"github.com/fatih/color"
)

// TopicInfo contains the help text for one topic
type TopicInfo struct {
	Name             string   // Name of the topic (e.g., "declared")
	ShortDescription string   // Short description for the topics list
	Description      string   // Detailed description
	Items            []Item   // Syntax elements or choices, in display order
	Examples         []string // Usage examples
}

// Item is one described element of a topic
type Item struct {
	Term        string
	Description string
}

// Provider defines the interface for help content providers
type Provider interface {
	GetTopicInfo() TopicInfo
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() TopicInfo

// GetTopicInfo calls f
func (f ProviderFunc) GetTopicInfo() TopicInfo {
	return f()
}

// System manages help content for the application
type System struct {
	out       io.Writer
	providers map[string]Provider
	colors    map[string]*color.Color
}

// NewSystem creates a help system writing to out, with the built-in topics
// registered
func NewSystem(out io.Writer, noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	h := &System{
		out:       out,
		providers: make(map[string]Provider),
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
	h.RegisterProvider(ProviderFunc(declaredTopic))
	h.RegisterProvider(ProviderFunc(phoneticTopic))
	h.RegisterProvider(ProviderFunc(formatsTopic))
	h.RegisterProvider(ProviderFunc(configTopic))
	return h
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetTopicInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// Topics returns the registered topic names, sorted
func (h *System) Topics() []string {
	names := make([]string, 0, len(h.providers))
	for name := range h.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "namecat - Name Cataloging and Synonym Resolution")
	fmt.Fprintln(h.out, "================================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  namecat --file <specimens.csv|names.txt> [options]")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tCSV with name columns, or text with one column value per line (required)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles")
	fmt.Fprintf(w, "  --format\t<format>\tOutput format: %s (default: text)\n", strings.Join(formatters.List(), ", "))
	fmt.Fprintln(w, "  --output\t<path>\tPath to output file (if not specified, output to stdout)")
	fmt.Fprintln(w, "  --declared\t<path>\tDeclared names file")
	fmt.Fprintln(w, "  --reference\t<path>\tReference names CSV (lastName, firstName, middleInitial)")
	fmt.Fprintln(w, "  --unify-by-sound\t\tRewrite similar-sounding last names to their dominant spelling")
	fmt.Fprintln(w, "  --merge-with-reference\t\tTreat every declared and reference name as a potential primary")
	fmt.Fprintln(w, "  --verbose\t\tInclude occurrence counts and statistics")
	fmt.Fprintln(w, "  --debug\t\tTrace each stage of the run to stderr")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help topics\t\tList all help topics")
	fmt.Fprintln(w, "  --help <topic>\t\tShow detailed help for a topic")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "    namecat --file specimens.csv --declared declared-names.txt")
	h.colors["example"].Fprintln(h.out, "    namecat --file specimens.csv --profile agents --reference reference-names.csv")
	h.colors["example"].Fprintln(h.out, "    namecat --file names.txt --format json --output names.json")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: namecat.yaml or .namecat.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config: $XDG_CONFIG_HOME/namecat/config.yaml or ~/.namecat.yaml")
	fmt.Fprintln(h.out, "  Environment: NAMECAT_CONFIG_DIR - Override config directory")
}

// ShowTopicsHelp lists the help topics
func (h *System) ShowTopicsHelp() {
	h.colors["title"].Fprintln(h.out, "Help Topics")
	fmt.Fprintln(h.out, "===========")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  TOPIC\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  -----\t-----------")
	for _, name := range h.Topics() {
		info := h.providers[name].GetTopicInfo()
		fmt.Fprint(w, "  ")
		h.colors["emphasis"].Fprint(w, info.Name)
		fmt.Fprintf(w, "\t%s\n", info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a topic, use:")
	h.colors["example"].Fprintln(h.out, "  namecat --help <topic>")
}

// ShowTopicHelp displays detailed help for a topic. It reports false when
// the topic does not exist.
func (h *System) ShowTopicHelp(topic string) bool {
	provider, exists := h.providers[strings.ToLower(topic)]
	if !exists {
		h.colors["negative"].Fprintf(h.out, "Error: Help topic '%s' not found.\n", topic)
		fmt.Fprintln(h.out, "Use 'namecat --help topics' to see a list of help topics.")
		return false
	}

	info := provider.GetTopicInfo()
	title := strings.ToUpper(info.Name[:1]) + info.Name[1:]
	h.colors["title"].Fprintln(h.out, title)
	fmt.Fprintln(h.out, strings.Repeat("=", len(title)))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.Description)
	fmt.Fprintln(h.out)

	if len(info.Items) > 0 {
		w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
		for _, item := range info.Items {
			fmt.Fprint(w, "  ")
			h.colors["item"].Fprint(w, item.Term)
			fmt.Fprintf(w, "\t%s\n", item.Description)
		}
		w.Flush()
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}
	return true
}

func declaredTopic() TopicInfo {
	return TopicInfo{
		Name:             "declared",
		ShortDescription: "Syntax of the declared names file",
		Description: "Each line names a primary in last-name-first form. The lines that follow\n" +
			"it declare its variants and the misspellings to correct into it.",
		Items: []Item{
			{"Last, Initials, Suffix", "A primary name. Initials and suffix are optional"},
			{"- Last, Initials", "A variant consolidated under the preceding primary"},
			{"/Last, Initials", "A misspelling corrected to the preceding primary (may be indented)"},
			{"*", "Wildcard matching any last name, initials or suffix"},
			{"-", "In the suffix position, the explicit absence of a suffix"},
			{"!", "Trailing mark: the name is confirmed valid"},
			{"!!", "Trailing mark: valid except for the non-last-name portion"},
			{"#", "Comment line"},
		},
		Examples: []string{
			"Reddell, James R.",
			"- Reddell, J.",
			"    /Redell, James R.",
			"Smith, *, *",
			"    /Smitth, *",
		},
	}
}

var primaryCodeNames = map[string]string{
	string(phonetic.Soundex): "Soundex",
	string(phonetic.NYSIIS):  "NYSIIS",
	string(phonetic.Phonex):  "Phonex",
}

func phoneticTopic() TopicInfo {
	info := TopicInfo{
		Name:             "phonetic",
		ShortDescription: "Phonetic algorithms used to unify last names",
		Description: "With --unify-by-sound, last names with the same phonetic code are rewritten\n" +
			"to their dominant spelling unless the declared names distinguish them.\n" +
			"Select the algorithm with phonetic_algorithm in the configuration file.",
		Examples: []string{"namecat --file specimens.csv --unify-by-sound --declared declared-names.txt"},
	}
	for _, name := range phonetic.Algorithms() {
		description := primaryCodeNames[name] + " code, followed by the Double Metaphone code"
		if name == string(phonetic.DefaultAlgorithm) {
			description += " (default)"
		}
		info.Items = append(info.Items, Item{Term: name, Description: description})
	}
	return info
}

func formatsTopic() TopicInfo {
	info := TopicInfo{
		Name:             "formats",
		ShortDescription: "Output formats",
		Description:      "The report lists each primary name with its variants and the raw source text they were parsed from.",
		Examples:         []string{"namecat --file specimens.csv --format csv --output names.csv"},
	}
	for _, format := range formatters.GetSupportedFormats() {
		info.Items = append(info.Items, Item{Term: format.Name, Description: format.Description})
	}
	return info
}

func configTopic() TopicInfo {
	return TopicInfo{
		Name:             "config",
		ShortDescription: "Configuration file settings",
		Description: "Settings are read from the defaults block, then the selected profile, then\n" +
			"the flags given on the command line.",
		Items: []Item{
			{"defaults", "format, verbose, debug, no_color, unify_by_sound, merge_with_reference"},
			{"", "declared_names_file, reference_names_file, phonetic_algorithm"},
			{"", "name_columns, determiner_columns"},
			{"column_corrections", "from/to replacements applied to whole column values"},
			{"name_corrections", "from/to replacements applied to each name; must preserve length"},
			{"profiles", "named settings blocks with a description"},
		},
		Examples: []string{"namecat --list-profiles --config namecat.yaml"},
	}
}
