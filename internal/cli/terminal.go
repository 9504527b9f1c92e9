// Package cli provides an interactive prompt for querying an index by hand.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/autocomplete"
	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const help = `commands:
  <prefix>              top matches for prefix
  :top <prefix>         heaviest match only
  :weight <word>        stored weight of word
  :add <word> <weight>  insert or re-weight a word
  :limit <n>            change the number of matches
  :help                 this text`

// InputHandler reads prefixes and commands line by line and prints results.
type InputHandler struct {
	completer       autocomplete.Autocompletor
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool // bypasses input filtering
	prompt          bool
	out             io.Writer
	log             *log.Logger
}

// NewInputHandler creates a new CLI input handler writing to out.
func NewInputHandler(completer autocomplete.Autocompletor, minLength, maxLength, limit int, noFilter bool, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		prompt:          true,
		out:             out,
		log:             logger.New("cli"),
	}
}

// SetPrompt turns the banner and "> " prompt on or off. Off suits piped input.
func (h *InputHandler) SetPrompt(on bool) {
	h.prompt = on
}

// Start runs the prompt until in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	if h.prompt {
		fmt.Fprintln(h.out, "type a prefix and press enter (:help for commands, Ctrl+D to exit)")
	}
	scanner := bufio.NewScanner(in)
	for {
		if h.prompt {
			fmt.Fprint(h.out, "> ")
		}
		if !scanner.Scan() {
			if h.prompt {
				fmt.Fprintln(h.out)
			}
			return scanner.Err()
		}
		line := dictionary.Normalize(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Fprintln(h.out, help)
	case ":top":
		if len(fields) != 2 {
			h.log.Error("usage: :top <prefix>")
			return
		}
		word, err := h.completer.TopMatch(fields[1])
		if err != nil {
			h.log.Error("top", "err", err)
			return
		}
		if word == "" {
			h.log.Warnf("No match for prefix: '%s'", fields[1])
			return
		}
		h.printWord(1, word)
	case ":weight":
		if len(fields) != 2 {
			h.log.Error("usage: :weight <word>")
			return
		}
		weight, err := h.completer.WeightOf(fields[1])
		if err != nil {
			h.log.Error("weight", "err", err)
			return
		}
		fmt.Fprintf(h.out, "%s %s\n", wordStyle.Render(fields[1]), weightStyle.Render(formatWeight(weight)))
	case ":add":
		h.handleAdd(fields[1:])
	case ":limit":
		n, err := strconv.Atoi(strings.Join(fields[1:], ""))
		if err != nil || n < 1 {
			h.log.Error("usage: :limit <positive number>")
			return
		}
		h.suggestLimit = n
		fmt.Fprintf(h.out, "limit set to %d\n", n)
	default:
		h.log.Errorf("Unknown command %s, try :help", fields[0])
	}
}

func (h *InputHandler) handleAdd(args []string) {
	if len(args) != 2 {
		h.log.Error("usage: :add <word> <weight>")
		return
	}
	u, ok := h.completer.(autocomplete.Updater)
	if !ok {
		h.log.Error("This index does not support adding words")
		return
	}
	weight, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		h.log.Error("bad weight", "err", err)
		return
	}
	if err := u.Add(args[0], weight); err != nil {
		h.log.Error("add", "err", err)
		return
	}
	fmt.Fprintf(h.out, "added %s\n", wordStyle.Render(args[0]))
}

// handleInput looks up the top matches for prefix.
func (h *InputHandler) handleInput(prefix string) {
	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if n > h.maxPrefixLength {
		h.log.Errorf("Prefix too long: %s", prefix)
		return
	}
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.log.Warnf("No suggestions for prefix: '%s' (filtered out)", prefix)
		return
	}

	start := time.Now()
	words, err := h.completer.TopMatches(prefix, h.suggestLimit)
	if err != nil {
		h.log.Error("completion failed", "err", err)
		return
	}
	h.log.Debugf("Took %v for prefix '%s'", time.Since(start), prefix)

	if len(words) == 0 {
		h.log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}
	fmt.Fprintf(h.out, "Found %d suggestions for prefix '%s':\n", len(words), prefix)
	for i, w := range words {
		h.printWord(i+1, w)
	}
}

func (h *InputHandler) printWord(rank int, word string) {
	weight, _ := h.completer.WeightOf(word)
	fmt.Fprintf(h.out, "%2d. %-40s %s\n", rank, wordStyle.Render(word), weightStyle.Render(formatWeight(weight)))
}

// formatWeight groups the integer part of w with commas.
func formatWeight(w float64) string {
	if math.IsInf(w, 0) {
		return strconv.FormatFloat(w, 'g', -1, 64)
	}
	return humanize.Commaf(w)
}
