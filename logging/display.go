package logging

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sysyc/common"
	"sysyc/report"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains all the display functions for the different kinds of
// messages that can be logged.

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", errors.New(ce.Message))
}

func (cw *ConfigWarning) display() {
	PrintWarningMessage(cw.Kind+" Warning", cw.Message)
}

func (cm *CompileMessage) display() {
	cm.displayBanner()

	if cm.Span == nil {
		fmt.Println(cm.Message)
	} else {
		fmt.Printf("%d:%d: %s\n", cm.Span.StartLine+1, cm.Span.StartCol+1, cm.Message)
		displaySourceText(cm.Context.FilePath, cm.Span)
	}
}

// displayBanner displays the banner on top of all compilation messages
func (cm *CompileMessage) displayBanner() {
	fmt.Print("\n-- ")
	kindStr := cm.Kind.String()
	kindLen := len(kindStr)
	if cm.isError() {
		ErrorStyleBG.Print(kindStr + " Error")
		kindLen += 6
	} else {
		WarnStyleBG.Print(kindStr + " Warning")
		kindLen += 8
	}

	fmt.Print(" ")

	fileName := filepath.Base(cm.Context.FilePath)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - kindLen - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displaySourceText displays the lines covered by a text span with line numbers
// and underlines the span with carets.
func displaySourceText(absPath string, span *report.TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// collect all the source lines containing the given source text
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if len(lines) == 0 {
		return
	}

	// calculate the minimum line indentation
	minIndent := math.MaxInt32
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	fmt.Println()
	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// the first line is underlined from the start column, every other
		// line from its first non-indent character
		prefix := 0
		if i == 0 {
			prefix = span.StartCol - minIndent
		}

		// the last line is underlined up to the end column, every other line
		// to its end
		end := len(line)
		if i == len(lines)-1 && span.EndCol < end {
			end = span.EndCol
		}

		count := end - minIndent - prefix
		if prefix < 0 {
			prefix = 0
		}
		if count < 1 {
			count = 1
		}

		fmt.Print(strings.Repeat(" ", prefix))
		ErrorColorFG.Println(strings.Repeat("^", count))
	}

	fmt.Println()
}

const fatalErrorPostlude = `
This is likely a bug in the compiler.`

func displayFatalError(msg string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

// -----------------------------------------------------------------------------

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// displayBeginPhase displays the beginning of a compilation phase
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayCompilationFinished displays a compilation finished message
func displayCompilationFinished(success bool, errorCount, warningCount int, outputPath string) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}

	if success && outputPath != "" {
		fmt.Print("sysyc ")
		InfoColorFG.Print("v" + common.Version)
		fmt.Println(" -- wrote " + outputPath)
	}
}
