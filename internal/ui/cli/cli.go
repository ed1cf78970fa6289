// Package cli implements a command-line UI to inspect and manipulate a board: place and move
// pieces and list their legal moves.
//
// It doesn't sequence turns: any piece can be placed or moved at any time, as long as the
// move is legal.
package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/hiveboard/internal/generics"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

const (
	LinesPerRow    = 4
	CharsPerColumn = 9
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

// terminalWidth returns the width of the terminal, if w is one, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((terminalWidth(ui.out)-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(ui.out)
			continue
		}
		_, _ = fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

func centerString(s string, fit int) string {
	width := displayWidth(s)
	if width >= fit {
		return s
	}
	marginLeft := (fit - width) / 2
	marginRight := fit - width - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

// UI reads commands and prints boards.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer

	styles [NumColors]lipgloss.Style
}

var (
	commandParser = regexp.MustCompile(`^\s*(\w+)\s*(.*?)\s*$`)
	targetParser  = regexp.MustCompile(`^(\w+)[\s,]+(-?\d+)[\s,]+(-?\d+)$`)

	// errQuit is returned by Execute when the user asks to leave.
	errQuit = errors.New("quit")
)

// New creates a UI reading from the standard input and printing to the standard output.
func New(color bool, clearScreen bool) *UI {
	return NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
}

// NewWithIO creates a UI reading commands from in and printing to out.
func NewWithIO(in io.Reader, out io.Writer, color bool, clearScreen bool) *UI {
	ui := &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
	}
	ui.styles[ColorWhite] = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))
	ui.styles[ColorBlack] = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	return ui
}

// Run reads and executes commands until the input ends or the user quits.
func (ui *UI) Run(board *Board) error {
	ui.Print(board)
	for {
		_, _ = fmt.Fprint(ui.out, "> ")
		text, readErr := ui.reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return errors.Wrap(readErr, "failed to read command")
		}
		err := ui.Execute(board, text)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			// Rule violations are only reported back to the user.
			_, _ = fmt.Fprintf(ui.out, "    * %v\n", err)
		}
		if readErr != nil {
			// End of input.
			_, _ = fmt.Fprintln(ui.out)
			return nil
		}
	}
}

// Execute runs one command line on the board. It returns the error describing why a command
// failed, e.g. an illegal move.
func (ui *UI) Execute(board *Board, line string) error {
	matches := commandParser.FindStringSubmatch(line)
	if matches == nil {
		// Empty line.
		return nil
	}
	command, args := strings.ToLower(matches[1]), matches[2]
	klog.V(2).Infof("Command %q, args %q", command, args)
	switch command {
	case "quit", "exit", "q":
		return errQuit
	case "help", "h":
		ui.PrintHelp()
	case "board", "b":
		ui.Print(board)
	case "pieces", "p":
		ui.PrintPieces(board)
	case "place":
		piece, pos, err := parseTarget(board, args)
		if err != nil {
			return err
		}
		if err = board.Place(piece.ID, pos, board.ColorRuleExempt()); err != nil {
			return errors.WithMessage(err, "illegal placement")
		}
		ui.Print(board)
	case "move", "m":
		piece, pos, err := parseTarget(board, args)
		if err != nil {
			return err
		}
		if err = board.Move(piece.ID, pos); err != nil {
			return errors.WithMessage(err, "illegal move")
		}
		ui.Print(board)
	case "moves":
		piece, found := board.Registry().Lookup(strings.TrimSpace(args))
		if !found {
			return errors.Errorf("unknown piece %q, see the list of pieces with \"pieces\"", args)
		}
		ui.printMoves(board, piece)
	default:
		return errors.Errorf("unknown command %q, type \"help\" for the list of commands", command)
	}
	return nil
}

// parseTarget parses "<piece name> <q> <r>".
func parseTarget(board *Board, args string) (piece Piece, pos Pos, err error) {
	matches := targetParser.FindStringSubmatch(args)
	if matches == nil {
		err = errors.Errorf("failed to parse %q, expected \"<piece> <q> <r>\"", args)
		return
	}
	var found bool
	piece, found = board.Registry().Lookup(matches[1])
	if !found {
		err = errors.Errorf("unknown piece %q, see the list of pieces with \"pieces\"", matches[1])
		return
	}
	for ii := range 2 {
		pos[ii], err = strconv.Atoi(matches[2+ii])
		if err != nil {
			err = errors.Wrapf(err, "failed to parse location %q", matches[2+ii])
			return
		}
	}
	return
}

// PrintHelp lists the commands.
func (ui *UI) PrintHelp() {
	_, _ = fmt.Fprint(ui.out, `Commands:
  place <piece> <q> <r>   Place a piece from outside the board, e.g. "place wQ 0 0".
  move <piece> <q> <r>    Move a piece already on the board.
  moves <piece>           List the legal moves of a piece.
  pieces                  List the pieces off-board and the pieces that can move.
  board                   Print the board.
  quit                    Exit.
`)
}

// Print the board, followed by the queens' status.
func (ui *UI) Print(board *Board) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033c")
	}
	_, _ = fmt.Fprintln(ui.out)
	ui.PrintBoard(board)
	for _, color := range Colors {
		if board.QueenSurrounded(color) {
			_, _ = fmt.Fprintf(ui.out, "    %s queen is surrounded!\n", ui.colorName(color))
		}
	}
	if !board.IsOneHive() {
		klog.Errorf("Board is not one hive, this should never happen!")
	}
}

func (ui *UI) colorName(color Color) string {
	name := strings.ToUpper(color.String())
	if !ui.color {
		return name
	}
	return ui.styles[color].Render(name)
}

// PrintPieces prints, for each color, the pieces not yet placed and the legal moves of the
// pieces that can move.
func (ui *UI) PrintPieces(board *Board) {
	for _, color := range Colors {
		var offBoard []string
		for piece := range board.Registry().ByColor(color) {
			if !board.IsPlaced(piece.ID) {
				offBoard = append(offBoard, piece.Name)
			}
		}
		_, _ = fmt.Fprintf(ui.out, "%s off-board: [%s]\n", ui.colorName(color), strings.Join(offBoard, ", "))

		allMoves := board.AllLegalMoves(color)
		names := make([]string, 0, len(allMoves))
		byName := make(map[string][]Pos, len(allMoves))
		for id, poss := range allMoves {
			name := board.Piece(id).Name
			names = append(names, name)
			byName[name] = poss
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = fmt.Fprintf(ui.out, "  - %s can move to [%s]\n", name, strings.Join(PosStrings(byName[name]), ", "))
		}
	}
}

func (ui *UI) printMoves(board *Board, piece Piece) {
	if !board.IsPlaced(piece.ID) {
		_, _ = fmt.Fprintf(ui.out, "%s is not on the board\n", piece)
		return
	}
	moves := board.LegalMoves(piece.ID)
	if len(moves) == 0 {
		_, _ = fmt.Fprintf(ui.out, "%s can't move\n", piece)
		return
	}
	_, _ = fmt.Fprintf(ui.out, "%s can move to [%s]\n", piece, strings.Join(PosStrings(moves), ", "))
}

// PrintBoard draws the hexagons of the board, one position per hexagon, with their axial
// coordinates.
func (ui *UI) PrintBoard(board *Board) {
	var buf bytes.Buffer
	if board.NumOccupied() == 0 {
		ui.printCentered("(empty board)\n")
		return
	}
	minX, maxX, minY, maxY := board.DisplayUsedLimits()
	minX--
	maxX++
	minY--
	maxY++
	// Loop over board rows.
	for y := minY; y <= maxY; y++ {
		// Loop over line within a row.
		for line := range LinesPerRow {
			ui.printBoardLine(&buf, board, y, line, minX, maxX)
		}
	}
	ui.printCentered(buf.String())
}

func (ui *UI) printBoardLine(w io.Writer, board *Board, y, line, minX, maxX int) {
	for x := minX; x <= maxX+1; x++ {
		adjY := y
		adjLine := line
		if x%2 != 0 {
			adjLine = (line - LinesPerRow/2 + LinesPerRow) % LinesPerRow
			if adjLine >= 2 {
				adjY -= 1
			}
		}
		// The display coordinate (the X,Y in the screen) doesn't exactly map to the
		// state position (the Q,R of the hexagonal positions).
		pos := Pos{x, adjY}.FromDisplayPos()
		lastX := x == maxX+1
		ui.printStrip(w, board, pos, adjLine, lastX)
	}
	_, _ = fmt.Fprintln(w)
}

func (ui *UI) printStrip(w io.Writer, board *Board, pos Pos, line int, lastX bool) {
	switch line {
	case 0:
		_, _ = fmt.Fprint(w, " /")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat(" ", CharsPerColumn-2))
		}
	case 1:
		_, _ = fmt.Fprint(w, "/")
		if !lastX {
			coord := fmt.Sprintf("%d,%d", pos.Q(), pos.R())
			_, _ = fmt.Fprint(w, " "+centerString(coord, CharsPerColumn-2))
		}
	case 2:
		_, _ = fmt.Fprint(w, "\\")
		if !lastX {
			_, _ = fmt.Fprint(w, " "+centerString(ui.stackLabel(board, pos), CharsPerColumn-2))
		}
	case 3:
		_, _ = fmt.Fprint(w, " \\")
		if !lastX {
			_, _ = fmt.Fprint(w, strings.Repeat("_", CharsPerColumn-2))
		}
	}
}

// stackLabel returns the name of the piece at the top of the stack, followed by "+N" if there
// are N pieces under it.
func (ui *UI) stackLabel(board *Board, pos Pos) string {
	stack := board.StackAt(pos)
	if !stack.HasPiece() {
		return ""
	}
	piece := board.Piece(stack.Top())
	label := piece.Name
	if height := stack.Height(); height > 1 {
		label = fmt.Sprintf("%s+%d", label, height-1)
	}
	if !ui.color {
		return label
	}
	style := ui.styles[piece.Color]
	if piece.Type == QUEEN {
		style = style.Bold(true)
	}
	return style.Render(label)
}

// StackString lists the pieces of the stack at pos, bottom first, e.g. "wA1,bB2".
func StackString(board *Board, pos Pos) string {
	return strings.Join(generics.SliceMap(board.StackAt(pos).BottomUp(), func(id PieceID) string {
		return board.Piece(id).Name
	}), ",")
}
