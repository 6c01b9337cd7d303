package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/nnaakkaaii/alpha2048/internal/config"
	"github.com/nnaakkaaii/alpha2048/internal/domain"
)

// LineReader は1行ずつ入力を返す（readline.Instanceが満たす）
type LineReader interface {
	Readline() (string, error)
}

var errQuit = errors.New("quit")

// Analyzer は任意の盤面を入力して最善手を調べる対話シェル
type Analyzer struct {
	w      io.Writer
	cfg    *config.Config
	solver *domain.Solver
	board  *domain.Board
}

// NewAnalyzer は新しいAnalyzerを生成する
func NewAnalyzer(w io.Writer, cfg *config.Config) (*Analyzer, error) {
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	return &Analyzer{w: w, cfg: cfg, solver: solver}, nil
}

func (a *Analyzer) usage() {
	io.WriteString(a.w, "commands:\n")
	io.WriteString(a.w, "board <16 numbers> - set the board, row by row (0 for empty)\n")
	io.WriteString(a.w, "show - print the current board\n")
	io.WriteString(a.w, "best - analyze the current board and recommend a move\n")
	io.WriteString(a.w, "move <up|down|left|right> - slide the board without spawning\n")
	io.WriteString(a.w, "spawn <row> <col> <2|4> - place a tile\n")
	io.WriteString(a.w, "depth <n> - set the search depth\n")
	io.WriteString(a.w, "policy <expectation|worst> - set the spawn layer policy\n")
	io.WriteString(a.w, "help - show this message\n")
	io.WriteString(a.w, "quit - exit\n")
}

// Loop は入力が終わるかquitされるまでコマンドを実行する
func (a *Analyzer) Loop(ctx context.Context, lr LineReader) error {
	logger := zerolog.Ctx(ctx)
	fmt.Fprintln(a.w, "=== 2048 Interactive Analyzer ===")
	fmt.Fprintln(a.w, "Type 'help' for commands.")

	for {
		line, err := lr.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		err = a.Execute(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(a.w, "Error: %v\n", err)
			logger.Debug().Err(err).Str("line", line).Msg("analyzer-command-failed")
		}
	}
}

// Execute は1行のコマンドを実行する
func (a *Analyzer) Execute(line string) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help":
		a.usage()
	case "quit", "exit":
		return errQuit
	case "board":
		b, err := domain.ParseBoardFields(args)
		if err != nil {
			return err
		}
		a.board = &b
		a.show()
	case "show":
		if err := a.requireBoard(); err != nil {
			return err
		}
		a.show()
	case "best":
		return a.best()
	case "move":
		return a.move(args)
	case "spawn":
		return a.spawn(args)
	case "depth":
		if len(args) != 1 {
			return errors.New("usage: depth <n>")
		}
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 || d > 10 {
			return errors.New("invalid depth (must be 1-10)")
		}
		a.solver = a.solver.WithDepth(d)
		fmt.Fprintf(a.w, "Search depth: %d\n", d)
	case "policy":
		if len(args) != 1 {
			return errors.New("usage: policy <expectation|worst>")
		}
		if _, ok := domain.ChancePolicyByName(args[0]); !ok {
			return fmt.Errorf("unknown policy %q", args[0])
		}
		depth := a.solver.Depth()
		a.cfg.ChancePolicy = args[0]
		s, err := a.cfg.NewSolver()
		if err != nil {
			return err
		}
		a.solver = s.WithDepth(depth)
		fmt.Fprintf(a.w, "Policy: %s\n", args[0])
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return nil
}

func (a *Analyzer) requireBoard() error {
	if a.board == nil {
		return errors.New("no board; use 'board <16 numbers>' first")
	}
	return nil
}

func (a *Analyzer) show() {
	fmt.Fprintln(a.w, "Current board:")
	fmt.Fprint(a.w, a.board)
	if a.board.IsTerminal() {
		fmt.Fprintln(a.w, "Game Over!")
	}
}

func (a *Analyzer) best() error {
	if err := a.requireBoard(); err != nil {
		return err
	}
	fmt.Fprintf(a.w, "Search depth: %d\n", a.solver.Depth())
	analysis, err := a.solver.Analyze(*a.board)
	if errors.Is(err, domain.ErrNoLegalMove) {
		fmt.Fprintln(a.w, "No valid moves available!")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.w, "\n=== Recommended move: %s ===\n", analysis.Best)
	fmt.Fprintln(a.w, "\nMove scores:")
	for _, dir := range domain.Directions {
		score, ok := analysis.Scores[dir]
		if !ok {
			continue
		}
		fmt.Fprintf(a.w, "  %s: %.2f", dir, score)
		if dir == analysis.Best {
			fmt.Fprint(a.w, " <- BEST")
		}
		fmt.Fprintln(a.w)
	}
	fmt.Fprintf(a.w, "Nodes: %d, Cache hits: %d\n", analysis.Nodes, analysis.Hits)
	return nil
}

func (a *Analyzer) move(args []string) error {
	if err := a.requireBoard(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: move <up|down|left|right>")
	}
	dir, err := domain.ParseDirection(args[0])
	if err != nil {
		return err
	}
	out := a.board.Move(dir)
	if !out.Changed {
		fmt.Fprintln(a.w, "Cannot move in that direction.")
		return nil
	}
	a.board = &out.Board
	fmt.Fprintf(a.w, "\nApplied %s (score gained: +%d)\n", dir, out.ScoreDelta)
	fmt.Fprint(a.w, a.board)

	fmt.Fprintln(a.w, "\nEmpty cells:")
	for i, cell := range a.board.EmptyCells() {
		fmt.Fprintf(a.w, "  %d: (%d,%d)\n", i, cell.Row, cell.Col)
	}
	return nil
}

func (a *Analyzer) spawn(args []string) error {
	if err := a.requireBoard(); err != nil {
		return err
	}
	if len(args) != 3 {
		return errors.New("usage: spawn <row> <col> <2|4>")
	}
	var nums [3]int
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		nums[i] = n
	}
	row, col, val := nums[0], nums[1], nums[2]
	if row < 0 || row >= domain.Size || col < 0 || col >= domain.Size {
		return errors.New("invalid position")
	}
	if val != 2 && val != 4 {
		return errors.New("value must be 2 or 4")
	}
	if a.board.Get(row, col) != 0 {
		return fmt.Errorf("cell (%d,%d) is not empty", row, col)
	}
	b := a.board.Set(row, col, val)
	a.board = &b
	a.show()
	return nil
}
