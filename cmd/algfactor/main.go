// cmd/algfactor is a small command-line driver over the algebra and
// factoring core: it reads one or two covers as one cube per line and
// runs a sum/diff/product/algdiv, a kernel enumeration, one of the
// three factorers, or starts the factorsvc WebSocket endpoint. Argument
// handling follows the teacher's hand-rolled dispatch (cmd/sentra/main.go)
// rather than a flag-parsing library, since the teacher never reaches
// for one either.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/expr"
	"algcore/internal/factor"
	"algcore/internal/factorsvc"
	"algcore/internal/kernel"
	"algcore/internal/kernelstore"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"q": "quick",
	"g": "good",
	"b": "bool",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	var err error
	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("algfactor", version)
	case "quick", "good", "bool":
		err = runFactor(cmd, args[1:])
	case "sum", "diff", "product", "algdiv":
		err = runAlgebra(cmd, args[1:])
	case "kernels":
		err = runKernels(args[1:])
	case "serve":
		err = runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "algfactor: unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "algfactor:", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`algfactor <command> [flags] [file...]

Commands:
  quick|good|bool --vars N [file]        factor a cover
  sum|diff|product|algdiv --vars N a b   run a binary cover algebra op
  kernels --vars N [file]                enumerate kernel/co-kernel pairs
  serve --addr HOST:PORT [--store DSN]   start the factorsvc WebSocket endpoint

Covers are read as one cube per line (tokens "xN" or "!xN", whitespace
separated), from a file argument or stdin. --store DSN (driver:connstring,
one of sqlite3:/postgres:/mysql:) attaches a kernelstore cache to serve.

Aliases: q=quick g=good b=bool`)
}

func runFactor(strategy string, args []string) error {
	n, rest, err := parseVarsFlag(args)
	if err != nil {
		return err
	}

	c, err := readCoverArg(n, rest, 0)
	if err != nil {
		return err
	}

	start := time.Now()
	var e *expr.Expr
	switch strategy {
	case "quick":
		e, err = factor.QuickFactor(c)
	case "good":
		e, err = factor.GoodFactor(c)
	case "bool":
		e, err = factor.BoolFactor(c)
	}
	if err != nil {
		return fmt.Errorf("factor: %w", err)
	}
	elapsed := time.Since(start)

	printResult(c, e, elapsed)
	return nil
}

// runAlgebra handles sum/diff/product/algdiv, each of which takes
// exactly two cover files (stdin is not read) and prints the resulting
// cover.
func runAlgebra(op string, args []string) error {
	n, rest, err := parseVarsFlag(args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("%s requires two cover files", op)
	}

	a, err := readCoverFile(n, rest[0])
	if err != nil {
		return err
	}
	b, err := readCoverFile(n, rest[1])
	if err != nil {
		return err
	}

	var result *cover.Cover
	switch op {
	case "sum":
		result, err = cover.Sum(a, b)
	case "diff":
		result, err = cover.Diff(a, b)
	case "product":
		result, err = cover.Product(a, b)
	case "algdiv":
		result, err = cover.AlgDiv(a, b)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return result.Print(os.Stdout, nil)
}

func runKernels(args []string) error {
	n, rest, err := parseVarsFlag(args)
	if err != nil {
		return err
	}
	c, err := readCoverArg(n, rest, 0)
	if err != nil {
		return err
	}

	pairs, err := kernel.AllKernels(c)
	if err != nil {
		return fmt.Errorf("kernels: %w", err)
	}
	for i, p := range pairs {
		fmt.Printf("kernel %d: ", i)
		if err := p.Kernel.Print(os.Stdout, nil); err != nil {
			return err
		}
		fmt.Print("  co-kernels: ")
		if err := p.CoKernels.Print(os.Stdout, nil); err != nil {
			return err
		}
	}
	return nil
}

// runServe starts the factorsvc WebSocket endpoint on --addr, wired to
// a kernelstore cache when --store DSN is given.
func runServe(args []string) error {
	addr := ":8910"
	storeDSN := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			if i+1 >= len(args) {
				return fmt.Errorf("--addr requires a value")
			}
			addr = args[i+1]
			i++
		case "--store":
			if i+1 >= len(args) {
				return fmt.Errorf("--store requires a value")
			}
			storeDSN = args[i+1]
			i++
		default:
			return fmt.Errorf("serve: unknown flag %q", args[i])
		}
	}

	var opts []factorsvc.Option
	if storeDSN != "" {
		st, err := kernelstore.Open(storeDSN)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		defer st.Close()
		opts = append(opts, factorsvc.WithStore(st))
	}

	srv := factorsvc.NewServer(opts...)
	mux := http.NewServeMux()
	mux.HandleFunc("/factor", srv.Handler)

	fmt.Printf("algfactor: serving factorsvc on %s/factor\n", addr)
	return http.ListenAndServe(addr, mux)
}

func parseVarsFlag(args []string) (n int, rest []string, err error) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--vars" || args[i] == "-n" {
			if i+1 >= len(args) {
				return 0, nil, fmt.Errorf("%s requires a value", args[i])
			}
			n, err = strconv.Atoi(args[i+1])
			if err != nil {
				return 0, nil, fmt.Errorf("invalid variable count %q: %w", args[i+1], err)
			}
			rest = append(rest, args[:i]...)
			rest = append(rest, args[i+2:]...)
			return n, rest, nil
		}
	}
	return 0, nil, fmt.Errorf("missing required --vars N")
}

// readCoverArg reads the cover named by rest[idx], or stdin if rest has
// no such argument.
func readCoverArg(n int, rest []string, idx int) (*cover.Cover, error) {
	r := os.Stdin
	if idx < len(rest) {
		f, err := os.Open(rest[idx])
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", rest[idx], err)
		}
		defer f.Close()
		r = f
	}
	cubes, err := readCubes(r)
	if err != nil {
		return nil, err
	}
	c, err := cover.New(n, cubes)
	if err != nil {
		return nil, fmt.Errorf("build cover: %w", err)
	}
	return c, nil
}

func readCoverFile(n int, path string) (*cover.Cover, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	cubes, err := readCubes(f)
	if err != nil {
		return nil, err
	}
	c, err := cover.New(n, cubes)
	if err != nil {
		return nil, fmt.Errorf("build cover: %w", err)
	}
	return c, nil
}

func readCubes(r *os.File) ([][]bitpack.Literal, error) {
	var cubes [][]bitpack.Literal
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var lits []bitpack.Literal
		for _, tok := range strings.Fields(line) {
			lit, err := parseLiteral(tok)
			if err != nil {
				return nil, err
			}
			lits = append(lits, lit)
		}
		cubes = append(cubes, lits)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cubes: %w", err)
	}
	return cubes, nil
}

func parseLiteral(tok string) (bitpack.Literal, error) {
	neg := false
	if strings.HasPrefix(tok, "!") {
		neg = true
		tok = tok[1:]
	}
	if !strings.HasPrefix(tok, "x") {
		return bitpack.Literal{}, fmt.Errorf("malformed literal %q, want xN or !xN", tok)
	}
	v, err := strconv.Atoi(tok[1:])
	if err != nil {
		return bitpack.Literal{}, fmt.Errorf("malformed literal %q: %w", tok, err)
	}
	return bitpack.Literal{Var: bitpack.Var(v), Negated: neg}, nil
}

func printResult(c *cover.Cover, e *expr.Expr, elapsed time.Duration) {
	colored := isatty.IsTerminal(os.Stdout.Fd())
	header := "factored expression"
	if colored {
		header = "\033[1m" + header + "\033[0m"
	}
	fmt.Printf("%s: %s\n", header, e.String())
	fmt.Printf("literals: %s flat, %s factored\n",
		humanize.Comma(int64(c.LiteralNum())), humanize.Comma(int64(e.LiteralCount())))
	fmt.Printf("elapsed: %s\n", elapsed)
}
