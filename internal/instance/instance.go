// Package instance reads challenge instance files and reads and writes
// solution files.
//
// Instance layout:
//
//	nOrders nItems nAisles
//	k item qty item qty ...   (one line per order)
//	k item qty item qty ...   (one line per aisle)
//	lower upper
//
// Solution layout: the number of orders, one order index per line, the
// number of aisles, one aisle index per line.
package instance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bartolsthoorn/wavepick/wave"
)

// maxPrealloc caps capacity reserved from counts declared in a file.
const maxPrealloc = 1 << 16

// lineReader yields non-blank lines split into fields, tracking line numbers
// for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next(what string) ([]string, error) {
	for lr.sc.Scan() {
		lr.line++
		if fields := strings.Fields(lr.sc.Text()); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lr.line+1, err)
	}
	return nil, fmt.Errorf("line %d: unexpected end of input, want %s", lr.line+1, what)
}

func (lr *lineReader) ints(what string, fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %q is not an integer", lr.line, what, f)
		}
		out[i] = v
	}
	return out, nil
}

func (lr *lineReader) exact(what string, n int) ([]int, error) {
	fields, err := lr.next(what)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, fmt.Errorf("line %d: %s: want %d values, got %d", lr.line, what, n, len(fields))
	}
	return lr.ints(what, fields)
}

func (lr *lineReader) quantities(what string) (wave.Quantities, error) {
	fields, err := lr.next(what)
	if err != nil {
		return nil, err
	}
	vals, err := lr.ints(what, fields)
	if err != nil {
		return nil, err
	}
	n := vals[0]
	if n < 0 || len(vals) != 1+2*n {
		return nil, fmt.Errorf("line %d: %s: declares %d items but has %d values", lr.line, what, n, len(vals)-1)
	}
	q := make(wave.Quantities, n)
	for i := 0; i < n; i++ {
		item, qty := vals[1+2*i], vals[2+2*i]
		if _, dup := q[item]; dup {
			return nil, fmt.Errorf("line %d: %s: item %d listed twice", lr.line, what, item)
		}
		q[item] = qty
	}
	return q, nil
}

// Read parses an instance.
func Read(r io.Reader) (*wave.Instance, error) {
	lr := newLineReader(r)

	header, err := lr.exact("header", 3)
	if err != nil {
		return nil, err
	}
	nOrders, nItems, nAisles := header[0], header[1], header[2]
	if nOrders < 0 || nItems < 0 || nAisles < 0 {
		return nil, fmt.Errorf("line %d: header: counts must be >= 0", lr.line)
	}

	orders, err := readQuantities(lr, "order", nOrders)
	if err != nil {
		return nil, err
	}
	aisles, err := readQuantities(lr, "aisle", nAisles)
	if err != nil {
		return nil, err
	}

	bounds, err := lr.exact("wave bounds", 2)
	if err != nil {
		return nil, err
	}

	inst, err := wave.NewInstance(orders, aisles, nItems, wave.Bounds{Lower: bounds[0], Upper: bounds[1]})
	if err != nil {
		return nil, fmt.Errorf("invalid instance: %w", err)
	}
	return inst, nil
}

// readQuantities reads n quantity lines. Counts come from the file, so the
// slice grows with the lines actually read.
func readQuantities(lr *lineReader, what string, n int) ([]wave.Quantities, error) {
	out := make([]wave.Quantities, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		q, err := lr.quantities(fmt.Sprintf("%s %d", what, i))
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// ReadFile parses the instance stored at path.
func ReadFile(path string) (*wave.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inst, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// ReadSolution parses a solution. Indices are not checked against any
// instance; duplicates are kept so the checker can report them.
func ReadSolution(r io.Reader) (wave.Solution, error) {
	lr := newLineReader(r)
	var sol wave.Solution
	var err error
	if sol.Orders, err = readIndexList(lr, "orders"); err != nil {
		return wave.Solution{}, err
	}
	if sol.Aisles, err = readIndexList(lr, "aisles"); err != nil {
		return wave.Solution{}, err
	}
	return sol, nil
}

func readIndexList(lr *lineReader, what string) ([]int, error) {
	count, err := lr.exact(what+" count", 1)
	if err != nil {
		return nil, err
	}
	if count[0] < 0 {
		return nil, fmt.Errorf("line %d: %s count must be >= 0", lr.line, what)
	}
	out := make([]int, 0, min(count[0], maxPrealloc))
	for i := 0; i < count[0]; i++ {
		v, err := lr.exact(what, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v[0])
	}
	return out, nil
}

// WriteSolution writes sol in solution layout.
func WriteSolution(w io.Writer, sol wave.Solution) error {
	bw := bufio.NewWriter(w)
	for _, list := range [][]int{sol.Orders, sol.Aisles} {
		fmt.Fprintln(bw, len(list))
		for _, i := range list {
			fmt.Fprintln(bw, i)
		}
	}
	return bw.Flush()
}

// WriteSolutionFile writes sol to path, replacing any existing file.
func WriteSolutionFile(path string, sol wave.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSolution(f, sol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSolutionFile parses the solution stored at path.
func ReadSolutionFile(path string) (wave.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return wave.Solution{}, err
	}
	defer f.Close()
	sol, err := ReadSolution(f)
	if err != nil {
		return wave.Solution{}, fmt.Errorf("%s: %w", path, err)
	}
	return sol, nil
}
