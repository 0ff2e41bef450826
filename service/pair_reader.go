package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ludo-technologies/pyplag/domain"
)

// PairReaderImpl parses pairs lists: one "<pathA> <pathB>" per line
type PairReaderImpl struct{}

// NewPairReader creates a new pair reader
func NewPairReader() *PairReaderImpl {
	return &PairReaderImpl{}
}

// ReadPairs parses reader. Blank lines are skipped; any other line must hold
// exactly two paths separated by a single space.
func (r *PairReaderImpl) ReadPairs(reader io.Reader) ([]domain.FilePair, error) {
	var pairs []domain.FilePair

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, " ")
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, domain.NewInvalidInputError(
				fmt.Sprintf("line %d: expected \"<pathA> <pathB>\", got %q", lineNo, line), nil)
		}

		pairs = append(pairs, domain.FilePair{
			Index: len(pairs),
			Line:  lineNo,
			PathA: fields[0],
			PathB: fields[1],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, domain.NewInvalidInputError("failed to read pairs list", err)
	}

	return pairs, nil
}

// ReadPairsFile opens path and parses it with ReadPairs
func (r *PairReaderImpl) ReadPairsFile(path string) ([]domain.FilePair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	defer file.Close()

	return r.ReadPairs(file)
}

// AllPairs returns every unordered pair of files in order (i < j)
func AllPairs(files []string) []domain.FilePair {
	var pairs []domain.FilePair
	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			pairs = append(pairs, domain.FilePair{
				Index: len(pairs),
				PathA: files[i],
				PathB: files[j],
			})
		}
	}
	return pairs
}
