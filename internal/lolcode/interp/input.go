package interp

import (
	"bufio"
	"io"
	"sync"
)

// WordSource supplies one whitespace-delimited word per GIMMEH statement
type WordSource interface {
	NextWord() (string, error)
}

type readerSource struct {
	mu sync.Mutex
	sc *bufio.Scanner
}

// NewReaderSource reads words from r, blocking until one is available
func NewReaderSource(r io.Reader) WordSource {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &readerSource{sc: sc}
}

func (s *readerSource) NextWord() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type staticSource struct {
	words []string
}

// StaticWords serves the given words in order, then io.EOF
func StaticWords(words ...string) WordSource {
	return &staticSource{words: words}
}

func (s *staticSource) NextWord() (string, error) {
	if len(s.words) == 0 {
		return "", io.EOF
	}
	w := s.words[0]
	s.words = s.words[1:]
	return w, nil
}

// EchoSource copies every word it serves to w, one per line
func EchoSource(src WordSource, w io.Writer) WordSource {
	return &echoSource{src: src, w: w}
}

type echoSource struct {
	src WordSource
	w   io.Writer
}

func (s *echoSource) NextWord() (string, error) {
	word, err := s.src.NextWord()
	if err == nil {
		io.WriteString(s.w, word+"\n")
	}
	return word, err
}

// Recorder serves words from another source and keeps a copy of each
type Recorder struct {
	src   WordSource
	mu    sync.Mutex
	words []string
}

// RecordSource wraps src so the words consumed by a run can be retrieved
func RecordSource(src WordSource) *Recorder {
	return &Recorder{src: src}
}

func (r *Recorder) NextWord() (string, error) {
	word, err := r.src.NextWord()
	if err == nil {
		r.mu.Lock()
		r.words = append(r.words, word)
		r.mu.Unlock()
	}
	return word, err
}

// Words returns the words served so far
func (r *Recorder) Words() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.words...)
}
